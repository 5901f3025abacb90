package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/theirongolddev/lifesim/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Sparkline renders a unicode sparkline from values. The lowest value
// maps to the lowest block, so negative series render too.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	style := lipgloss.NewStyle().Foreground(color).Background(t.Surface)

	var buf strings.Builder
	buf.Grow(len(values) * 4) // UTF-8 block chars are up to 3 bytes
	for _, v := range values {
		idx := int((v - lo) / span * float64(len(blocks)-1))
		if idx >= len(blocks) {
			idx = len(blocks) - 1
		}
		if idx < 0 {
			idx = 0
		}
		buf.WriteRune(blocks[idx]) //nolint:gosec // bounds checked above
	}

	return style.Render(buf.String())
}

// sampleSeries picks maxN evenly spaced points from values (and labels when
// they line up).
func sampleSeries(values []float64, labels []string, maxN int) ([]float64, []string) {
	n := len(values)
	if maxN < 2 {
		maxN = 2
	}
	if n <= maxN {
		return values, labels
	}
	sampled := make([]float64, maxN)
	var sampledLabels []string
	if len(labels) == n {
		sampledLabels = make([]string, maxN)
	}
	for i := range sampled {
		srcIdx := i * (n - 1) / (maxN - 1)
		sampled[i] = values[srcIdx]
		if sampledLabels != nil {
			sampledLabels[i] = labels[srcIdx]
		}
	}
	return sampled, sampledLabels
}

// xAxisLabels lays labels under the bars, skipping ones that would collide
// and always keeping the last.
func xAxisLabels(labels []string, barW, gap, axisLen, indent int) string {
	t := theme.Active
	n := len(labels)

	buf := make([]byte, axisLen)
	for i := range buf {
		buf[i] = ' '
	}

	minSpacing := 8
	labelStep := max(1, (n*minSpacing)/(axisLen+1))

	lastEnd := -1
	for i := 0; i < n; i += labelStep {
		pos := i * (barW + gap)
		lbl := labels[i]
		end := pos + len(lbl)
		if pos <= lastEnd {
			continue
		}
		if end > axisLen {
			end = axisLen
			if end-pos < 3 {
				continue
			}
			lbl = lbl[:end-pos]
		}
		copy(buf[pos:end], lbl)
		lastEnd = end + 1
	}
	if n > 1 {
		lbl := labels[n-1]
		pos := (n - 1) * (barW + gap)
		end := pos + len(lbl)
		if end > axisLen {
			pos = axisLen - len(lbl)
			end = axisLen
		}
		if pos >= 0 && pos > lastEnd {
			for j := pos; j < end; j++ {
				buf[j] = ' '
			}
			copy(buf[pos:end], lbl)
		}
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	return lipgloss.NewStyle().Background(t.Surface).Render(strings.Repeat(" ", indent+1)) +
		labelStyle.Render(strings.TrimRight(string(buf), " "))
}

// SignedBarChart renders bars growing up from a zero axis for positive
// values and down from it for negative ones.
func SignedBarChart(values []float64, labels []string, pos, neg lipgloss.Color, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	if width < 15 || height < 3 {
		return Sparkline(values, pos)
	}
	t := theme.Active

	maxPos, maxNeg := 0.0, 0.0
	for _, v := range values {
		maxPos = math.Max(maxPos, v)
		maxNeg = math.Max(maxNeg, -v)
	}
	if maxPos == 0 && maxNeg == 0 {
		maxPos = 1
	}

	// Rows above and below the axis, proportional to each side's extent.
	upRows := int(math.Round(float64(height) * maxPos / (maxPos + maxNeg)))
	if maxPos > 0 {
		upRows = max(upRows, 1)
	}
	if maxNeg > 0 {
		upRows = min(upRows, height-1)
	}
	downRows := height - upRows

	topLabel := formatChartLabel(maxPos)
	bottomLabel := ""
	if maxNeg > 0 {
		bottomLabel = formatChartLabel(-maxNeg)
	}
	yLabelW := max(len(topLabel), len(bottomLabel), 3) + 1

	chartW := max(width-yLabelW-1, 5)
	n := len(values)
	gap := 1
	if n <= 1 {
		gap = 0
	}
	barW := chartW
	if n > 1 {
		barW = (chartW - (n - 1)) / n
	}
	if barW < 1 && n > 1 {
		values, labels = sampleSeries(values, labels, (chartW+1)/2)
		n = len(values)
		barW = 1
	}
	barW = min(barW, 6)
	axisLen := n*barW + max(0, n-1)*gap

	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	posStyle := lipgloss.NewStyle().Foreground(pos).Background(t.Surface)
	negStyle := lipgloss.NewStyle().Foreground(neg).Background(t.Surface)
	blank := lipgloss.NewStyle().Background(t.Surface)
	blocks := []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	var b strings.Builder
	writeRow := func(label string, cell func(v float64) string) {
		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, label)))
		b.WriteString(axisStyle.Render("│"))
		for i, v := range values {
			if i > 0 && gap > 0 {
				b.WriteString(blank.Render(strings.Repeat(" ", gap)))
			}
			b.WriteString(cell(v))
		}
		b.WriteString("
")
	}

	for row := upRows; row >= 1; row-- {
		rowTop := maxPos * float64(row) / float64(upRows)
		rowBottom := maxPos * float64(row-1) / float64(upRows)
		label := ""
		if row == upRows {
			label = topLabel
		}
		writeRow(label, func(v float64) string {
			switch {
			case v >= rowTop:
				return posStyle.Render(strings.Repeat("█", barW))
			case v > rowBottom:
				idx := int((v - rowBottom) / (rowTop - rowBottom) * 8)
				idx = max(1, min(idx, 8))
				return posStyle.Render(strings.Repeat(string(blocks[idx]), barW))
			default:
				return blank.Render(strings.Repeat(" ", barW))
			}
		})
	}

	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, "0")))
	b.WriteString(axisStyle.Render("┼"))
	b.WriteString(axisStyle.Render(strings.Repeat("─", axisLen)))

	for row := 1; row <= downRows; row++ {
		b.WriteString("
")
		threshold := -maxNeg * (float64(row) - 0.5) / float64(downRows)
		label := ""
		if row == downRows {
			label = bottomLabel
		}
		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, label)))
		b.WriteString(axisStyle.Render("│"))
		for i, v := range values {
			if i > 0 && gap > 0 {
				b.WriteString(blank.Render(strings.Repeat(" ", gap)))
			}
			if v < 0 && v <= threshold {
				b.WriteString(negStyle.Render(strings.Repeat("█", barW)))
			} else {
				b.WriteString(blank.Render(strings.Repeat(" ", barW)))
			}
		}
	}

	if len(labels) == n && n > 0 {
		b.WriteString("
")
		b.WriteString(xAxisLabels(labels, barW, gap, axisLen, yLabelW))
	}

	return b.String()
}

func formatChartLabel(v float64) string {
	if v < 0 {
		return "-" + formatChartLabel(-v)
	}
	switch {
	case v >= 1e9:
		if v == math.Trunc(v/1e9)*1e9 {
			return fmt.Sprintf("%.0fB", v/1e9)
		}
		return fmt.Sprintf("%.1fB", v/1e9)
	case v >= 1e6:
		if v == math.Trunc(v/1e6)*1e6 {
			return fmt.Sprintf("%.0fM", v/1e6)
		}
		return fmt.Sprintf("%.1fM", v/1e6)
	case v >= 1e3:
		if v == math.Trunc(v/1e3)*1e3 {
			return fmt.Sprintf("%.0fk", v/1e3)
		}
		return fmt.Sprintf("%.1fk", v/1e3)
	case v >= 1 || v == 0:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

package cli

import (
	"errors"
	"testing"
)

func TestFormatMoney(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{1234.5, "$1,234.50"},
		{-26000, "-$26,000.00"},
		{43175, "$43,175.00"},
		{999.999, "$1,000.00"},
	}
	for _, c := range cases {
		if got := FormatMoney(c.in); got != c.want {
			t.Errorf("FormatMoney(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatMoneyShort(t *testing.T) {
	cases := map[float64]string{
		950:      "$950",
		1234:     "$1.2K",
		-2500000: "-$2.5M",
		3e9:      "$3.0B",
	}
	for in, want := range cases {
		if got := FormatMoneyShort(in); got != want {
			t.Errorf("FormatMoneyShort(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatDelta(t *testing.T) {
	if got := FormatDelta(1200); got != "+$1,200.00" {
		t.Fatalf("FormatDelta(1200) = %q", got)
	}
	if got := FormatDelta(-700); got != "-$700.00" {
		t.Fatalf("FormatDelta(-700) = %q", got)
	}
}

func TestFormatNumber(t *testing.T) {
	if got := FormatNumber(1234567); got != "1,234,567" {
		t.Fatalf("FormatNumber = %q", got)
	}
}

func TestFormatAgeRange(t *testing.T) {
	end := 40
	if got := FormatAgeRange(30, &end); got != "30-40" {
		t.Fatalf("got %q", got)
	}
	if got := FormatAgeRange(22, nil); got != "22+" {
		t.Fatalf("got %q", got)
	}
}

func TestParseAge(t *testing.T) {
	if n, err := ParseAge(" 45 "); err != nil || n != 45 {
		t.Fatalf("ParseAge(45) = %d, %v", n, err)
	}
	if _, err := ParseAge("-1"); !errors.Is(err, ErrAgeRange) {
		t.Fatalf("ParseAge(-1) err = %v", err)
	}
	if _, err := ParseAge("151"); !errors.Is(err, ErrAgeRange) {
		t.Fatalf("ParseAge(151) err = %v", err)
	}
	if _, err := ParseAge("forty"); !errors.Is(err, ErrNotInteger) {
		t.Fatalf("ParseAge(forty) err = %v", err)
	}
}

func TestParseOptionalAge(t *testing.T) {
	got, err := ParseOptionalAge("  ")
	if err != nil || got != nil {
		t.Fatalf("blank = %v, %v", got, err)
	}
	got, err = ParseOptionalAge("40")
	if err != nil || got == nil || *got != 40 {
		t.Fatalf("40 = %v, %v", got, err)
	}
}

func TestParseAmount(t *testing.T) {
	cases := map[string]float64{
		"300":       300,
		"$1,250.75": 1250.75,
		" 0 ":       0,
		"12000.5":   12000.5,
	}
	for in, want := range cases {
		got, err := ParseAmount(in)
		if err != nil || got != want {
			t.Errorf("ParseAmount(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	for _, bad := range []string{"", "-5", "abc", "NaN"} {
		if _, err := ParseAmount(bad); !errors.Is(err, ErrBadAmount) {
			t.Errorf("ParseAmount(%q) err = %v, want ErrBadAmount", bad, err)
		}
	}
}

func TestParseCapital(t *testing.T) {
	got, err := ParseCapital("-5,000")
	if err != nil || got != -5000 {
		t.Fatalf("ParseCapital(-5,000) = %v, %v", got, err)
	}
}

func TestRenderSparklineHandlesNegatives(t *testing.T) {
	got := []rune(RenderSparkline([]float64{-100, 0, 100}))
	if len(got) != 3 {
		t.Fatalf("len = %d", len(got))
	}
	if got[0] != '▁' || got[2] != '█' {
		t.Fatalf("sparkline = %q", string(got))
	}
}

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/theirongolddev/lifesim/internal/model"
	"github.com/theirongolddev/lifesim/internal/projection"
)

// ErrInputClosed is returned when input ends in the middle of a prompt.
var ErrInputClosed = errors.New("input closed")

// Prompter reads answers line by line, re-asking until each one parses.
// Lines are scanned on a separate goroutine so a prompt can give up when
// its context is canceled.
type Prompter struct {
	r   io.Reader
	out io.Writer

	once  sync.Once
	lines chan string
	err   error // scanner error, set before lines is closed
}

// NewPrompter reads from r and writes prompts to w.
func NewPrompter(r io.Reader, w io.Writer) *Prompter {
	return &Prompter{r: r, out: w, lines: make(chan string)}
}

func (p *Prompter) scan() {
	sc := bufio.NewScanner(p.r)
	for sc.Scan() {
		p.lines <- sc.Text()
	}
	p.err = sc.Err()
	close(p.lines)
}

// Ask prints prompt and returns the trimmed reply. It returns ctx.Err()
// as soon as ctx is done, even while the reader is blocked.
func (p *Prompter) Ask(ctx context.Context, prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	p.once.Do(func() { go p.scan() })

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-p.lines:
		if !ok {
			if p.err != nil {
				return "", p.err
			}
			return "", ErrInputClosed
		}
		return strings.TrimSpace(line), nil
	}
}

// askParsed re-prompts until parse accepts the reply.
func askParsed[T any](ctx context.Context, p *Prompter, prompt string, parse func(string) (T, error)) (T, error) {
	for {
		s, err := p.Ask(ctx, prompt)
		if err != nil {
			var zero T
			return zero, err
		}
		v, err := parse(s)
		if err == nil {
			return v, nil
		}
		fmt.Fprintf(p.out, "  %v, try again\n", err)
	}
}

// AskName re-prompts until the reply is non-empty.
func (p *Prompter) AskName(ctx context.Context, prompt string) (string, error) {
	return askParsed(ctx, p, prompt, func(s string) (string, error) {
		if s == "" {
			return "", errors.New("name is required")
		}
		return s, nil
	})
}

// AskAge re-prompts until the reply is a valid age.
func (p *Prompter) AskAge(ctx context.Context, prompt string) (int, error) {
	return askParsed(ctx, p, prompt, ParseAge)
}

// AskAgeDefault is AskAge with blank input meaning def.
func (p *Prompter) AskAgeDefault(ctx context.Context, prompt string, def int) (int, error) {
	return askParsed(ctx, p, prompt, func(s string) (int, error) {
		if s == "" {
			return def, nil
		}
		return ParseAge(s)
	})
}

// AskOptionalAge accepts a blank reply as "no age".
func (p *Prompter) AskOptionalAge(ctx context.Context, prompt string) (*int, error) {
	return askParsed(ctx, p, prompt, ParseOptionalAge)
}

// AskAmount re-prompts until the reply is a non-negative amount.
func (p *Prompter) AskAmount(ctx context.Context, prompt string) (float64, error) {
	return askParsed(ctx, p, prompt, ParseAmount)
}

// AskCapital re-prompts until the reply is a signed amount.
func (p *Prompter) AskCapital(ctx context.Context, prompt string) (float64, error) {
	return askParsed(ctx, p, prompt, ParseCapital)
}

// AskFrequency offers the frequencies as a numbered list. Names and
// aliases are accepted too.
func (p *Prompter) AskFrequency(ctx context.Context) (model.Frequency, error) {
	fmt.Fprintln(p.out, "Select frequency:")
	for i, f := range model.Frequencies {
		fmt.Fprintf(p.out, "%d. %s\n", i+1, f)
	}
	return askParsed(ctx, p, "Choose frequency [1]: ", func(s string) (model.Frequency, error) {
		switch s {
		case "":
			return model.Yearly, nil
		case "1", "2", "3":
			return model.Frequencies[s[0]-'1'], nil
		}
		return model.ParseFrequency(s)
	})
}

// PromptPerson asks for name, age and starting capital.
func PromptPerson(ctx context.Context, p *Prompter) (*model.Person, error) {
	name, err := p.AskName(ctx, "Enter your name: ")
	if err != nil {
		return nil, err
	}
	age, err := p.AskAge(ctx, "Enter your current age: ")
	if err != nil {
		return nil, err
	}
	capital, err := p.AskCapital(ctx, "Enter your starting capital: ")
	if err != nil {
		return nil, err
	}
	return model.NewPerson(name, age, capital)
}

// Menu is the numbered interactive loop over one engine.
type Menu struct {
	engine *projection.Engine
	prompt *Prompter
	out    io.Writer
	log    *slog.Logger
}

// NewMenu returns a menu driving e.
func NewMenu(e *projection.Engine, p *Prompter, out io.Writer, log *slog.Logger) *Menu {
	return &Menu{engine: e, prompt: p, out: out, log: log}
}

const menuText = `
--- Life Simulator Menu ---
1. View current status
2. Add expense
3. Add income
4. View balance at specific age
5. Show balance history
6. Exit
`

// Run loops until the user exits, input ends, or ctx is cancelled.
func (m *Menu) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(m.out, menuText)
		choice, err := m.prompt.Ask(ctx, "Choose an option: ")
		if errors.Is(err, ErrInputClosed) {
			return nil
		}
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			m.status()
		case "2":
			err = m.addItem(ctx, model.RoleExpense)
		case "3":
			err = m.addItem(ctx, model.RoleIncome)
		case "4":
			err = m.balance(ctx)
		case "5":
			m.history()
		case "6", "q", "exit":
			fmt.Fprintln(m.out, "Thanks for using Life Simulator!")
			return nil
		default:
			fmt.Fprintln(m.out, "Invalid option. Please try again.")
		}
		if errors.Is(err, ErrInputClosed) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (m *Menu) status() {
	p := m.engine.Person()
	fmt.Fprintln(m.out, "\n--- Current Status ---")
	fmt.Fprintf(m.out, "Name: %s\n", p.Name)
	fmt.Fprintf(m.out, "Age: %d\n", p.Age)
	fmt.Fprintf(m.out, "Starting Capital: %s\n", FormatMoney(p.Capital))
	fmt.Fprintf(m.out, "Current Balance: %s\n", FormatMoney(p.CurrentBalance()))
	fmt.Fprintf(m.out, "Number of Expenses: %d\n", len(p.Expenses))
	fmt.Fprintf(m.out, "Number of Incomes: %d\n", len(p.Incomes))
}

func (m *Menu) addItem(ctx context.Context, role model.Role) error {
	title := "Expense"
	if role == model.RoleIncome {
		title = "Income"
	}
	lower := strings.ToLower(title)
	fmt.Fprintf(m.out, "\n--- Add %s ---\n", title)

	name, err := m.prompt.AskName(ctx, title+" name: ")
	if err != nil {
		return err
	}
	amount, err := m.prompt.AskAmount(ctx, "Amount per period: ")
	if err != nil {
		return err
	}
	freq, err := m.prompt.AskFrequency(ctx)
	if err != nil {
		return err
	}
	ref := m.engine.Person().Age
	start, err := m.prompt.AskAgeDefault(ctx, fmt.Sprintf("Start age for this %s [%d]: ", lower, ref), ref)
	if err != nil {
		return err
	}
	end, err := m.prompt.AskOptionalAge(ctx, fmt.Sprintf("End age for this %s (leave empty for ongoing): ", lower))
	if err != nil {
		return err
	}

	it, err := model.NewItem(name, amount, freq, start, end)
	if err != nil {
		fmt.Fprintf(m.out, "Could not add %s: %v\n", lower, err)
		return nil
	}
	m.engine.Add(role, it)
	m.log.Debug("item added", "role", role, "name", it.Name, "yearly", it.YearlyAmount())
	fmt.Fprintf(m.out, "%s added successfully!\n", title)
	return nil
}

func (m *Menu) balance(ctx context.Context) error {
	age, err := m.prompt.AskAge(ctx, "Enter age to view balance: ")
	if err != nil {
		return err
	}
	proj := m.engine.Project(age)
	fmt.Fprintf(m.out, "Projected balance at age %d: %s\n", age, FormatMoney(proj.Balance))
	if proj.Approximated() {
		fmt.Fprintf(m.out, "(approximated: age %d is before the current age %d)\n", age, m.engine.Person().Age)
	}
	return nil
}

func (m *Menu) history() {
	points := m.engine.Points()
	if len(points) == 0 {
		fmt.Fprintln(m.out, "No balance history available.")
		return
	}
	fmt.Fprintln(m.out, "\n--- Balance History ---")
	for _, pt := range points {
		fmt.Fprintf(m.out, "Age %d: %s\n", pt.Age, FormatMoney(pt.Balance))
	}
}

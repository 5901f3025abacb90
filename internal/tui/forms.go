package tui

import (
	"errors"
	"strconv"
	"strings"

	"github.com/theirongolddev/lifesim/internal/cli"
	"github.com/theirongolddev/lifesim/internal/model"

	"github.com/charmbracelet/huh"
)

type formKind int

const (
	formNone formKind = iota
	formPerson
	formItem
)

// personFormValues backs the huh person form. Fields are strings so the
// inputs can be validated with the same parsers as the line menu.
type personFormValues struct {
	Name    string
	Age     string
	Capital string
}

type itemFormValues struct {
	Role      string
	Name      string
	Amount    string
	Frequency string
	Start     string
	End       string
}

func requireName(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("name is required")
	}
	return nil
}

func checkAge(s string) error {
	_, err := cli.ParseAge(s)
	return err
}

func checkOptionalAge(s string) error {
	_, err := cli.ParseOptionalAge(s)
	return err
}

func checkAmount(s string) error {
	_, err := cli.ParseAmount(s)
	return err
}

func checkCapital(s string) error {
	_, err := cli.ParseCapital(s)
	return err
}

func newPersonForm(v *personFormValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to lifesim").
				Description("Describe who you are today. Expenses and incomes are added from the dashboard."),
			huh.NewInput().
				Title("Name").
				Value(&v.Name).
				Validate(requireName),
			huh.NewInput().
				Title("Current age").
				Placeholder("30").
				Value(&v.Age).
				Validate(checkAge),
			huh.NewInput().
				Title("Current capital").
				Placeholder("10000").
				Value(&v.Capital).
				Validate(checkCapital),
		),
	).WithShowHelp(true)
}

// person builds a validated person from the completed form.
func (v *personFormValues) person() (*model.Person, error) {
	age, err := cli.ParseAge(v.Age)
	if err != nil {
		return nil, err
	}
	capital, err := cli.ParseCapital(v.Capital)
	if err != nil {
		return nil, err
	}
	return model.NewPerson(strings.TrimSpace(v.Name), age, capital)
}

func newItemForm(v *itemFormValues) *huh.Form {
	freqOpts := make([]huh.Option[string], 0, len(model.Frequencies))
	for _, f := range model.Frequencies {
		freqOpts = append(freqOpts, huh.NewOption(f.String(), f.String()))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Kind").
				Options(
					huh.NewOption("Expense", string(model.RoleExpense)),
					huh.NewOption("Income", string(model.RoleIncome)),
				).
				Value(&v.Role),
			huh.NewInput().
				Title("Name").
				Value(&v.Name).
				Validate(requireName),
			huh.NewInput().
				Title("Amount per period").
				Value(&v.Amount).
				Validate(checkAmount),
			huh.NewSelect[string]().
				Title("Frequency").
				Options(freqOpts...).
				Value(&v.Frequency),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Start age").
				Value(&v.Start).
				Validate(checkAge),
			huh.NewInput().
				Title("End age").
				Description("Exclusive. Leave blank if it never ends.").
				Value(&v.End).
				Validate(func(s string) error {
					if err := checkOptionalAge(s); err != nil {
						return err
					}
					return checkRange(v.Start, s)
				}),
		),
	).WithShowHelp(true)
}

func checkRange(start, end string) error {
	s, err := cli.ParseAge(start)
	if err != nil {
		return nil // reported on the start field
	}
	e, err := cli.ParseOptionalAge(end)
	if err != nil || e == nil {
		return nil
	}
	if *e < s {
		return model.ErrInvalidRange
	}
	return nil
}

// item builds the role and validated item from the completed form.
func (v *itemFormValues) item() (model.Role, model.Item, error) {
	role, err := model.ParseRole(v.Role)
	if err != nil {
		return "", model.Item{}, err
	}
	amount, err := cli.ParseAmount(v.Amount)
	if err != nil {
		return "", model.Item{}, err
	}
	freq, err := model.ParseFrequency(v.Frequency)
	if err != nil {
		return "", model.Item{}, err
	}
	start, err := cli.ParseAge(v.Start)
	if err != nil {
		return "", model.Item{}, err
	}
	end, err := cli.ParseOptionalAge(v.End)
	if err != nil {
		return "", model.Item{}, err
	}
	it, err := model.NewItem(strings.TrimSpace(v.Name), amount, freq, start, end)
	return role, it, err
}

// itemDefaults prefills the item form for role, starting at age.
func itemDefaults(role model.Role, age int) *itemFormValues {
	return &itemFormValues{
		Role:      string(role),
		Frequency: model.Monthly.String(),
		Start:     strconv.Itoa(age),
	}
}

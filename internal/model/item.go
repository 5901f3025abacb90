package model

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrNegativeAge      = errors.New("negative age")
	ErrInvalidRange     = errors.New("invalid age range")
	ErrUnknownFrequency = errors.New("unknown frequency")
)

// validate is shared by every entity in this package.
var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("frequency", func(fl validator.FieldLevel) bool {
		return Frequency(fl.Field().Int()).Valid()
	})
}

// Role says which side of the balance an item sits on.
type Role string

const (
	RoleExpense Role = "expense"
	RoleIncome  Role = "income"
)

// ParseRole parses "expense" or "income".
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleExpense, RoleIncome:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Item is a recurring expense or income. Expenses and incomes share this
// type; the sequence holding an item decides whether it reduces or increases
// the balance.
type Item struct {
	Name      string    `json:"name"`
	Amount    float64   `json:"amount" validate:"gte=0"`
	Frequency Frequency `json:"frequency" validate:"frequency"`
	StartAge  int       `json:"start_age" validate:"gte=0"`
	EndAge    *int      `json:"end_age,omitempty" validate:"omitempty,gte=0"` // nil means ongoing
}

// NewItem builds a validated item. endAge is exclusive; pass nil for an
// item with no end.
func NewItem(name string, amount float64, freq Frequency, startAge int, endAge *int) (Item, error) {
	it := Item{
		Name:      name,
		Amount:    amount,
		Frequency: freq,
		StartAge:  startAge,
	}
	if endAge != nil {
		it.EndAge = Ends(*endAge)
	}
	if err := it.Validate(); err != nil {
		return Item{}, err
	}
	return it, nil
}

// Ends returns a pointer suitable for Item.EndAge.
func Ends(age int) *int {
	return &age
}

// Validate checks the item's amount, ages, range and frequency.
func (it Item) Validate() error {
	if math.IsNaN(it.Amount) || math.IsInf(it.Amount, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidAmount, it.Amount)
	}
	if err := validate.Struct(it); err != nil {
		return translate(err)
	}
	if it.EndAge != nil && *it.EndAge < it.StartAge {
		return fmt.Errorf("%w: ends at %d before it starts at %d", ErrInvalidRange, *it.EndAge, it.StartAge)
	}
	return nil
}

// ActiveAt reports whether the item applies during the year starting at age.
func (it Item) ActiveAt(age int) bool {
	if age < it.StartAge {
		return false
	}
	return it.EndAge == nil || age < *it.EndAge
}

// YearlyAmount normalizes the per-period amount to one year.
func (it Item) YearlyAmount() float64 {
	return it.Amount * it.Frequency.Multiplier()
}

// Clone returns a copy that shares no memory with it.
func (it Item) Clone() Item {
	if it.EndAge != nil {
		it.EndAge = Ends(*it.EndAge)
	}
	return it
}

// YearlyTotal sums the yearly amounts of the items active at age.
func YearlyTotal(items []Item, age int) float64 {
	var total float64
	for _, it := range items {
		if it.ActiveAt(age) {
			total += it.YearlyAmount()
		}
	}
	return total
}

// translate maps the first validator failure onto a sentinel error.
func translate(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	switch fe.StructField() {
	case "Amount", "Capital":
		return fmt.Errorf("%w: %v", ErrInvalidAmount, fe.Value())
	case "StartAge", "EndAge", "Age":
		return fmt.Errorf("%w: %s is %v", ErrNegativeAge, fe.Field(), fe.Value())
	case "Frequency":
		return fmt.Errorf("%w: %v", ErrUnknownFrequency, fe.Value())
	}
	return err
}

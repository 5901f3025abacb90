package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/lifesim/internal/model"
	"github.com/theirongolddev/lifesim/internal/projection"
)

const carTOML = `
[person]
name = "Jane Smith"
age = 30
capital = 60000.0

[[expenses]]
name = "Car Payment"
amount = 300.0
frequency = "monthly"
start_age = 30
end_age = 40
`

const salaryYAML = `
person:
  name: Alice
  age: 22
  capital: 45000
expenses:
  - name: Coffee
    amount: 5
    frequency: daily
    start_age: 22
incomes:
  - name: Salary
    amount: 30000
    start_age: 22
    end_age: 23
`

func writeScenario(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadTOML(t *testing.T) {
	sc, err := Load(writeScenario(t, "jane.toml", carTOML))
	require.NoError(t, err)

	assert.Equal(t, "Jane Smith", sc.Person.Name)
	require.Len(t, sc.Expenses, 1)
	require.NotNil(t, sc.Expenses[0].EndAge)
	assert.Equal(t, 40, *sc.Expenses[0].EndAge)

	e, err := sc.Build()
	require.NoError(t, err)
	assert.Equal(t, 24000.0, e.BalanceAt(45))
}

func TestLoadYAML(t *testing.T) {
	sc, err := Load(writeScenario(t, "alice.yml", salaryYAML))
	require.NoError(t, err)

	e, err := sc.Build()
	require.NoError(t, err)
	require.Len(t, e.Person().Incomes, 1)
	assert.Equal(t, model.Yearly, e.Person().Incomes[0].Frequency, "frequency defaults to yearly")
	assert.Equal(t, 45000.0-1825+30000, e.BalanceAt(23))
}

func TestBuildPassesOptions(t *testing.T) {
	sc, err := Parse([]byte(carTOML), FormatTOML)
	require.NoError(t, err)

	e, err := sc.Build(projection.WithBackwardMode(projection.BackwardInvert))
	require.NoError(t, err)
	assert.Equal(t, projection.BackwardInvert, e.BackwardMode())
}

func TestBuildReportsOffendingEntry(t *testing.T) {
	sc := &Scenario{
		Person: PersonEntry{Name: "Bob", Age: 20, Capital: 100},
		Expenses: []ItemEntry{
			{Name: "Rent", Amount: 800, Frequency: "monthly", StartAge: 20},
			{Name: "Loan", Amount: 100, StartAge: 30, EndAge: model.Ends(25)},
		},
	}

	_, err := sc.Build()
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInvalidRange)
	assert.Contains(t, err.Error(), `expenses[1] "Loan"`)

	sc.Expenses = sc.Expenses[:1]
	sc.Incomes = []ItemEntry{{Name: "Gig", Amount: 1, Frequency: "weekly"}}
	_, err = sc.Build()
	assert.ErrorIs(t, err, model.ErrUnknownFrequency)

	sc.Incomes = nil
	sc.Person.Age = -4
	_, err = sc.Build()
	assert.ErrorIs(t, err, model.ErrNegativeAge)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("[person]\nnmae = \"typo\"\n"), FormatTOML)
	assert.Error(t, err)

	_, err = Parse([]byte("person:\n  nmae: typo\n"), FormatYAML)
	assert.Error(t, err)
}

func TestFormatFor(t *testing.T) {
	f, err := FormatFor("plan.TOML")
	require.NoError(t, err)
	assert.Equal(t, FormatTOML, f)

	f, err = FormatFor("plan.yaml")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = FormatFor("plan.json")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

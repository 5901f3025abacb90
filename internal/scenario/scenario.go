// Package scenario reads person-and-items descriptions from TOML or YAML
// files and turns them into projection engines.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/theirongolddev/lifesim/internal/model"
	"github.com/theirongolddev/lifesim/internal/projection"
)

// Format identifies a scenario encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// ErrUnknownFormat is returned for files whose extension is not recognized.
var ErrUnknownFormat = errors.New("unknown scenario format")

// Scenario is the file form of a person and their recurring items.
type Scenario struct {
	Person   PersonEntry `toml:"person" yaml:"person"`
	Expenses []ItemEntry `toml:"expenses" yaml:"expenses"`
	Incomes  []ItemEntry `toml:"incomes" yaml:"incomes"`
}

// PersonEntry describes the person.
type PersonEntry struct {
	Name    string  `toml:"name" yaml:"name"`
	Age     int     `toml:"age" yaml:"age"`
	Capital float64 `toml:"capital" yaml:"capital"`
}

// ItemEntry describes one recurring item. Frequency defaults to yearly.
type ItemEntry struct {
	Name      string  `toml:"name" yaml:"name"`
	Amount    float64 `toml:"amount" yaml:"amount"`
	Frequency string  `toml:"frequency" yaml:"frequency"`
	StartAge  int     `toml:"start_age" yaml:"start_age"`
	EndAge    *int    `toml:"end_age" yaml:"end_age"`
}

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// Load reads and decodes a scenario file.
func Load(path string) (*Scenario, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path) //nolint:gosec // path is supplied by the local user
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	sc, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return sc, nil
}

// Parse decodes a scenario from data.
func Parse(data []byte, format Format) (*Scenario, error) {
	var sc Scenario
	switch format {
	case FormatTOML:
		md, err := toml.Decode(string(data), &sc)
		if err != nil {
			return nil, err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("unknown key %q", undecoded[0].String())
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&sc); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return &sc, nil
}

// Build validates every entry and returns an engine owning the person.
func (sc *Scenario) Build(opts ...projection.Option) (*projection.Engine, error) {
	p, err := model.NewPerson(sc.Person.Name, sc.Person.Age, sc.Person.Capital)
	if err != nil {
		return nil, fmt.Errorf("person %q: %w", sc.Person.Name, err)
	}
	e := projection.New(p, opts...)

	for i, entry := range sc.Expenses {
		it, err := entry.Item()
		if err != nil {
			return nil, fmt.Errorf("expenses[%d] %q: %w", i, entry.Name, err)
		}
		e.AddExpense(it)
	}
	for i, entry := range sc.Incomes {
		it, err := entry.Item()
		if err != nil {
			return nil, fmt.Errorf("incomes[%d] %q: %w", i, entry.Name, err)
		}
		e.AddIncome(it)
	}
	return e, nil
}

// Item converts the entry into a validated model item.
func (ie ItemEntry) Item() (model.Item, error) {
	freq := model.Yearly
	if ie.Frequency != "" {
		f, err := model.ParseFrequency(ie.Frequency)
		if err != nil {
			return model.Item{}, err
		}
		freq = f
	}
	return model.NewItem(ie.Name, ie.Amount, freq, ie.StartAge, ie.EndAge)
}

package taxrules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Store provides lookup of tax rule tables by tax-year label. It is built
// once at startup and read-only afterwards, so it needs no locking.
type Store interface {
	// ByYear returns the table for the given tax-year label.
	// Returns nil, nil if no table is known for that year (not an error).
	ByYear(year string) (*Table, error)

	// Current returns the table the store was configured to treat as the
	// current tax year.
	Current() *Table

	// Years returns the known tax-year labels.
	Years() []string
}

type store struct {
	tables  map[string]*Table
	current string
	order   []string
}

// NewStore builds a store seeded with the built-in default table. If path is
// non-empty, tables are loaded from the YAML file at path; a loaded table
// with the same year label as the default replaces it, and the last table in
// the file becomes the current year.
func NewStore(path string) (Store, error) {
	def := Default()
	s := &store{
		tables:  map[string]*Table{def.Year: def},
		current: def.Year,
		order:   []string{def.Year},
	}

	if path != "" {
		loaded, err := loadFile(path)
		if err != nil {
			return nil, err
		}
		for _, t := range loaded {
			if _, exists := s.tables[t.Year]; !exists {
				s.order = append(s.order, t.Year)
			}
			s.tables[t.Year] = t
			s.current = t.Year
		}
	}

	return s, nil
}

func (s *store) ByYear(year string) (*Table, error) {
	t, ok := s.tables[year]
	if !ok {
		return nil, nil
	}
	return t, nil
}

func (s *store) Current() *Table {
	return s.tables[s.current]
}

func (s *store) Years() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// loadFile reads one or more tables from a YAML file. The file holds a list
// of table documents under a top-level "tables" key. Every table is
// validated before the set is returned; a single invalid table rejects the
// whole file.
func loadFile(path string) ([]*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tax rules file: %w", err)
	}

	var doc struct {
		Tables []*Table `yaml:"tables"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse tax rules file %s: %w", path, err)
	}
	if len(doc.Tables) == 0 {
		return nil, fmt.Errorf("tax rules file %s contains no tables", path)
	}

	for _, t := range doc.Tables {
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("tax rules file %s: %w", path, err)
		}
	}

	return doc.Tables, nil
}

// Package enrich supplies the unit metadata that .blk files do not carry:
// display name, country, role and ammo capacity.
package enrich

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Info is the metadata attached to a unit record.
type Info struct {
	Name       string `yaml:"name"`
	Country    string `yaml:"country"`
	Role       string `yaml:"role"`
	AmmoAmount int    `yaml:"ammo_amount"`

	// Resolved is false for placeholder values.
	Resolved bool `yaml:"-"`
}

// Resolver looks up metadata for a unit by its file stem.
type Resolver interface {
	Resolve(id string) Info
}

// Placeholder returns fixed values for every unit. Nothing it returns is
// derived from game data; records built from it are marked unresolved.
type Placeholder struct{}

func (Placeholder) Resolve(id string) Info {
	return Info{
		Name:       id + " (USA)",
		Country:    "USA",
		Role:       "Medium tank",
		AmmoAmount: 25,
	}
}

// Table resolves units from a loaded YAML table and defers to Fallback for
// units it does not list.
type Table struct {
	Units    map[string]Info `yaml:"units"`
	Fallback Resolver        `yaml:"-"`
}

// LoadTable reads a YAML enrichment file of the form
//
//	units:
//	  tiger:
//	    name: Tiger H1
//	    country: Germany
//	    role: Heavy tank
//	    ammo_amount: 92
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read enrichment table: %w", err)
	}
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse enrichment table %s: %w", path, err)
	}
	for id, info := range t.Units {
		if strings.TrimSpace(id) == "" {
			return nil, fmt.Errorf("parse enrichment table %s: empty unit id", path)
		}
		info.Resolved = true
		t.Units[id] = info
	}
	t.Fallback = Placeholder{}
	return &t, nil
}

func (t *Table) Resolve(id string) Info {
	if info, ok := t.Units[id]; ok {
		if info.Name == "" {
			info.Name = id
		}
		return info
	}
	if t.Fallback == nil {
		return Placeholder{}.Resolve(id)
	}
	return t.Fallback.Resolve(id)
}

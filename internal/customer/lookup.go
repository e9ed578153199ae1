// Package customer maps raw customer names from packing, shipping and order
// extracts onto canonical customer names.
package customer

import (
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Active-Apparel-Group/data-orchestration/internal/model"
)

// Entry is one canonical customer and the raw names that mean it.
type Entry struct {
	Canonical string   `yaml:"canonical"`
	Aliases   []string `yaml:"aliases"`
}

type file struct {
	Customers []Entry `yaml:"customers"`
}

// Lookup resolves raw customer names to canonical names.
type Lookup struct {
	byName map[string]string
}

// Load reads a customer mapping file.
func Load(path string) (*Lookup, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "customer: read %s", path)
	}
	l, err := Parse(data)
	if err != nil {
		return nil, eris.Wrapf(err, "customer: load %s", path)
	}
	zap.L().Debug("customer: mapping loaded",
		zap.String("path", path),
		zap.Int("names", l.Len()),
	)
	return l, nil
}

// Parse builds a Lookup from YAML of the form
//
//	customers:
//	  - canonical: GREYSON
//	    aliases: ["Greyson Clothiers", "Greyson Clothiers LLC"]
func Parse(data []byte) (*Lookup, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrap(err, "customer: parse mapping")
	}

	l := &Lookup{byName: make(map[string]string)}
	for i, e := range f.Customers {
		if NormalizeName(e.Canonical) == "" {
			return nil, eris.Errorf("customer: entry %d has no canonical name", i)
		}
		names := append([]string{e.Canonical}, e.Aliases...)
		for _, n := range names {
			key := NormalizeName(n)
			if key == "" {
				continue
			}
			if existing, ok := l.byName[key]; ok && existing != e.Canonical {
				return nil, eris.Errorf("customer: %q maps to both %q and %q", n, existing, e.Canonical)
			}
			l.byName[key] = e.Canonical
		}
	}
	return l, nil
}

// Len reports the number of distinct names known to the lookup.
func (l *Lookup) Len() int {
	if l == nil {
		return 0
	}
	return len(l.byName)
}

// Resolve returns the canonical name for raw. Unknown names come back
// normalized with ok false.
func (l *Lookup) Resolve(raw string) (string, bool) {
	key := NormalizeName(raw)
	if l != nil {
		if c, ok := l.byName[key]; ok {
			return c, true
		}
	}
	return key, false
}

// ApplyRecords fills CanonicalCustomer on records that lack one and returns
// the number of names that were not in the mapping.
func (l *Lookup) ApplyRecords(records []model.Record) int {
	var unknown int
	for i := range records {
		if records[i].CanonicalCustomer != "" {
			continue
		}
		c, ok := l.Resolve(records[i].Customer)
		if !ok {
			unknown++
		}
		records[i].CanonicalCustomer = c
	}
	return unknown
}

// ApplyOrders is ApplyRecords for order lines.
func (l *Lookup) ApplyOrders(orders []model.OrderRecord) int {
	var unknown int
	for i := range orders {
		if orders[i].CanonicalCustomer != "" {
			continue
		}
		c, ok := l.Resolve(orders[i].Customer)
		if !ok {
			unknown++
		}
		orders[i].CanonicalCustomer = c
	}
	return unknown
}

package family

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Delimiter separates the family from the qualifier in a column mapping entry.
const Delimiter = ":"

var (
	ErrInvalidCoordinate = errors.New("expected family" + Delimiter + "qualifier")
	ErrUnknownColumn     = errors.New("unknown column")
)

// Column describes one configured column and where its value is stored. Columns with an
// empty Family are never written.
type Column struct {
	Name      string
	Type      string
	Family    string
	Qualifier string
}

// Stored reports whether the column has a family/qualifier coordinate.
func (c Column) Stored() bool {
	return c.Family != ""
}

// Split parses a "family:qualifier" coordinate. Exactly one delimiter is allowed and both parts
// must be non-empty.
func Split(coordinate string) (string, string, error) {
	parts := strings.Split(coordinate, Delimiter)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%q: %w", coordinate, ErrInvalidCoordinate)
	}
	return parts[0], parts[1], nil
}

// Map resolves every configured column to its coordinate. The mapping is keyed by column
// name; names and types are positional and types may be shorter than names.
func Map(names, types []string, mapping map[string]string) ([]Column, error) {
	index := make(map[string]int, len(names))
	columns := make([]Column, len(names))
	for i, name := range names {
		index[name] = i
		columns[i].Name = name
		if i < len(types) {
			columns[i].Type = types[i]
		}
	}

	// sorted so the error output is stable
	keys := make([]string, 0, len(mapping))
	for k := range mapping {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var errGrp []error
	for _, name := range keys {
		i, ok := index[name]
		if !ok {
			errGrp = append(errGrp, fmt.Errorf("column %q: %w", name, ErrUnknownColumn))
			continue
		}
		fam, qualifier, err := Split(mapping[name])
		if err != nil {
			errGrp = append(errGrp, fmt.Errorf("column %q: %w", name, err))
			continue
		}
		columns[i].Family = fam
		columns[i].Qualifier = qualifier
	}

	if err := errors.Join(errGrp...); err != nil {
		return nil, err
	}
	return columns, nil
}

// Families returns the distinct families of the stored columns, in column order.
func Families(columns []Column) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, c := range columns {
		if !c.Stored() {
			continue
		}
		if _, ok := seen[c.Family]; ok {
			continue
		}
		seen[c.Family] = struct{}{}
		out = append(out, c.Family)
	}
	return out
}

package cashflow

import (
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

// Palette is the ordered list of colors available to categories that have no
// color of their own.
type Palette []string

// DefaultPalette returns the stock category colors.
func DefaultPalette() Palette {
	return Palette{
		"#e99537", "#4da568", "#6471eb", "#db5a54", "#df4e92",
		"#c44fe9", "#eb5429", "#61c9ea", "#805dee", "#6ad28a",
	}
}

// ParsePalette reads a comma separated color list, dropping blanks.
func ParsePalette(s string) Palette {
	var p Palette
	for _, c := range strings.Split(s, ",") {
		if c = strings.TrimSpace(c); c != "" {
			p = append(p, c)
		}
	}
	return p
}

// Pick returns the palette color assigned to id. The same id always maps to
// the same color for a given palette. ok is false for an empty palette.
func (p Palette) Pick(id uuid.UUID) (color string, ok bool) {
	if len(p) == 0 {
		return "", false
	}
	return p[xxhash.Sum64(id[:])%uint64(len(p))], true
}

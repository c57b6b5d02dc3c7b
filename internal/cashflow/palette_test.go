package cashflow

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

func TestParsePalette(t *testing.T) {
	got := ParsePalette(" #111111, ,#222222,#333333 ,")
	want := Palette{"#111111", "#222222", "#333333"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ParsePalette mismatch (-want +got):\n%s", diff)
	}
	if p := ParsePalette(""); len(p) != 0 {
		t.Fatalf("expected empty palette, got %v", p)
	}
}

func TestPalettePick(t *testing.T) {
	p := DefaultPalette()
	id := uuid.MustParse("0b7b2f52-9d3c-4a8e-8f5e-3f1f7a0e6c11")

	first, ok := p.Pick(id)
	if !ok {
		t.Fatalf("expected a color from the default palette")
	}
	for i := 0; i < 10; i++ {
		if again, _ := p.Pick(id); again != first {
			t.Fatalf("Pick not deterministic: %q then %q", first, again)
		}
	}

	found := false
	for _, c := range p {
		if c == first {
			found = true
		}
	}
	if !found {
		t.Fatalf("picked color %q is not in the palette", first)
	}

	if _, ok := (Palette{}).Pick(id); ok {
		t.Fatalf("empty palette must report no color")
	}
}

func TestPalettePickSpreads(t *testing.T) {
	p := DefaultPalette()
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		c, _ := p.Pick(uuid.New())
		seen[c] = true
	}
	if len(seen) < 5 {
		t.Fatalf("expected ids to spread over the palette, only saw %d colors", len(seen))
	}
}

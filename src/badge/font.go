// Package badge renders a shields.io-style release status badge SVG.
package badge

import (
	"fmt"
	"os"

	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// Metrics measures badge text width. With no font file configured the
// badge falls back to approximate per-character advances, which is
// good enough for the short label/value pairs badges carry.
type Metrics struct {
	name     string
	size     float64
	advances map[rune]float64
	fallback float64
}

const defaultFontSize = 11

// ApproxMetrics returns estimate-based metrics for the default badge
// font stack (Verdana-compatible widths).
func ApproxMetrics() *Metrics {
	return &Metrics{
		name:     "Verdana",
		size:     defaultFontSize,
		fallback: defaultFontSize * 0.62,
	}
}

// LoadFontFile loads a TTF/OTF and measures printable-ASCII glyph
// advances at badge size.
func LoadFontFile(path string) (*Metrics, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading font file %s: %w", path, err)
	}

	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing font %s: %w", path, err)
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size: defaultFontSize,
		DPI:  72,
	})
	if err != nil {
		return nil, fmt.Errorf("creating face for %s: %w", path, err)
	}
	defer face.Close()

	advances := make(map[rune]float64, 95)
	var total float64
	var count int
	for r := rune(32); r <= 126; r++ {
		adv, ok := face.GlyphAdvance(r)
		if !ok {
			continue
		}
		px := float64(adv) / 64.0 // fixed.Int26_6 → float64
		advances[r] = px
		total += px
		count++
	}

	m := &Metrics{
		name:     "custom",
		size:     defaultFontSize,
		advances: advances,
		fallback: defaultFontSize * 0.62,
	}
	if count > 0 {
		m.fallback = total / float64(count)
	}

	buf := &sfnt.Buffer{}
	if n, err := f.Name(buf, sfnt.NameIDFamily); err == nil && n != "" {
		m.name = n
	}

	return m, nil
}

// TextWidth returns the pixel width of s.
func (m *Metrics) TextWidth(s string) float64 {
	var w float64
	for _, r := range s {
		if adv, ok := m.advances[r]; ok {
			w += adv
		} else {
			w += m.fallback
		}
	}
	return w
}

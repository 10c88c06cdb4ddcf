package badge

import (
	"fmt"
	"math"
	"os"
	"strings"
)

// Badge is the content of a two-part status badge.
type Badge struct {
	Label string // left side text
	Value string // right side text
	Color string // hex color for right side (e.g. "#4c1")
}

// StatusColor maps a run outcome to a badge hex color.
func StatusColor(status string) string {
	switch status {
	case "all-success", "success", "published":
		return "#4c1"
	case "partial-failure":
		return "#dfb317"
	default:
		return "#e05d44"
	}
}

// Render produces a shields.io-compatible flat SVG badge string.
func Render(m *Metrics, b Badge) string {
	labelWidth := int(math.Round(m.TextWidth(b.Label))) + 10
	valueWidth := int(math.Round(m.TextWidth(b.Value))) + 10
	totalWidth := labelWidth + valueWidth

	label := xmlEscape(b.Label)
	value := xmlEscape(b.Value)

	var s strings.Builder
	s.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="20">`, totalWidth))

	s.WriteString(`<linearGradient id="b" x2="0" y2="100%">`)
	s.WriteString(`<stop offset="0" stop-color="#bbb" stop-opacity=".1"/>`)
	s.WriteString(`<stop offset="1" stop-opacity=".1"/>`)
	s.WriteString(`</linearGradient>`)

	s.WriteString(fmt.Sprintf(`<mask id="a"><rect width="%d" height="20" rx="3" fill="#fff"/></mask>`, totalWidth))
	s.WriteString(`<g mask="url(#a)">`)
	s.WriteString(fmt.Sprintf(`<rect width="%d" height="20" fill="#555"/>`, labelWidth))
	s.WriteString(fmt.Sprintf(`<rect x="%d" width="%d" height="20" fill="%s"/>`, labelWidth, valueWidth, xmlEscape(b.Color)))
	s.WriteString(fmt.Sprintf(`<rect width="%d" height="20" fill="url(#b)"/>`, totalWidth))
	s.WriteString(`</g>`)

	fontFamily := fmt.Sprintf("'%s',Verdana,Geneva,sans-serif", m.name)
	s.WriteString(fmt.Sprintf(`<g fill="#fff" text-anchor="middle" font-family="%s" font-size="%g">`,
		xmlEscape(fontFamily), m.size))
	s.WriteString(fmt.Sprintf(`<text x="%d" y="15" fill="#010101" fill-opacity=".3">%s</text>`, labelWidth/2, label))
	s.WriteString(fmt.Sprintf(`<text x="%d" y="14">%s</text>`, labelWidth/2, label))
	s.WriteString(fmt.Sprintf(`<text x="%d" y="15" fill="#010101" fill-opacity=".3">%s</text>`, labelWidth+valueWidth/2, value))
	s.WriteString(fmt.Sprintf(`<text x="%d" y="14">%s</text>`, labelWidth+valueWidth/2, value))
	s.WriteString(`</g>`)

	s.WriteString(`</svg>`)
	return s.String()
}

// WriteStatusBadge renders a "release <version> / <status>" badge to path.
// fontPath is optional; empty uses approximate metrics.
func WriteStatusBadge(path, version, status, fontPath string) error {
	metrics := ApproxMetrics()
	if fontPath != "" {
		m, err := LoadFontFile(fontPath)
		if err != nil {
			return err
		}
		metrics = m
	}

	svg := Render(metrics, Badge{
		Label: "release " + version,
		Value: status,
		Color: StatusColor(status),
	})
	return os.WriteFile(path, []byte(svg), 0o644)
}

// xmlEscape escapes special XML characters in badge text.
func xmlEscape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	return s
}

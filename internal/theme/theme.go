// Package theme holds the named colour schemes the shell can switch
// between at runtime.
package theme

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Theme names a colour scheme.
type Theme string

const (
	Standard   Theme = "Standard"
	Night      Theme = "Night"
	Forest     Theme = "Forest"
	Attention  Theme = "Attention"
	Industrial Theme = "Industrial"
	Traffic    Theme = "Traffic"
	Binary     Theme = "Binary"
	Royal      Theme = "Royal"
	Reef       Theme = "Reef"
)

var all = []Theme{Standard, Night, Forest, Attention, Industrial, Traffic, Binary, Royal, Reef}

// All returns every theme in carousel order.
func All() []Theme {
	out := make([]Theme, len(all))
	copy(out, all)
	return out
}

// Info is the colour table of a theme.
type Info struct {
	Top               colorful.Color
	TextPrimary       colorful.Color
	TextTop           colorful.Color
	Highlight         colorful.Color
	TextHighlight     colorful.Color
	Background        colorful.Color
	AltBackground     colorful.Color
	AltText           colorful.Color
	BorderLeftTop     colorful.Color
	BorderRightBottom colorful.Color
}

type table struct {
	top, textPrimary, textTop, highlight, textHighlight string
	background, altBackground, altText                 string
	borderLeftTop, borderRightBottom                   string
}

var tables = map[Theme]table{
	Standard:   {"#000080", "#000000", "#ffffff", "#0000ff", "#ffffff", "#c0c0c0", "#000000", "#ffffff", "#ffffff", "#000000"},
	Night:      {"#000000", "#ffffff", "#ffffff", "#0000ff", "#ffffff", "#222222", "#000000", "#ffffff", "#ffffff", "#000000"},
	Forest:     {"#008000", "#000000", "#ffffff", "#32cd32", "#ffffff", "#c0c0c0", "#000000", "#ffffff", "#ffffff", "#000000"},
	Attention:  {"#ff0000", "#000000", "#ffffff", "#ff0000", "#ffffff", "#c0c0c0", "#000000", "#ffffff", "#ffffff", "#000000"},
	Industrial: {"#282828", "#000000", "#ffffff", "#808080", "#ffffff", "#a0a0a0", "#000000", "#ffffff", "#ffffff", "#000000"},
	Traffic:    {"#ff8c00", "#000000", "#2a3439", "#ffff00", "#554348", "#ffffd8", "#000000", "#ffffff", "#b2b3b5", "#000000"},
	Binary:     {"#ffffff", "#ffffff", "#000000", "#ffffff", "#000000", "#000000", "#000000", "#ffffff", "#ffffff", "#ffffff"},
	Royal:      {"#800080", "#000000", "#ffffff", "#800080", "#ffffff", "#c0c0c0", "#000000", "#ffffff", "#ffffff", "#000000"},
	Reef:       {"#7fffd4", "#000000", "#000000", "#808000", "#000000", "#c0c0c0", "#000000", "#ffffff", "#ffffff", "#000000"},
}

var infos = func() map[Theme]Info {
	m := make(map[Theme]Info, len(tables))
	for name, t := range tables {
		m[name] = Info{
			Top:               mustHex(t.top),
			TextPrimary:       mustHex(t.textPrimary),
			TextTop:           mustHex(t.textTop),
			Highlight:         mustHex(t.highlight),
			TextHighlight:     mustHex(t.textHighlight),
			Background:        mustHex(t.background),
			AltBackground:     mustHex(t.altBackground),
			AltText:           mustHex(t.altText),
			BorderLeftTop:     mustHex(t.borderLeftTop),
			BorderRightBottom: mustHex(t.borderRightBottom),
		}
	}
	return m
}()

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(fmt.Sprintf("theme: bad colour %q: %v", s, err))
	}
	return c
}

// Info returns the colour table for t. Unknown themes fall back to Standard.
func (t Theme) Info() Info {
	if info, ok := infos[t]; ok {
		return info
	}
	return infos[Standard]
}

// Valid reports whether t names a known theme.
func (t Theme) Valid() bool {
	_, ok := infos[t]
	return ok
}

func (t Theme) index() int {
	for i, v := range all {
		if v == t {
			return i
		}
	}
	return 0
}

// Next returns the theme after t, wrapping around.
func (t Theme) Next() Theme { return all[(t.index()+1)%len(all)] }

// Prev returns the theme before t, wrapping around.
func (t Theme) Prev() Theme { return all[(t.index()-1+len(all))%len(all)] }

// Parse resolves a theme name case-insensitively.
func Parse(name string) (Theme, error) {
	for _, t := range all {
		if strings.EqualFold(string(t), strings.TrimSpace(name)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown theme %q", name)
}

// ParseHexColor validates a "#rrggbb" colour and converts it.
func ParseHexColor(s string) (color.Color, error) {
	if !strings.HasPrefix(s, "#") || len(s) != 7 {
		return nil, fmt.Errorf("invalid hex colour %q", s)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex colour %q: %w", s, err)
	}
	return c, nil
}

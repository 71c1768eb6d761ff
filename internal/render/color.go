package render

import (
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

const defaultHex = "#888888"

// namedColors maps the color names used by table bars to hex values.
var namedColors = map[string]string{
	"blue":   "#3d7fd0",
	"green":  "#4caf50",
	"orange": "#f0ad4e",
	"red":    "#d9534f",
	"yellow": "#e6c229",
	"gray":   "#999999",
	"grey":   "#999999",
	"black":  "#000000",
	"white":  "#ffffff",
}

// parseColor resolves a color name or #rgb/#rrggbb value, falling back to gray.
func parseColor(color string) colorful.Color {
	color = strings.ToLower(strings.TrimSpace(color))
	if hex, ok := namedColors[color]; ok {
		color = hex
	}
	c, err := colorful.Hex(color)
	if err != nil {
		c, _ = colorful.Hex(defaultHex)
	}
	return c
}

// hexColor normalizes a color to #rrggbb.
func hexColor(color string) string {
	return parseColor(color).Hex()
}

// rgb splits a color into 0-255 components.
func rgb(color string) (int, int, int) {
	r, g, b := parseColor(color).RGB255()
	return int(r), int(g), int(b)
}

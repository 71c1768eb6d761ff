package stats

// FallbackColor is used for keys a keyed palette does not know.
const FallbackColor = "#bbbbbb"

// FallbackTextColor is the named bar color for unknown keys in tables.
const FallbackTextColor = "gray"

// Palette assigns a display color to a category key at a series position.
type Palette interface {
	Color(key string, index int) string
}

// KeyedPalette maps known keys to fixed colors with one shared fallback.
type KeyedPalette struct {
	colors   map[string]string
	fallback string
}

// NewKeyedPalette copies colors so later changes to the map do not leak in.
func NewKeyedPalette(colors map[string]string, fallback string) KeyedPalette {
	copied := make(map[string]string, len(colors))
	for k, v := range colors {
		copied[k] = v
	}
	return KeyedPalette{colors: copied, fallback: fallback}
}

// Color implements Palette. The index is ignored.
func (p KeyedPalette) Color(key string, _ int) string {
	if c, ok := p.colors[key]; ok {
		return c
	}
	return p.fallback
}

// CyclicPalette assigns colors by index modulo palette length.
type CyclicPalette struct {
	colors []string
}

// NewCyclicPalette copies the ordered color list.
func NewCyclicPalette(colors []string) CyclicPalette {
	copied := make([]string, len(colors))
	copy(copied, colors)
	return CyclicPalette{colors: copied}
}

// Len returns the palette length.
func (p CyclicPalette) Len() int {
	return len(p.colors)
}

// Color implements Palette. The key is ignored.
func (p CyclicPalette) Color(_ string, index int) string {
	n := len(p.colors)
	if n == 0 {
		return FallbackColor
	}
	i := index % n
	if i < 0 {
		i += n
	}
	return p.colors[i]
}

// DefaultActivityColors maps module types to chart colors.
func DefaultActivityColors() map[string]string {
	return map[string]string{
		"quiz":     "#A9CF54",
		"resource": "#66b5ab",
		"page":     "#EA030E",
		"url":      "#F26522",
		"forum":    "#ffda6e",
		"wiki":     "#ffda6e",
	}
}

// DefaultActivityTextColors maps module types to named table bar colors.
func DefaultActivityTextColors() map[string]string {
	return map[string]string{
		"quiz":     "green",
		"resource": "blue",
		"page":     "red",
		"url":      "orange",
		"forum":    "yellow",
		"wiki":     "yellow",
	}
}

// DefaultBarColors is the ordered palette for stacked share charts.
func DefaultBarColors() []string {
	return []string{"#66b5ab", "#F26522", "#ffda6e", "#A9CF54", "#EA030E"}
}

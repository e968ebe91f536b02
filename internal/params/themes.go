package params

import "fmt"

// Theme is the subset of fields a named preset replaces.
type Theme struct {
	AnimationSpeed    float64
	FourDInfluence    float64
	MorphingIntensity float64
	BackgroundColor   Color
	LineColor         Color
	LineTransparency  float64
}

var themeOrder = []string{
	"Gentle Waves",
	"Ocean Currents",
	"Storm Energy",
	"Minimal Zen",
	"Cosmic Dance",
}

var themes = map[string]Theme{
	"Gentle Waves": {
		AnimationSpeed: 0.5, FourDInfluence: 0.7, MorphingIntensity: 0.6,
		BackgroundColor: MustParseColor("#F5F3F0"), LineColor: MustParseColor("#4A5568"), LineTransparency: 0.4,
	},
	"Ocean Currents": {
		AnimationSpeed: 1.0, FourDInfluence: 1.0, MorphingIntensity: 1.0,
		BackgroundColor: MustParseColor("#F0EEE6"), LineColor: MustParseColor("#2D3748"), LineTransparency: 0.6,
	},
	"Storm Energy": {
		AnimationSpeed: 2.0, FourDInfluence: 1.5, MorphingIntensity: 1.4,
		BackgroundColor: MustParseColor("#E2E8F0"), LineColor: MustParseColor("#1A202C"), LineTransparency: 0.8,
	},
	"Minimal Zen": {
		AnimationSpeed: 0.3, FourDInfluence: 0.5, MorphingIntensity: 0.4,
		BackgroundColor: MustParseColor("#FFFEF7"), LineColor: MustParseColor("#718096"), LineTransparency: 0.3,
	},
	"Cosmic Dance": {
		AnimationSpeed: 1.5, FourDInfluence: 1.8, MorphingIntensity: 1.6,
		BackgroundColor: MustParseColor("#FAF5FF"), LineColor: MustParseColor("#553C9A"), LineTransparency: 0.7,
	},
}

// GetTheme returns a preset by name.
func GetTheme(name string) (Theme, bool) {
	t, ok := themes[name]
	return t, ok
}

// ThemeNames lists the presets in display order.
func ThemeNames() []string {
	names := make([]string, len(themeOrder))
	copy(names, themeOrder)
	return names
}

// NextTheme returns the preset after name, wrapping around. Unknown names
// start from the first preset.
func NextTheme(name string) string {
	for i, n := range themeOrder {
		if n == name {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// ApplyTheme returns a copy of p with the preset's fields replaced.
func (p Parameters) ApplyTheme(name string) (Parameters, error) {
	t, ok := themes[name]
	if !ok {
		return p, fmt.Errorf("%w: %q", ErrUnknownTheme, name)
	}
	return p.withTheme(name, t), nil
}

func (p Parameters) withTheme(name string, t Theme) Parameters {
	p.Theme = name
	p.AnimationSpeed = t.AnimationSpeed
	p.FourDInfluence = t.FourDInfluence
	p.MorphingIntensity = t.MorphingIntensity
	p.BackgroundColor = t.BackgroundColor
	p.LineColor = t.LineColor
	p.LineTransparency = t.LineTransparency
	return p
}

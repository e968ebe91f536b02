package params

import "math/rand"

var backgroundPalette = []Color{
	MustParseColor("#F0EEE6"), MustParseColor("#F5F3F0"), MustParseColor("#E2E8F0"),
	MustParseColor("#FFFEF7"), MustParseColor("#FAF5FF"), MustParseColor("#FEF7F0"),
	MustParseColor("#F0FDF4"), MustParseColor("#FFFBEB"), MustParseColor("#F3F4F6"),
	MustParseColor("#FDF2F8"), MustParseColor("#ECFDF5"), MustParseColor("#FEF3C7"),
	MustParseColor("#DBEAFE"), MustParseColor("#E0E7FF"), MustParseColor("#FCE7F3"),
}

var linePalette = []Color{
	MustParseColor("#282828"), MustParseColor("#4A5568"), MustParseColor("#2D3748"),
	MustParseColor("#1A202C"), MustParseColor("#553C9A"), MustParseColor("#B91C1C"),
	MustParseColor("#059669"), MustParseColor("#D97706"), MustParseColor("#7C3AED"),
	MustParseColor("#DC2626"), MustParseColor("#0369A1"), MustParseColor("#7C2D12"),
	MustParseColor("#166534"), MustParseColor("#92400E"), MustParseColor("#5B21B6"),
}

// BackgroundPalette returns the colors Randomize picks backgrounds from.
func BackgroundPalette() []Color { return append([]Color(nil), backgroundPalette...) }

// LinePalette returns the colors Randomize picks line colors from.
func LinePalette() []Color { return append([]Color(nil), linePalette...) }

// Randomize returns a copy of p with a random theme label and every
// randomizable field drawn from its range. The time increment is kept.
func (p Parameters) Randomize(rng *rand.Rand) Parameters {
	p.Theme = themeOrder[rng.Intn(len(themeOrder))]
	for i := range fields {
		f := &fields[i]
		if !f.randomized() {
			continue
		}
		var v float64
		if f.Integer {
			v = f.RandMin + float64(rng.Intn(int(f.RandMax-f.RandMin)+1))
		} else {
			v = rng.Float64()*(f.RandMax-f.RandMin) + f.RandMin
		}
		f.set(&p, v)
	}
	p.BackgroundColor = backgroundPalette[rng.Intn(len(backgroundPalette))]
	p.LineColor = linePalette[rng.Intn(len(linePalette))]
	return p
}

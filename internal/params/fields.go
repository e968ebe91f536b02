package params

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Field describes one numeric parameter: its control range, the range
// Randomize draws from, and whether it only takes integer values.
type Field struct {
	Key      string
	Label    string
	Min, Max float64
	Integer  bool

	// RandMin and RandMax are zero when Randomize leaves the field alone.
	RandMin, RandMax float64

	get func(*Parameters) float64
	set func(*Parameters, float64)
}

func (f *Field) randomized() bool { return f.RandMax > f.RandMin }

func (f *Field) check(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &InvalidParameterError{Key: f.Key, Value: formatValue(v), Reason: "not a finite number"}
	}
	if f.Integer && v != math.Trunc(v) {
		return &InvalidParameterError{Key: f.Key, Value: formatValue(v), Reason: "must be an integer"}
	}
	if v < f.Min || v > f.Max {
		return &InvalidParameterError{
			Key:    f.Key,
			Value:  formatValue(v),
			Reason: fmt.Sprintf("must be within [%g, %g]", f.Min, f.Max),
		}
	}
	return nil
}

var fields = []Field{
	{
		Key: "animationSpeed", Label: "Speed", Min: 0.1, Max: 3.0, RandMin: 0.1, RandMax: 3.0,
		get: func(p *Parameters) float64 { return p.AnimationSpeed },
		set: func(p *Parameters, v float64) { p.AnimationSpeed = v },
	},
	{
		Key: "shapeCount", Label: "Shapes", Min: 1, Max: 5, Integer: true, RandMin: 1, RandMax: 5,
		get: func(p *Parameters) float64 { return float64(p.ShapeCount) },
		set: func(p *Parameters, v float64) { p.ShapeCount = int(v) },
	},
	{
		Key: "detailLevel", Label: "Detail", Min: 0.1, Max: 1.0, RandMin: 0.1, RandMax: 1.0,
		get: func(p *Parameters) float64 { return p.DetailLevel },
		set: func(p *Parameters, v float64) { p.DetailLevel = v },
	},
	{
		Key: "size", Label: "Size", Min: 0.5, Max: 2.5, RandMin: 0.5, RandMax: 2.5,
		get: func(p *Parameters) float64 { return p.Size },
		set: func(p *Parameters, v float64) { p.Size = v },
	},
	{
		Key: "spread", Label: "Spread", Min: 0.3, Max: 1.8, RandMin: 0.3, RandMax: 1.8,
		get: func(p *Parameters) float64 { return p.Spread },
		set: func(p *Parameters, v float64) { p.Spread = v },
	},
	{
		Key: "lineTransparency", Label: "Opacity", Min: 0.1, Max: 1.0, RandMin: 0.2, RandMax: 0.9,
		get: func(p *Parameters) float64 { return p.LineTransparency },
		set: func(p *Parameters, v float64) { p.LineTransparency = v },
	},
	{
		Key: "lineThickness", Label: "Thickness", Min: 0.5, Max: 3.0, RandMin: 0.5, RandMax: 3.0,
		get: func(p *Parameters) float64 { return p.LineThickness },
		set: func(p *Parameters, v float64) { p.LineThickness = v },
	},
	{
		Key: "fourDInfluence", Label: "4D", Min: 0, Max: 2.0, RandMin: 0, RandMax: 2.0,
		get: func(p *Parameters) float64 { return p.FourDInfluence },
		set: func(p *Parameters, v float64) { p.FourDInfluence = v },
	},
	{
		Key: "morphingIntensity", Label: "Morphing", Min: 0.1, Max: 2.0, RandMin: 0.1, RandMax: 2.0,
		get: func(p *Parameters) float64 { return p.MorphingIntensity },
		set: func(p *Parameters, v float64) { p.MorphingIntensity = v },
	},
	{
		Key: "timeIncrement", Label: "Time step", Min: 0.0001, Max: 0.1,
		get: func(p *Parameters) float64 { return p.TimeIncrement },
		set: func(p *Parameters, v float64) { p.TimeIncrement = v },
	},
}

const (
	keyTheme           = "theme"
	keyBackgroundColor = "backgroundColor"
	keyLineColor       = "lineColor"
)

// Fields returns the numeric field table in display order.
func Fields() []Field {
	out := make([]Field, len(fields))
	copy(out, fields)
	return out
}

// Keys lists every key accepted by Set.
func Keys() []string {
	keys := []string{keyTheme}
	for _, f := range fields {
		keys = append(keys, f.Key)
	}
	return append(keys, keyBackgroundColor, keyLineColor)
}

func lookupField(key string) (*Field, bool) {
	for i := range fields {
		if fields[i].Key == key {
			return &fields[i], true
		}
	}
	return nil, false
}

// Value returns a numeric field by key.
func (p Parameters) Value(key string) (float64, error) {
	f, ok := lookupField(key)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownParameter, key)
	}
	return f.get(&p), nil
}

// Set returns a copy of p with one field replaced. Out-of-range values are
// rejected and p is returned unchanged.
func (p Parameters) Set(key, value string) (Parameters, error) {
	switch key {
	case keyTheme:
		return p.ApplyTheme(value)
	case keyBackgroundColor, keyLineColor:
		c, err := ParseColor(value)
		if err != nil {
			return p, &InvalidParameterError{Key: key, Value: value, Reason: err.Error()}
		}
		if key == keyBackgroundColor {
			p.BackgroundColor = c
		} else {
			p.LineColor = c
		}
		return p, nil
	}

	f, ok := lookupField(key)
	if !ok {
		return p, fmt.Errorf("%w: %q", ErrUnknownParameter, key)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return p, &InvalidParameterError{Key: key, Value: value, Reason: "not a number"}
	}
	if err := f.check(v); err != nil {
		return p, err
	}
	f.set(&p, v)
	return p, nil
}

// Nudge moves a numeric field by steps hundredths of its control range
// (whole units for integer fields), clamped to the range.
func (p Parameters) Nudge(key string, steps int) (Parameters, error) {
	f, ok := lookupField(key)
	if !ok {
		return p, fmt.Errorf("%w: %q", ErrUnknownParameter, key)
	}
	delta := float64(steps) * (f.Max - f.Min) / 100
	if f.Integer {
		delta = float64(steps)
	}
	v := math.Max(f.Min, math.Min(f.Max, f.get(&p)+delta))
	f.set(&p, v)
	return p, nil
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

package domain

import (
	"fmt"
	"math"
)

// Reading is an unclassified measurement as delivered by a provider.
type Reading struct {
	Kind  string  `json:"kind" validate:"required"`
	Value float64 `json:"value"`
}

// Classify clamps raw into the physical range of kind and maps it to a
// status, label and recommendation for the activity.
func Classify(kind VariableKind, raw float64, activity Activity) (OceanVariable, error) {
	info, ok := kinds[kind]
	if !ok {
		return OceanVariable{}, fmt.Errorf("classify: %w: %q", ErrUnknownVariableKind, kind)
	}
	t, ok := thresholds[tableKey{activity, kind}]
	if !ok {
		return OceanVariable{}, fmt.Errorf("classify %s: %w: %q", kind, ErrUnknownActivity, activity)
	}
	if math.IsNaN(raw) {
		return OceanVariable{}, fmt.Errorf("classify %s: %w: NaN", kind, ErrInvalidReading)
	}

	value := clamp(raw, info.min, info.max)
	status := t.StatusFor(value)

	return OceanVariable{
		ID:             kind,
		Name:           info.name,
		Value:          value,
		Unit:           info.unit,
		Status:         status,
		StatusText:     statusText(kind, status),
		Recommendation: recommendation(activity, kind, status),
	}, nil
}

// ClassifyAll classifies readings in order. The first failure aborts.
func ClassifyAll(activity Activity, readings []Reading) ([]OceanVariable, error) {
	vars := make([]OceanVariable, 0, len(readings))
	for i, r := range readings {
		kind, err := ParseVariableKind(r.Kind)
		if err != nil {
			return nil, fmt.Errorf("reading %d: %w", i, err)
		}
		v, err := Classify(kind, r.Value, activity)
		if err != nil {
			return nil, fmt.Errorf("reading %d: %w", i, err)
		}
		vars = append(vars, v)
	}
	return vars, nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

package domain

import (
	"fmt"
	"strings"
)

// VariableKind identifies a measured ocean or weather quantity.
type VariableKind string

const (
	KindWaveHeight VariableKind = "wave-height"
	KindWaterTemp  VariableKind = "water-temp"
	KindWind       VariableKind = "wind"
	KindUV         VariableKind = "uv"
	KindCurrent    VariableKind = "current"
	KindVisibility VariableKind = "visibility"
)

type kindInfo struct {
	name     string
	unit     string
	min, max float64
}

var kinds = map[VariableKind]kindInfo{
	KindWaveHeight: {name: "Wave Height", unit: "m", min: 0, max: 30},
	KindWaterTemp:  {name: "Water Temperature", unit: "°C", min: -2, max: 40},
	KindWind:       {name: "Wind Speed", unit: "km/h", min: 0, max: 400},
	KindUV:         {name: "UV Index", unit: "index", min: 0, max: 20},
	KindCurrent:    {name: "Current", unit: "kn", min: 0, max: 15},
	KindVisibility: {name: "Visibility", unit: "m", min: 0, max: 50000},
}

// VariableKinds returns every supported kind in display order.
func VariableKinds() []VariableKind {
	return []VariableKind{
		KindWaveHeight, KindWaterTemp, KindWind,
		KindUV, KindCurrent, KindVisibility,
	}
}

// ParseVariableKind normalizes s and returns the matching kind.
func ParseVariableKind(s string) (VariableKind, error) {
	k := VariableKind(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := kinds[k]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownVariableKind, s)
	}
	return k, nil
}

// Unit returns the display unit of the kind, or "" for an unknown kind.
func (k VariableKind) Unit() string { return kinds[k].unit }

// Status is the safety classification of a single variable.
type Status int

const (
	StatusSafe Status = iota + 1
	StatusModerate
	StatusWarning
)

// Valid reports whether s is one of the three defined statuses.
func (s Status) Valid() bool {
	return s >= StatusSafe && s <= StatusWarning
}

func (s Status) String() string {
	switch s {
	case StatusSafe:
		return "safe"
	case StatusModerate:
		return "moderate"
	case StatusWarning:
		return "warning"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// SubScore returns the scoring contribution of the status. Invalid statuses
// score zero; Aggregate rejects them before they are scored.
func (s Status) SubScore() float64 {
	switch s {
	case StatusSafe:
		return 100
	case StatusModerate:
		return 55
	case StatusWarning:
		return 15
	default:
		return 0
	}
}

// Worse reports whether s is a more severe status than o.
func (s Status) Worse(o Status) bool { return s > o }

func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("marshal status: %w: %d", ErrInvalidReading, int(s))
	}
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	st, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = st
	return nil
}

// ParseStatus returns the status named by s.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "safe":
		return StatusSafe, nil
	case "moderate":
		return StatusModerate, nil
	case "warning":
		return StatusWarning, nil
	default:
		return 0, fmt.Errorf("parse status: %w: %q", ErrInvalidReading, s)
	}
}

// OceanVariable is a classified reading.
type OceanVariable struct {
	ID             VariableKind `json:"id"`
	Name           string       `json:"name"`
	Value          float64      `json:"value"`
	Unit           string       `json:"unit"`
	Status         Status       `json:"status"`
	StatusText     string       `json:"status_text"`
	Recommendation string       `json:"recommendation"`
}

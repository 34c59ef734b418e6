package domain

import (
	"fmt"
	"strings"
)

// Activity is an outdoor water activity the service can assess.
type Activity string

const (
	ActivitySurfing  Activity = "surfing"
	ActivityFishing  Activity = "fishing"
	ActivityDiving   Activity = "diving"
	ActivitySailing  Activity = "sailing"
	ActivityKayaking Activity = "kayaking"
	ActivitySwimming Activity = "swimming"
)

// activityProfile holds the per-activity scoring constants.
type activityProfile struct {
	// weights is the relative importance of each variable kind. All weights
	// are positive.
	weights map[VariableKind]float64
	// stormWindKmh is the weather wind speed above which the storm-wind
	// override fires.
	stormWindKmh float64
	// baseline tips are appended to every safety list for the activity.
	baseline []string
}

const tipTellSomeone = "Always inform someone before going out."

var profiles = map[Activity]activityProfile{
	ActivitySurfing: {
		weights: map[VariableKind]float64{
			KindWaveHeight: 5, KindWind: 1, KindWaterTemp: 1,
			KindCurrent: 1.5, KindUV: 0.5, KindVisibility: 0.5,
		},
		stormWindKmh: 50,
		baseline: []string{
			tipTellSomeone,
			"Check the local surf report and respect swimming zones.",
		},
	},
	ActivityFishing: {
		weights: map[VariableKind]float64{
			KindWaveHeight: 2, KindWind: 2, KindWaterTemp: 0.5,
			KindCurrent: 1.5, KindUV: 1, KindVisibility: 1,
		},
		stormWindKmh: 45,
		baseline: []string{
			tipTellSomeone,
			"Check local size limits and protected areas.",
		},
	},
	ActivityDiving: {
		weights: map[VariableKind]float64{
			KindVisibility: 3, KindCurrent: 3, KindWaveHeight: 2,
			KindWaterTemp: 1.5, KindWind: 1, KindUV: 0.5,
		},
		stormWindKmh: 40,
		baseline: []string{
			"Never dive alone; always dive with a buddy.",
			tipTellSomeone,
		},
	},
	ActivitySailing: {
		weights: map[VariableKind]float64{
			KindWind: 4, KindWaveHeight: 3, KindVisibility: 2,
			KindCurrent: 1.5, KindWaterTemp: 0.5, KindUV: 0.5,
		},
		stormWindKmh: 60,
		baseline: []string{
			"File a float plan and carry a VHF radio.",
			"Always wear a life jacket on deck.",
		},
	},
	ActivityKayaking: {
		weights: map[VariableKind]float64{
			KindWind: 3, KindWaveHeight: 3, KindCurrent: 2.5,
			KindWaterTemp: 1.5, KindVisibility: 1, KindUV: 0.5,
		},
		stormWindKmh: 35,
		baseline: []string{
			"Wear a buoyancy aid and carry a whistle and light.",
			tipTellSomeone,
		},
	},
	ActivitySwimming: {
		weights: map[VariableKind]float64{
			KindCurrent: 3, KindWaveHeight: 2.5, KindWaterTemp: 2,
			KindUV: 1, KindWind: 1, KindVisibility: 0.5,
		},
		stormWindKmh: 40,
		baseline: []string{
			"Swim near a lifeguard station.",
			"Never swim alone.",
		},
	},
}

// Activities returns every supported activity in display order.
func Activities() []Activity {
	return []Activity{
		ActivitySurfing, ActivityFishing, ActivityDiving,
		ActivitySailing, ActivityKayaking, ActivitySwimming,
	}
}

// Valid reports whether a is a supported activity.
func (a Activity) Valid() bool {
	_, ok := profiles[a]
	return ok
}

// ParseActivity normalizes s and returns the matching activity.
func ParseActivity(s string) (Activity, error) {
	a := Activity(strings.ToLower(strings.TrimSpace(s)))
	if !a.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownActivity, s)
	}
	return a, nil
}

// Weight returns the importance of kind for the activity.
func (a Activity) Weight(kind VariableKind) (float64, error) {
	p, ok := profiles[a]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownActivity, a)
	}
	w, ok := p.weights[kind]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownVariableKind, kind)
	}
	return w, nil
}

// StormWindKmh returns the wind speed above which the storm-wind override fires.
func (a Activity) StormWindKmh() float64 {
	return profiles[a].stormWindKmh
}

package domain

import (
	"fmt"
	"math"
	"slices"
)

// Direction records which end of a variable's range is preferred.
type Direction int

const (
	LowerIsBetter Direction = iota + 1
	HigherIsBetter
	MiddleIsBetter
)

func (d Direction) String() string {
	switch d {
	case LowerIsBetter:
		return "lower-is-better"
	case HigherIsBetter:
		return "higher-is-better"
	case MiddleIsBetter:
		return "middle-is-better"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Band is a half-open value range [From, next.From) mapped to a status.
type Band struct {
	From   float64
	Status Status
}

// Threshold partitions the real line into bands. Bands are sorted by From
// and the first band starts at -Inf.
type Threshold struct {
	Direction Direction
	Bands     []Band
}

// StatusFor returns the status of the band containing v. Lower bounds are
// inclusive.
func (t Threshold) StatusFor(v float64) Status {
	status := t.Bands[0].Status
	for _, b := range t.Bands[1:] {
		if v < b.From {
			break
		}
		status = b.Status
	}
	return status
}

var negInf = math.Inf(-1)

// lowerIsBetter: safe below moderateFrom, warning from warningFrom.
func lowerIsBetter(moderateFrom, warningFrom float64) Threshold {
	return Threshold{Direction: LowerIsBetter, Bands: []Band{
		{From: negInf, Status: StatusSafe},
		{From: moderateFrom, Status: StatusModerate},
		{From: warningFrom, Status: StatusWarning},
	}}
}

// higherIsBetter: warning below moderateFrom, safe from safeFrom.
func higherIsBetter(moderateFrom, safeFrom float64) Threshold {
	return Threshold{Direction: HigherIsBetter, Bands: []Band{
		{From: negInf, Status: StatusWarning},
		{From: moderateFrom, Status: StatusModerate},
		{From: safeFrom, Status: StatusSafe},
	}}
}

// middleIsBetter: safe in [safeFrom, safeTo), moderate on either side,
// warning outside [lowFrom, highFrom).
func middleIsBetter(lowFrom, safeFrom, safeTo, highFrom float64) Threshold {
	return Threshold{Direction: MiddleIsBetter, Bands: []Band{
		{From: negInf, Status: StatusWarning},
		{From: lowFrom, Status: StatusModerate},
		{From: safeFrom, Status: StatusSafe},
		{From: safeTo, Status: StatusModerate},
		{From: highFrom, Status: StatusWarning},
	}}
}

// calmThenWarning is middle-is-better without a low warning band: a flat sea
// or a calm day is merely inconvenient.
func calmThenWarning(safeFrom, safeTo, warningFrom float64) Threshold {
	return Threshold{Direction: MiddleIsBetter, Bands: []Band{
		{From: negInf, Status: StatusModerate},
		{From: safeFrom, Status: StatusSafe},
		{From: safeTo, Status: StatusModerate},
		{From: warningFrom, Status: StatusWarning},
	}}
}

type tableKey struct {
	activity Activity
	kind     VariableKind
}

var thresholds = map[tableKey]Threshold{
	// Wave height, metres.
	{ActivitySurfing, KindWaveHeight}:  calmThenWarning(0.3, 1.0, 2.5),
	{ActivityFishing, KindWaveHeight}:  lowerIsBetter(1.0, 2.0),
	{ActivityDiving, KindWaveHeight}:   lowerIsBetter(0.8, 1.5),
	{ActivitySailing, KindWaveHeight}:  lowerIsBetter(1.5, 3.0),
	{ActivityKayaking, KindWaveHeight}: lowerIsBetter(0.5, 1.0),
	{ActivitySwimming, KindWaveHeight}: lowerIsBetter(0.5, 1.0),

	// Water temperature, °C.
	{ActivitySurfing, KindWaterTemp}:  higherIsBetter(12, 18),
	{ActivityFishing, KindWaterTemp}:  higherIsBetter(5, 10),
	{ActivityDiving, KindWaterTemp}:   higherIsBetter(12, 18),
	{ActivitySailing, KindWaterTemp}:  higherIsBetter(8, 12),
	{ActivityKayaking, KindWaterTemp}: higherIsBetter(10, 15),
	{ActivitySwimming, KindWaterTemp}: middleIsBetter(16, 20, 30, 33),

	// Wind speed, km/h.
	{ActivitySurfing, KindWind}:  lowerIsBetter(20, 35),
	{ActivityFishing, KindWind}:  lowerIsBetter(25, 40),
	{ActivityDiving, KindWind}:   lowerIsBetter(20, 35),
	{ActivitySailing, KindWind}:  calmThenWarning(10, 37, 50),
	{ActivityKayaking, KindWind}: lowerIsBetter(15, 28),
	{ActivitySwimming, KindWind}: lowerIsBetter(20, 35),

	// UV index.
	{ActivitySurfing, KindUV}:  lowerIsBetter(6, 8),
	{ActivityFishing, KindUV}:  lowerIsBetter(6, 8),
	{ActivityDiving, KindUV}:   lowerIsBetter(8, 11),
	{ActivitySailing, KindUV}:  lowerIsBetter(6, 8),
	{ActivityKayaking, KindUV}: lowerIsBetter(6, 8),
	{ActivitySwimming, KindUV}: lowerIsBetter(6, 8),

	// Current, knots.
	{ActivitySurfing, KindCurrent}:  lowerIsBetter(1.5, 3),
	{ActivityFishing, KindCurrent}:  lowerIsBetter(2, 3.5),
	{ActivityDiving, KindCurrent}:   lowerIsBetter(0.5, 1.5),
	{ActivitySailing, KindCurrent}:  lowerIsBetter(2, 4),
	{ActivityKayaking, KindCurrent}: lowerIsBetter(1, 2),
	{ActivitySwimming, KindCurrent}: lowerIsBetter(0.5, 1.0),

	// Visibility, metres.
	{ActivitySurfing, KindVisibility}:  higherIsBetter(200, 1000),
	{ActivityFishing, KindVisibility}:  higherIsBetter(500, 2000),
	{ActivityDiving, KindVisibility}:   higherIsBetter(5, 10),
	{ActivitySailing, KindVisibility}:  higherIsBetter(1000, 5000),
	{ActivityKayaking, KindVisibility}: higherIsBetter(500, 2000),
	{ActivitySwimming, KindVisibility}: higherIsBetter(100, 500),
}

// ThresholdFor returns a copy of the bands for the activity and kind.
func ThresholdFor(activity Activity, kind VariableKind) (Threshold, error) {
	if !activity.Valid() {
		return Threshold{}, fmt.Errorf("%w: %q", ErrUnknownActivity, activity)
	}
	t, ok := thresholds[tableKey{activity, kind}]
	if !ok {
		return Threshold{}, fmt.Errorf("%w: %q", ErrUnknownVariableKind, kind)
	}
	t.Bands = slices.Clone(t.Bands)
	return t, nil
}

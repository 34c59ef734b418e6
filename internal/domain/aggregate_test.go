package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustClassify(t *testing.T, activity Activity, readings ...Reading) []OceanVariable {
	t.Helper()
	vars, err := ClassifyAll(activity, readings)
	require.NoError(t, err)
	return vars
}

func statusVar(kind VariableKind, s Status) OceanVariable {
	return OceanVariable{ID: kind, Status: s, Recommendation: string(kind) + " " + s.String()}
}

func TestAggregate_SurfingScenario(t *testing.T) {
	vars := mustClassify(t, ActivitySurfing,
		Reading{Kind: "wave-height", Value: 1.2},
		Reading{Kind: "wind", Value: 10},
		Reading{Kind: "water-temp", Value: 20},
	)

	cond, err := Aggregate(AggregateInput{
		Activity:  ActivitySurfing,
		Location:  "Playa Grande",
		Date:      "2024-07-14",
		Latitude:  9.2,
		Longitude: -85.8,
		Variables: vars,
		Weather:   &WeatherSnapshot{Temp: 28, WindSpeed: 10, Humidity: 70, Description: "clear sky"},
	})
	require.NoError(t, err)

	// (5*55 + 1*100 + 1*100) / 7 = 67.86
	assert.Equal(t, 68, cond.Score)
	assert.Equal(t, CategoryModerate, cond.Overall)
	assert.Empty(t, cond.Overrides)
	assert.Contains(t, cond.Safety, vars[0].Recommendation)
	assert.Equal(t, profiles[ActivitySurfing].baseline, cond.Safety[len(cond.Safety)-2:])
	assert.Contains(t, cond.Details, "Wave Height")
	assert.Contains(t, cond.Details, "Playa Grande")
	assert.Equal(t, 9.2, cond.Latitude)
	assert.Empty(t, cond.ID)
	assert.True(t, cond.EvaluatedAt.IsZero())
}

func TestAggregate_SwimmingStormScenario(t *testing.T) {
	vars := mustClassify(t, ActivitySwimming,
		Reading{Kind: "wave-height", Value: 0.2},
		Reading{Kind: "current", Value: 2.5},
	)

	cond, err := Aggregate(AggregateInput{
		Activity:  ActivitySwimming,
		Date:      "2024-07-14",
		Variables: vars,
		Weather:   &WeatherSnapshot{WindSpeed: 60, Description: "strong winds"},
	})
	require.NoError(t, err)

	assert.Equal(t, StatusWarning, vars[1].Status)
	// (2.5*100 + 3*15) / 5.5 = 53.6
	assert.Equal(t, 54, cond.Score)
	assert.Equal(t, CategoryDanger, cond.Overall)
	assert.NotEqual(t, CategorySafe, cond.Overall)
	assert.Equal(t, []string{OverrideStormWind}, cond.Overrides)
	assert.Equal(t, vars[1].Recommendation, cond.Safety[0])
	assert.Contains(t, cond.Details, "storm-force wind")
	assert.Contains(t, cond.Details, "Current")
}

// Surfing weights wind and water-temp equally, so equal-weight mixes hit
// exact scores.
func TestAggregate_CategoryBoundaries(t *testing.T) {
	tests := []struct {
		name     string
		vars     []OceanVariable
		score    int
		expected Category
	}{
		{
			name: "exactly 70 is Safe",
			vars: []OceanVariable{
				statusVar(KindWind, StatusSafe),
				statusVar(KindWaterTemp, StatusModerate),
				statusVar(KindWaterTemp, StatusModerate),
			},
			score:    70,
			expected: CategorySafe,
		},
		{
			name: "exactly 40 is Moderate",
			vars: []OceanVariable{
				statusVar(KindWind, StatusSafe),
				statusVar(KindWaterTemp, StatusModerate),
				statusVar(KindWind, StatusWarning),
				statusVar(KindWind, StatusWarning),
				statusVar(KindWind, StatusWarning),
			},
			score:    40,
			expected: CategoryModerate,
		},
		{
			name: "exactly 39 is Danger",
			vars: []OceanVariable{
				statusVar(KindWaterTemp, StatusModerate),
				statusVar(KindWaterTemp, StatusModerate),
				statusVar(KindWaterTemp, StatusModerate),
				statusVar(KindWind, StatusWarning),
				statusVar(KindWind, StatusWarning),
			},
			score:    39,
			expected: CategoryDanger,
		},
		{
			name:     "all safe is 100",
			vars:     []OceanVariable{statusVar(KindWind, StatusSafe)},
			score:    100,
			expected: CategorySafe,
		},
		{
			name:     "all warning is 15",
			vars:     []OceanVariable{statusVar(KindWind, StatusWarning), statusVar(KindUV, StatusWarning)},
			score:    15,
			expected: CategoryDanger,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cond, err := Aggregate(AggregateInput{Activity: ActivitySurfing, Variables: tt.vars})
			require.NoError(t, err)
			assert.Equal(t, tt.score, cond.Score)
			assert.Equal(t, tt.expected, cond.Overall)
		})
	}
}

func TestCategoryFor(t *testing.T) {
	tests := []struct {
		score    int
		expected Category
	}{
		{100, CategorySafe},
		{70, CategorySafe},
		{69, CategoryModerate},
		{40, CategoryModerate},
		{39, CategoryDanger},
		{0, CategoryDanger},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, CategoryFor(tt.score), "score %d", tt.score)
	}
}

// Improving any single variable by one tier never lowers the score.
func TestAggregate_Monotonic(t *testing.T) {
	statuses := []Status{StatusSafe, StatusModerate, StatusWarning}
	kindsInOrder := VariableKinds()
	combos := 1
	for range kindsInOrder {
		combos *= len(statuses)
	}

	for _, a := range Activities() {
		for c := 0; c < combos; c++ {
			vars := make([]OceanVariable, len(kindsInOrder))
			n := c
			for i, k := range kindsInOrder {
				vars[i] = statusVar(k, statuses[n%3])
				n /= 3
			}
			base, err := Aggregate(AggregateInput{Activity: a, Variables: vars})
			require.NoError(t, err)
			assert.GreaterOrEqual(t, base.Score, 0)
			assert.LessOrEqual(t, base.Score, 100)

			for i := range vars {
				if vars[i].Status == StatusSafe {
					continue
				}
				better := append([]OceanVariable(nil), vars...)
				better[i] = statusVar(better[i].ID, better[i].Status-1)
				improved, err := Aggregate(AggregateInput{Activity: a, Variables: better})
				require.NoError(t, err)
				assert.GreaterOrEqual(t, improved.Score, base.Score, "%s combo %d variable %s", a, c, vars[i].ID)
			}
		}
	}
}

func TestAggregate_Errors(t *testing.T) {
	t.Run("no variables", func(t *testing.T) {
		_, err := Aggregate(AggregateInput{Activity: ActivityDiving})
		assert.ErrorIs(t, err, ErrInsufficientData)
	})

	t.Run("unknown activity", func(t *testing.T) {
		_, err := Aggregate(AggregateInput{
			Activity:  Activity("skydiving"),
			Variables: []OceanVariable{statusVar(KindWind, StatusSafe)},
		})
		assert.ErrorIs(t, err, ErrUnknownActivity)
	})

	t.Run("unknown variable id", func(t *testing.T) {
		_, err := Aggregate(AggregateInput{
			Activity:  ActivityDiving,
			Variables: []OceanVariable{statusVar("salinity", StatusSafe)},
		})
		assert.ErrorIs(t, err, ErrUnknownVariableKind)
	})

	t.Run("invalid status", func(t *testing.T) {
		_, err := Aggregate(AggregateInput{
			Activity:  ActivityDiving,
			Variables: []OceanVariable{{ID: KindWind}},
		})
		assert.ErrorIs(t, err, ErrInvalidReading)
	})
}

func TestAggregate_LimitingVariable(t *testing.T) {
	t.Run("worst status wins", func(t *testing.T) {
		vars := mustClassify(t, ActivityDiving,
			Reading{Kind: "uv", Value: 9},         // moderate
			Reading{Kind: "visibility", Value: 2}, // warning
		)
		cond, err := Aggregate(AggregateInput{Activity: ActivityDiving, Variables: vars})
		require.NoError(t, err)
		assert.Contains(t, cond.Details, "Limiting factor: Visibility at 2 m (Poor)")
	})

	t.Run("tie broken by weight", func(t *testing.T) {
		vars := mustClassify(t, ActivityDiving,
			Reading{Kind: "uv", Value: 9},       // moderate, weight 0.5
			Reading{Kind: "current", Value: 1}, // moderate, weight 3
		)
		cond, err := Aggregate(AggregateInput{Activity: ActivityDiving, Variables: vars})
		require.NoError(t, err)
		assert.Contains(t, cond.Details, "Limiting factor: Current")
	})

	t.Run("tie broken by input order", func(t *testing.T) {
		vars := []OceanVariable{
			{ID: KindWind, Name: "First", Status: StatusModerate, Unit: "km/h"},
			{ID: KindWind, Name: "Second", Status: StatusModerate, Unit: "km/h"},
		}
		cond, err := Aggregate(AggregateInput{Activity: ActivityDiving, Variables: vars})
		require.NoError(t, err)
		assert.Contains(t, cond.Details, "Limiting factor: First")
	})

	t.Run("all safe", func(t *testing.T) {
		cond, err := Aggregate(AggregateInput{
			Activity:  ActivityDiving,
			Variables: []OceanVariable{statusVar(KindWind, StatusSafe)},
		})
		require.NoError(t, err)
		assert.Contains(t, cond.Details, "All readings are within safe limits.")
		assert.Equal(t, profiles[ActivityDiving].baseline, cond.Safety)
	})
}

func TestAggregate_SafetyDeduplicated(t *testing.T) {
	vars := []OceanVariable{
		{ID: KindWind, Status: StatusWarning, Recommendation: "Stay ashore."},
		{ID: KindWaveHeight, Status: StatusModerate, Recommendation: "Watch the swell."},
		{ID: KindWind, Status: StatusWarning, Recommendation: "Stay ashore."},
		{ID: KindUV, Status: StatusSafe, Recommendation: "Sunscreen."},
	}
	cond, err := Aggregate(AggregateInput{Activity: ActivitySailing, Variables: vars})
	require.NoError(t, err)

	expected := append([]string{"Stay ashore.", "Watch the swell."}, profiles[ActivitySailing].baseline...)
	assert.Equal(t, expected, cond.Safety)
}

func TestAggregate_Tide(t *testing.T) {
	tests := []struct {
		name     string
		tide     TideSnapshot
		expected TideTrend
	}{
		{"rising", TideSnapshot{TideExtreme: TideExtreme{Type: TideLow, Height: 0.4}, Next: &TideExtreme{Type: TideHigh, Height: 1.8}}, TideRising},
		{"falling", TideSnapshot{TideExtreme: TideExtreme{Type: TideHigh, Height: 1.8}, Next: &TideExtreme{Type: TideLow, Height: 0.4}}, TideFalling},
		{"slack", TideSnapshot{TideExtreme: TideExtreme{Type: TideHigh, Height: 1.0}, Next: &TideExtreme{Type: TideLow, Height: 1.0}}, TideSlack},
		{"unknown next", TideSnapshot{TideExtreme: TideExtreme{Type: TideHigh, Height: 1.0}}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.tide
			cond, err := Aggregate(AggregateInput{
				Activity:  ActivityKayaking,
				Variables: []OceanVariable{statusVar(KindWind, StatusSafe)},
				Tide:      &in,
			})
			require.NoError(t, err)
			require.NotNil(t, cond.Tide)
			assert.Equal(t, tt.expected, cond.Tide.Trend)
			assert.Empty(t, in.Trend, "input must not be modified")
			if tt.expected != "" {
				assert.Contains(t, cond.Details, "Tide is "+string(tt.expected)+".")
			}
		})
	}
}

func TestAggregate_DoesNotAliasInput(t *testing.T) {
	vars := []OceanVariable{statusVar(KindWind, StatusSafe)}
	weather := &WeatherSnapshot{WindSpeed: 5}
	cond, err := Aggregate(AggregateInput{Activity: ActivityFishing, Variables: vars, Weather: weather})
	require.NoError(t, err)

	vars[0].Status = StatusWarning
	weather.WindSpeed = 99
	assert.Equal(t, StatusSafe, cond.Variables[0].Status)
	assert.Equal(t, 5.0, cond.Weather.WindSpeed)
}

func TestApplyOverrides(t *testing.T) {
	tests := []struct {
		name     string
		activity Activity
		category Category
		weather  *WeatherSnapshot
		expected Category
		fired    []string
	}{
		{"no weather", ActivitySurfing, CategorySafe, nil, CategorySafe, nil},
		{"calm", ActivitySurfing, CategorySafe, &WeatherSnapshot{WindSpeed: 20, Description: "sunny"}, CategorySafe, nil},
		{"at threshold does not fire", ActivitySurfing, CategorySafe, &WeatherSnapshot{WindSpeed: 50}, CategorySafe, nil},
		{"storm wind", ActivitySurfing, CategorySafe, &WeatherSnapshot{WindSpeed: 51}, CategoryModerate, []string{OverrideStormWind}},
		{"per activity threshold", ActivitySailing, CategorySafe, &WeatherSnapshot{WindSpeed: 55}, CategorySafe, nil},
		{"kayaking lower threshold", ActivityKayaking, CategoryModerate, &WeatherSnapshot{WindSpeed: 36}, CategoryDanger, []string{OverrideStormWind}},
		{"thunder", ActivityFishing, CategorySafe, &WeatherSnapshot{Description: "Scattered Thunderstorms"}, CategoryModerate, []string{OverrideThunderstorm}},
		{"lightning", ActivityFishing, CategorySafe, &WeatherSnapshot{Description: "lightning nearby"}, CategoryModerate, []string{OverrideThunderstorm}},
		{"both rules drop one tier", ActivityDiving, CategorySafe, &WeatherSnapshot{WindSpeed: 80, Description: "thunderstorm"}, CategoryModerate, []string{OverrideStormWind, OverrideThunderstorm}},
		{"danger stays danger", ActivityDiving, CategoryDanger, &WeatherSnapshot{WindSpeed: 80}, CategoryDanger, []string{OverrideStormWind}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, fired := ApplyOverrides(tt.activity, tt.category, tt.weather)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, tt.fired, fired)
		})
	}
}

// The override changes the category only, never the score.
func TestAggregate_OverrideKeepsScore(t *testing.T) {
	vars := []OceanVariable{statusVar(KindWind, StatusSafe)}
	calm, err := Aggregate(AggregateInput{Activity: ActivitySurfing, Variables: vars})
	require.NoError(t, err)
	stormy, err := Aggregate(AggregateInput{
		Activity:  ActivitySurfing,
		Variables: vars,
		Weather:   &WeatherSnapshot{WindSpeed: 90},
	})
	require.NoError(t, err)

	assert.Equal(t, calm.Score, stormy.Score)
	assert.Equal(t, CategorySafe, calm.Overall)
	assert.Equal(t, CategoryModerate, stormy.Overall)
}

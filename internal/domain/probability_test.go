package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func TestEstimate_PercentileRoundTrip(t *testing.T) {
	reference := make([]HistoricalSample, 100)
	for i := range reference {
		reference[i] = HistoricalSample{
			Date:    day(2000, time.January, 1).AddDate(0, 0, i),
			MaxTemp: float64(i + 1),
			MinTemp: float64(i + 1),
		}
	}

	samples := make([]HistoricalSample, 100)
	for i := range samples {
		samples[i] = HistoricalSample{
			Date:    day(2024, time.July, 1),
			MaxTemp: 95,
			MinTemp: 50,
		}
	}

	res, err := Estimate(samples, EstimateOptions{Reference: reference})
	require.NoError(t, err)
	assert.Equal(t, 90.0, res.HotThreshold)
	assert.Equal(t, 10.0, res.ColdThreshold)
	assert.Equal(t, 1.0, res.Hot)
	assert.Equal(t, 0.0, res.Cold)
	assert.Equal(t, 100, res.Samples)
}

func TestEstimate_SelfReference(t *testing.T) {
	samples := make([]HistoricalSample, 10)
	for i := range samples {
		samples[i] = HistoricalSample{
			Date:    day(2023, time.March, 1).AddDate(0, 0, i),
			MaxTemp: float64(20 + i), // 20..29
			MinTemp: float64(10 + i), // 10..19
		}
	}

	res, err := Estimate(samples, EstimateOptions{})
	require.NoError(t, err)
	// Nearest rank: p90 of 10 values is the 9th (28), p10 is the 1st (10).
	assert.Equal(t, 28.0, res.HotThreshold)
	assert.Equal(t, 10.0, res.ColdThreshold)
	assert.InDelta(t, 0.1, res.Hot, 1e-9)
	assert.Equal(t, 0.0, res.Cold)
}

func TestEstimate_DefaultReferenceIsWholeSeries(t *testing.T) {
	var samples, summer []HistoricalSample
	for i := range 10 {
		samples = append(samples, HistoricalSample{Date: day(2023, time.January, 1+i), MaxTemp: 10})
		s := HistoricalSample{Date: day(2023, time.July, 1+i), MaxTemp: float64(30 + i)} // 30..39
		samples = append(samples, s)
		summer = append(summer, s)
	}
	window := DateWindow{Center: day(2023, time.July, 5), Days: 7}

	// Median of the whole year is a winter value, so every summer day is hot.
	res, err := Estimate(samples, EstimateOptions{Window: window, HotPercentile: 50})
	require.NoError(t, err)
	assert.Equal(t, 10.0, res.HotThreshold)
	assert.Equal(t, 1.0, res.Hot)
	assert.Equal(t, 10, res.Samples)

	// Against the season only, the 5th of 10 values (34) is the threshold.
	res, err = Estimate(samples, EstimateOptions{Window: window, HotPercentile: 50, Reference: summer})
	require.NoError(t, err)
	assert.Equal(t, 34.0, res.HotThreshold)
	assert.InDelta(t, 0.5, res.Hot, 1e-9)
}

func TestEstimate_FixedThresholds(t *testing.T) {
	samples := []HistoricalSample{
		{Date: day(2023, time.June, 1), MaxTemp: 35, MinTemp: 20},
		{Date: day(2023, time.June, 2), MaxTemp: 31, MinTemp: -1},
		{Date: day(2023, time.June, 3), MaxTemp: 25, MinTemp: -3},
		{Date: day(2023, time.June, 4), MaxTemp: 29, MinTemp: 5},
	}
	hot, cold := 30.0, 0.0

	res, err := Estimate(samples, EstimateOptions{FixedHot: &hot, FixedCold: &cold})
	require.NoError(t, err)
	assert.Equal(t, 0.5, res.Hot)
	assert.Equal(t, 0.5, res.Cold)
}

func TestEstimate_Window(t *testing.T) {
	samples := []HistoricalSample{
		{Date: day(2021, time.December, 30), MaxTemp: 40, MinTemp: 0},
		{Date: day(2022, time.January, 3), MaxTemp: 40, MinTemp: 0},
		{Date: day(2022, time.January, 20), MaxTemp: 10, MinTemp: 0},
		{Date: day(2022, time.July, 1), MaxTemp: 10, MinTemp: 0},
	}
	hot := 30.0

	res, err := Estimate(samples, EstimateOptions{
		Window:   DateWindow{Center: day(2030, time.January, 1), Days: 3},
		FixedHot: &hot,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Samples, "window wraps the year boundary")
	assert.Equal(t, 1.0, res.Hot)
}

func TestDateWindow_Contains(t *testing.T) {
	w := DateWindow{Center: day(2024, time.June, 15), Days: 7}

	tests := []struct {
		name     string
		date     time.Time
		expected bool
	}{
		{"same day other year", day(1999, time.June, 15), true},
		{"edge of window", day(2010, time.June, 22), true},
		{"just outside", day(2010, time.June, 23), false},
		{"before center", day(2010, time.June, 8), true},
		{"time of day ignored", time.Date(2010, time.June, 22, 23, 59, 0, 0, time.UTC), true},
		{"far away", day(2010, time.December, 1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, w.Contains(tt.date))
		})
	}

	assert.True(t, DateWindow{}.Contains(day(1900, time.February, 2)), "zero window matches everything")
}

func TestDateWindow_LeapDayCenter(t *testing.T) {
	center := day(2024, time.February, 29)

	tests := []struct {
		name     string
		days     int
		date     time.Time
		expected bool
	}{
		{"common year falls on feb 28", 0, day(2023, time.February, 28), true},
		{"common year excludes mar 1", 0, day(2023, time.March, 1), false},
		{"leap year keeps feb 29", 0, day(2024, time.February, 29), true},
		{"leap year excludes feb 28", 0, day(2024, time.February, 28), false},
		{"leap year excludes mar 1", 0, day(2024, time.March, 1), false},
		{"century common year", 0, day(1900, time.February, 28), true},
		{"century leap year", 0, day(2000, time.February, 28), false},
		{"one day reaches mar 1", 1, day(2023, time.March, 1), true},
		{"one day excludes feb 26", 1, day(2023, time.February, 26), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := DateWindow{Center: center, Days: tt.days}
			assert.Equal(t, tt.expected, w.Contains(tt.date))
		})
	}
}

func TestEstimate_Empty(t *testing.T) {
	samples := []HistoricalSample{{Date: day(2022, time.July, 1), MaxTemp: 30, MinTemp: 20}}
	window := DateWindow{Center: day(2022, time.January, 1), Days: 5}

	t.Run("strict fails", func(t *testing.T) {
		_, err := Estimate(samples, EstimateOptions{Window: window})
		assert.ErrorIs(t, err, ErrInsufficientHistory)
	})

	t.Run("strict fails on nil input", func(t *testing.T) {
		_, err := Estimate(nil, EstimateOptions{})
		assert.ErrorIs(t, err, ErrInsufficientHistory)
	})

	t.Run("zero policy returns zeros", func(t *testing.T) {
		res, err := Estimate(samples, EstimateOptions{Window: window, Policy: PolicyZero})
		require.NoError(t, err)
		assert.Equal(t, ProbabilityResult{}, res)
	})
}

func TestEstimate_InvalidPercentile(t *testing.T) {
	samples := []HistoricalSample{{Date: day(2022, time.July, 1), MaxTemp: 30, MinTemp: 20}}

	_, err := Estimate(samples, EstimateOptions{HotPercentile: 120})
	assert.ErrorIs(t, err, ErrInvalidPercentile)
	assert.ErrorContains(t, err, "outside (0, 100]")

	_, err = Estimate(samples, EstimateOptions{ColdPercentile: -5})
	assert.ErrorIs(t, err, ErrInvalidPercentile)
}

func TestParseEmptyPolicy(t *testing.T) {
	p, err := ParseEmptyPolicy("zero")
	require.NoError(t, err)
	assert.Equal(t, PolicyZero, p)

	p, err = ParseEmptyPolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyStrict, p)

	_, err = ParseEmptyPolicy("lenient")
	assert.Error(t, err)
}

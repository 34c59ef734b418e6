package domain

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/montanaflynn/stats"
)

// Default percentiles for the hot and cold day thresholds.
const (
	DefaultHotPercentile  = 90
	DefaultColdPercentile = 10
)

// HistoricalSample is one day of observed air temperature extremes, in °C.
type HistoricalSample struct {
	Date    time.Time `json:"date"`
	MaxTemp float64   `json:"max_temp"`
	MinTemp float64   `json:"min_temp"`
}

// ProbabilityResult holds the fraction of hot and cold days in the window.
// Hot and Cold are independent and need not sum to 1.
type ProbabilityResult struct {
	Hot           float64 `json:"hot"`
	Cold          float64 `json:"cold"`
	Samples       int     `json:"samples"`
	HotThreshold  float64 `json:"hot_threshold"`
	ColdThreshold float64 `json:"cold_threshold"`
}

// DateWindow selects samples within Days calendar days of Center's month and
// day, in any year. A Feb 29 centre falls on Feb 28 in common years. The zero
// window selects everything.
type DateWindow struct {
	Center time.Time
	Days   int
}

// Contains reports whether d falls inside the window.
func (w DateWindow) Contains(d time.Time) bool {
	if w.Center.IsZero() {
		return true
	}
	day := civilDate(d)
	_, month, dom := w.Center.Date()
	for _, year := range []int{day.Year() - 1, day.Year(), day.Year() + 1} {
		d := dom
		if month == time.February && dom == 29 && !isLeap(year) {
			d = 28
		}
		center := time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
		diff := math.Abs(day.Sub(center).Hours() / 24)
		if int(math.Round(diff)) <= max(w.Days, 0) {
			return true
		}
	}
	return false
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func civilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// EmptyPolicy decides what Estimate returns when no sample matches the window.
type EmptyPolicy int

const (
	// PolicyStrict fails with ErrInsufficientHistory.
	PolicyStrict EmptyPolicy = iota
	// PolicyZero returns zero probabilities.
	PolicyZero
)

// ParseEmptyPolicy accepts "strict" or "zero".
func ParseEmptyPolicy(s string) (EmptyPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return PolicyStrict, nil
	case "zero":
		return PolicyZero, nil
	default:
		return 0, fmt.Errorf("unknown empty history policy %q", s)
	}
}

func (p EmptyPolicy) String() string {
	if p == PolicyZero {
		return "zero"
	}
	return "strict"
}

// EstimateOptions tunes Estimate. The zero value uses the whole series as
// both sample and reference with 90th/10th percentile thresholds.
type EstimateOptions struct {
	Window DateWindow
	// Reference is the distribution thresholds are taken from. Empty means
	// the full sample series, not just the window, so with a whole year of
	// samples "hot" is relative to the year and summer windows score high.
	// Pass the windowed samples here for thresholds relative to the season.
	Reference      []HistoricalSample
	HotPercentile  float64
	ColdPercentile float64
	// FixedHot and FixedCold replace the percentile thresholds when set.
	FixedHot  *float64
	FixedCold *float64
	Policy    EmptyPolicy
}

// Estimate computes the fraction of hot and cold days among the samples in
// the window. A day is hot when its maximum exceeds the hot threshold and cold
// when its minimum is below the cold threshold.
func Estimate(samples []HistoricalSample, opts EstimateOptions) (ProbabilityResult, error) {
	hotPct := opts.HotPercentile
	if hotPct == 0 {
		hotPct = DefaultHotPercentile
	}
	coldPct := opts.ColdPercentile
	if coldPct == 0 {
		coldPct = DefaultColdPercentile
	}
	if err := checkPercentile(hotPct); err != nil {
		return ProbabilityResult{}, fmt.Errorf("estimate hot threshold: %w", err)
	}
	if err := checkPercentile(coldPct); err != nil {
		return ProbabilityResult{}, fmt.Errorf("estimate cold threshold: %w", err)
	}

	var inWindow []HistoricalSample
	for _, s := range samples {
		if opts.Window.Contains(s.Date) {
			inWindow = append(inWindow, s)
		}
	}
	if len(inWindow) == 0 {
		if opts.Policy == PolicyZero {
			return ProbabilityResult{}, nil
		}
		return ProbabilityResult{}, fmt.Errorf("estimate: %w", ErrInsufficientHistory)
	}

	reference := opts.Reference
	if len(reference) == 0 {
		reference = samples
	}

	hotThr, err := threshold(opts.FixedHot, reference, hotPct, func(s HistoricalSample) float64 { return s.MaxTemp })
	if err != nil {
		return ProbabilityResult{}, fmt.Errorf("estimate hot threshold: %w", err)
	}
	coldThr, err := threshold(opts.FixedCold, reference, coldPct, func(s HistoricalSample) float64 { return s.MinTemp })
	if err != nil {
		return ProbabilityResult{}, fmt.Errorf("estimate cold threshold: %w", err)
	}

	var hot, cold int
	for _, s := range inWindow {
		if s.MaxTemp > hotThr {
			hot++
		}
		if s.MinTemp < coldThr {
			cold++
		}
	}

	n := float64(len(inWindow))
	return ProbabilityResult{
		Hot:           float64(hot) / n,
		Cold:          float64(cold) / n,
		Samples:       len(inWindow),
		HotThreshold:  hotThr,
		ColdThreshold: coldThr,
	}, nil
}

func checkPercentile(p float64) error {
	if math.IsNaN(p) || p <= 0 || p > 100 {
		return fmt.Errorf("%w: %v outside (0, 100]", ErrInvalidPercentile, p)
	}
	return nil
}

// threshold returns fixed when set, else the nearest-rank percentile of the
// field over the reference series.
func threshold(fixed *float64, reference []HistoricalSample, pct float64, field func(HistoricalSample) float64) (float64, error) {
	if fixed != nil {
		return *fixed, nil
	}
	values := make(stats.Float64Data, len(reference))
	for i, s := range reference {
		values[i] = field(s)
	}
	return stats.PercentileNearestRank(values, pct)
}

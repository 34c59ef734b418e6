package domain

import "context"

// HistoryProvider supplies daily temperature extremes for a location.
type HistoryProvider interface {
	// DailyExtremes returns one sample per day of the given year, sorted by
	// date. Days the provider has no data for are omitted.
	DailyExtremes(ctx context.Context, lat, lon float64, year int) ([]HistoricalSample, error)
}

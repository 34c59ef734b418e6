package evaluation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hideyae/Hackathon-Ocean-Safe/internal/domain"
)

// ErrHistoryUnavailable wraps failures of the historical data provider.
var ErrHistoryUnavailable = errors.New("history unavailable")

// HistoryQuery selects the location, year and calendar window for a
// provider-backed estimate.
type HistoryQuery struct {
	Latitude  float64
	Longitude float64
	Year      int
	Date      time.Time
	Days      int
}

// EstimateFromHistory fetches the year of daily extremes for the query
// location and estimates hot/cold probabilities around the query date.
// defaults supplies percentiles and the empty policy; its window is replaced.
func EstimateFromHistory(ctx context.Context, provider domain.HistoryProvider, q HistoryQuery, defaults domain.EstimateOptions) (domain.ProbabilityResult, error) {
	samples, err := provider.DailyExtremes(ctx, q.Latitude, q.Longitude, q.Year)
	if err != nil {
		return domain.ProbabilityResult{}, fmt.Errorf("fetch history: %w: %w", ErrHistoryUnavailable, err)
	}

	opts := defaults
	opts.Window = domain.DateWindow{Center: q.Date, Days: q.Days}
	res, err := domain.Estimate(samples, opts)
	if err != nil {
		return domain.ProbabilityResult{}, fmt.Errorf("estimate from history: %w", err)
	}
	return res, nil
}

// Package power fetches historical daily air temperature extremes from the
// NASA POWER daily point API.
package power

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/hideyae/Hackathon-Ocean-Safe/internal/domain"
	"github.com/hideyae/Hackathon-Ocean-Safe/internal/observability"
)

const (
	paramMax         = "T2M_MAX"
	paramMin         = "T2M_MIN"
	defaultFillValue = -999.0
	dayLayout        = "20060102"
)

// statusError is a non-200 response from the API.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("power API error: status %d: %s", e.code, e.body)
}

// clientFault reports whether err is a rejected request rather than an
// upstream failure. Client faults do not count against the breaker.
func clientFault(err error) bool {
	var se *statusError
	return errors.As(err, &se) && se.code >= 400 && se.code < 500 && se.code != http.StatusTooManyRequests
}

// Client implements domain.HistoryProvider against NASA POWER. Requests are
// rate limited and pass through a circuit breaker.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker[[]domain.HistoricalSample]
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a POWER client allowing rps requests per second.
func NewClient(baseURL string, timeout time.Duration, rps float64, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		breaker:    newBreaker("nasa-power"),
		metrics:    metrics,
		logger:     logger,
	}
}

func newBreaker(name string) *gobreaker.CircuitBreaker[[]domain.HistoricalSample] {
	return gobreaker.NewCircuitBreaker[[]domain.HistoricalSample](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || clientFault(err)
		},
	})
}

// DailyExtremes returns the daily maximum and minimum 2 m air temperature at
// the point for every day of year with data, sorted by date.
func (c *Client) DailyExtremes(ctx context.Context, lat, lon float64, year int) ([]domain.HistoricalSample, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait canceled: %w", err)
	}

	samples, err := c.breaker.Execute(func() ([]domain.HistoricalSample, error) {
		return c.fetch(ctx, lat, lon, year)
	})
	switch {
	case err != nil:
		c.metrics.HistoryRequests.WithLabelValues("error").Inc()
		c.logger.Warn("power request failed", "error", err, "lat", lat, "lon", lon, "year", year)
		return nil, fmt.Errorf("daily extremes %.2f,%.2f %d: %w", lat, lon, year, err)
	case len(samples) == 0:
		c.metrics.HistoryRequests.WithLabelValues("empty").Inc()
	default:
		c.metrics.HistoryRequests.WithLabelValues("success").Inc()
	}
	return samples, nil
}

func (c *Client) fetch(ctx context.Context, lat, lon float64, year int) ([]domain.HistoricalSample, error) {
	params := url.Values{
		"parameters": {paramMax + "," + paramMin},
		"community":  {"RE"},
		"latitude":   {strconv.FormatFloat(lat, 'f', 4, 64)},
		"longitude":  {strconv.FormatFloat(lon, 'f', 4, 64)},
		"start":      {fmt.Sprintf("%04d0101", year)},
		"end":        {fmt.Sprintf("%04d1231", year)},
		"format":     {"JSON"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.HistoryAPIDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("power request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &statusError{code: resp.StatusCode, body: string(body)}
	}

	var pr response
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return pr.samples()
}

// POWER API response types.

type response struct {
	Header struct {
		FillValue *float64 `json:"fill_value"`
	} `json:"header"`
	Properties struct {
		Parameter map[string]map[string]float64 `json:"parameter"`
	} `json:"properties"`
}

// samples joins the max and min series by day, dropping fill values.
func (r response) samples() ([]domain.HistoricalSample, error) {
	fill := defaultFillValue
	if r.Header.FillValue != nil {
		fill = *r.Header.FillValue
	}
	valid := func(v float64) bool { return !math.IsNaN(v) && v != fill }

	maxSeries := r.Properties.Parameter[paramMax]
	minSeries := r.Properties.Parameter[paramMin]

	out := make([]domain.HistoricalSample, 0, len(maxSeries))
	for day, hi := range maxSeries {
		lo, ok := minSeries[day]
		if !ok || !valid(hi) || !valid(lo) {
			continue
		}
		date, err := time.Parse(dayLayout, day)
		if err != nil {
			return nil, fmt.Errorf("parse day %q: %w", day, err)
		}
		out = append(out, domain.HistoricalSample{Date: date, MaxTemp: hi, MinTemp: lo})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

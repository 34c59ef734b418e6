package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/hideyae/Hackathon-Ocean-Safe/internal/domain"
	"github.com/hideyae/Hackathon-Ocean-Safe/internal/evaluation"
	"github.com/hideyae/Hackathon-Ocean-Safe/internal/export"
)

const (
	maxBodyBytes      = 1 << 20
	defaultWindowDays = 7
	dateLayout        = "2006-01-02"
)

var validate = validator.New()

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	if errors.Is(err, domain.ErrNotFound) {
		return http.StatusNotFound
	}
	switch evaluation.Reason(err) {
	case evaluation.ReasonParse, evaluation.ReasonValidation:
		return http.StatusBadRequest
	case evaluation.ReasonDomain:
		return http.StatusUnprocessableEntity
	case evaluation.ReasonUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err, "method", r.Method, "path", r.URL.Path, "status", status)
	}
	writeError(w, status, err.Error())
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	if s.evaluator == nil {
		writeError(w, http.StatusServiceUnavailable, "evaluation is not enabled")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("read body: %v", err))
		return
	}
	req, err := domain.DecodeConditionRequest(body)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	cond, err := s.evaluator.Evaluate(req)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if s.store != nil {
		if err := s.store.SaveCondition(r.Context(), cond); err != nil {
			s.fail(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, cond)
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (domain.ActivityCondition, bool) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "condition storage is not enabled")
		return domain.ActivityCondition{}, false
	}
	cond, err := s.store.GetCondition(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return domain.ActivityCondition{}, false
	}
	return cond, true
}

// parseConditionFilter reads activity, from, to and limit.
func parseConditionFilter(r *http.Request) (domain.ConditionFilter, error) {
	q := r.URL.Query()
	var f domain.ConditionFilter

	if raw := q.Get("activity"); raw != "" {
		activity, err := domain.ParseActivity(raw)
		if err != nil {
			return f, fmt.Errorf("invalid activity %q", raw)
		}
		f.Activity = activity
	}
	for _, p := range []struct {
		name string
		dst  *time.Time
	}{{"from", &f.From}, {"to", &f.To}} {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		d, err := time.Parse(dateLayout, raw)
		if err != nil {
			return f, fmt.Errorf("invalid %s %q: want YYYY-MM-DD", p.name, raw)
		}
		*p.dst = d
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.From.After(f.To) {
		return f, fmt.Errorf("from %s is after to %s", q.Get("from"), q.Get("to"))
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > domain.MaxListLimit {
			return f, fmt.Errorf("invalid limit %q", raw)
		}
		f.Limit = limit
	}
	return f, nil
}

func (s *Server) handleListConditions(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "condition storage is not enabled")
		return
	}
	f, err := parseConditionFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	conds, err := s.store.ListConditions(r.Context(), f)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if conds == nil {
		conds = []domain.ActivityCondition{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"conditions": conds, "count": len(conds)})
}

func (s *Server) handleGetCondition(w http.ResponseWriter, r *http.Request) {
	cond, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, cond)
}

func (s *Server) handleExportCondition(w http.ResponseWriter, r *http.Request) {
	cond, ok := s.lookup(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "condition-"+cond.ID+".csv"))
	if err := export.WriteCSV(w, cond); err != nil {
		s.logger.Error("csv export failed", "error", err, "id", cond.ID)
	}
}

// sampleDTO is a historical sample with a calendar date.
type sampleDTO struct {
	Date    string  `json:"date" validate:"required,datetime=2006-01-02"`
	MaxTemp float64 `json:"max_temp"`
	MinTemp float64 `json:"min_temp"`
}

// estimateRequest is the body of POST /api/v1/probabilities.
type estimateRequest struct {
	Samples        []sampleDTO `json:"samples" validate:"dive"`
	Reference      []sampleDTO `json:"reference,omitempty" validate:"dive"`
	Date           string      `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Days           int         `json:"days" validate:"gte=0,lte=183"`
	HotPercentile  float64     `json:"hot_percentile,omitempty"`
	ColdPercentile float64     `json:"cold_percentile,omitempty"`
	FixedHot       *float64    `json:"fixed_hot,omitempty"`
	FixedCold      *float64    `json:"fixed_cold,omitempty"`
	Policy         string      `json:"policy,omitempty" validate:"omitempty,oneof=strict zero"`
}

func toSamples(dtos []sampleDTO) []domain.HistoricalSample {
	out := make([]domain.HistoricalSample, len(dtos))
	for i, d := range dtos {
		// Validated against dateLayout.
		date, _ := time.Parse(dateLayout, d.Date)
		out[i] = domain.HistoricalSample{Date: date, MaxTemp: d.MaxTemp, MinTemp: d.MinTemp}
	}
	return out
}

// options merges the request overrides into the server defaults.
func (req estimateRequest) options(defaults domain.EstimateOptions) domain.EstimateOptions {
	opts := defaults
	if req.HotPercentile != 0 {
		opts.HotPercentile = req.HotPercentile
	}
	if req.ColdPercentile != 0 {
		opts.ColdPercentile = req.ColdPercentile
	}
	if req.FixedHot != nil {
		opts.FixedHot = req.FixedHot
	}
	if req.FixedCold != nil {
		opts.FixedCold = req.FixedCold
	}
	if req.Policy != "" {
		// Validated by the oneof tag.
		opts.Policy, _ = domain.ParseEmptyPolicy(req.Policy)
	}
	if req.Date != "" {
		center, _ := time.Parse(dateLayout, req.Date)
		opts.Window = domain.DateWindow{Center: center, Days: req.Days}
	}
	opts.Reference = toSamples(req.Reference)
	return opts
}

func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	var req estimateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("decode estimate request: %v", err))
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid estimate request: %v", err))
		return
	}

	res, err := domain.Estimate(toSamples(req.Samples), req.options(s.estimate))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// parseHistoryQuery reads lat, lon, date, days and year. year defaults to the
// calendar year before date.
func parseHistoryQuery(r *http.Request) (evaluation.HistoryQuery, error) {
	q := r.URL.Query()
	var hq evaluation.HistoryQuery

	lat, err := strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil || lat < -90 || lat > 90 {
		return hq, fmt.Errorf("invalid lat %q", q.Get("lat"))
	}
	lon, err := strconv.ParseFloat(q.Get("lon"), 64)
	if err != nil || lon < -180 || lon > 180 {
		return hq, fmt.Errorf("invalid lon %q", q.Get("lon"))
	}
	date, err := time.Parse(dateLayout, q.Get("date"))
	if err != nil {
		return hq, fmt.Errorf("invalid date %q: want YYYY-MM-DD", q.Get("date"))
	}

	days := defaultWindowDays
	if raw := q.Get("days"); raw != "" {
		days, err = strconv.Atoi(raw)
		if err != nil || days < 0 || days > 183 {
			return hq, fmt.Errorf("invalid days %q", raw)
		}
	}
	year := date.Year() - 1
	if raw := q.Get("year"); raw != "" {
		year, err = strconv.Atoi(raw)
		if err != nil || year < 1981 {
			return hq, fmt.Errorf("invalid year %q", raw)
		}
	}

	return evaluation.HistoryQuery{Latitude: lat, Longitude: lon, Year: year, Date: date, Days: days}, nil
}

func (s *Server) handleHistoricalEstimate(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusServiceUnavailable, "historical data provider is not enabled")
		return
	}
	hq, err := parseHistoryQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := evaluation.EstimateFromHistory(r.Context(), s.history, hq, s.estimate)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

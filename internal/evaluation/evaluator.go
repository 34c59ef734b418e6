// Package evaluation runs the classify-then-aggregate flow for a condition
// request and stamps the result with an id and evaluation time.
package evaluation

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/hideyae/Hackathon-Ocean-Safe/internal/domain"
	"github.com/hideyae/Hackathon-Ocean-Safe/internal/observability"
)

// ErrInvalidRequest wraps request validation failures.
var ErrInvalidRequest = errors.New("invalid condition request")

// Evaluator turns condition requests into activity conditions. It is safe for
// concurrent use.
type Evaluator struct {
	clock    clockwork.Clock
	metrics  *observability.Metrics
	validate *validator.Validate
	newID    func() string
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithClock sets the time source for EvaluatedAt.
func WithClock(c clockwork.Clock) Option {
	return func(e *Evaluator) { e.clock = c }
}

// WithIDGenerator replaces the UUID generator.
func WithIDGenerator(fn func() string) Option {
	return func(e *Evaluator) { e.newID = fn }
}

// NewEvaluator creates an Evaluator. metrics may be nil.
func NewEvaluator(metrics *observability.Metrics, opts ...Option) *Evaluator {
	e := &Evaluator{
		clock:    clockwork.NewRealClock(),
		metrics:  metrics,
		validate: validator.New(),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate validates req, classifies every reading, then aggregates. The
// result gets a freshly generated id.
func (e *Evaluator) Evaluate(req domain.ConditionRequest) (domain.ActivityCondition, error) {
	return e.evaluate(req, "")
}

// EvaluateWithID is Evaluate with a caller-chosen id. Callers that may see the
// same request twice pass a stable id so storage stays idempotent.
func (e *Evaluator) EvaluateWithID(req domain.ConditionRequest, id string) (domain.ActivityCondition, error) {
	if id == "" {
		return domain.ActivityCondition{}, fmt.Errorf("%w: empty condition id", ErrInvalidRequest)
	}
	return e.evaluate(req, id)
}

func (e *Evaluator) evaluate(req domain.ConditionRequest, id string) (domain.ActivityCondition, error) {
	if err := e.validate.Struct(req); err != nil {
		return domain.ActivityCondition{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	activity, err := domain.ParseActivity(req.Activity)
	if err != nil {
		return domain.ActivityCondition{}, fmt.Errorf("evaluate: %w", err)
	}

	vars, err := domain.ClassifyAll(activity, req.Readings)
	if err != nil {
		return domain.ActivityCondition{}, fmt.Errorf("evaluate %s: %w", activity, err)
	}

	cond, err := domain.Aggregate(domain.AggregateInput{
		Activity:  activity,
		Location:  req.Location,
		Date:      req.Date,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Variables: vars,
		Weather:   req.Weather,
		Tide:      req.Tide,
	})
	if err != nil {
		return domain.ActivityCondition{}, fmt.Errorf("evaluate %s: %w", activity, err)
	}

	if id == "" {
		id = e.newID()
	}
	cond.ID = id
	cond.EvaluatedAt = e.clock.Now().UTC()
	e.observe(cond)
	return cond, nil
}

func (e *Evaluator) observe(c domain.ActivityCondition) {
	if e.metrics == nil {
		return
	}
	e.metrics.ConditionScore.Observe(float64(c.Score))
	e.metrics.Conditions.WithLabelValues(string(c.Activity), string(c.Overall)).Inc()
	for _, rule := range c.Overrides {
		e.metrics.Overrides.WithLabelValues(rule).Inc()
	}
}

// Failure reasons reported by Reason.
const (
	ReasonParse      = "parse"
	ReasonValidation = "validation"
	ReasonDomain     = "domain"
	ReasonUpstream   = "upstream"
	ReasonInternal   = "internal"
)

// Reason classifies an evaluation error for metrics and HTTP status mapping.
func Reason(err error) string {
	switch {
	case errors.Is(err, domain.ErrMalformedRequest):
		return ReasonParse
	case errors.Is(err, ErrInvalidRequest):
		return ReasonValidation
	case errors.Is(err, ErrHistoryUnavailable):
		return ReasonUpstream
	case errors.Is(err, domain.ErrUnknownActivity),
		errors.Is(err, domain.ErrUnknownVariableKind),
		errors.Is(err, domain.ErrInvalidReading),
		errors.Is(err, domain.ErrInsufficientData),
		errors.Is(err, domain.ErrInsufficientHistory),
		errors.Is(err, domain.ErrInvalidPercentile):
		return ReasonDomain
	default:
		return ReasonInternal
	}
}

package domain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// ConditionRequest asks for an assessment of one activity at one place and
// date. It arrives as JSON on the source topic or the HTTP API.
type ConditionRequest struct {
	Activity  string           `json:"activity" validate:"required"`
	Location  string           `json:"location"`
	Latitude  float64          `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64          `json:"longitude" validate:"gte=-180,lte=180"`
	Date      string           `json:"date" validate:"required,datetime=2006-01-02"`
	Readings  []Reading        `json:"readings" validate:"dive"`
	Weather   *WeatherSnapshot `json:"weather,omitempty"`
	Tide      *TideSnapshot    `json:"tide,omitempty"`
}

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// OutputEvent is the serialized form destined for the sink topic. Condition
// is kept alongside for loaders that store the structured form.
type OutputEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Condition ActivityCondition
}

// Sink message header names.
const (
	HeaderActivity    = "activity"
	HeaderOverall     = "overall"
	HeaderEvaluatedAt = "evaluated_at"
)

// ParseConditionRequest decodes a RawEvent's value.
func ParseConditionRequest(raw RawEvent) (ConditionRequest, error) {
	return DecodeConditionRequest(raw.Value)
}

// DecodeConditionRequest decodes a JSON condition request. Unknown fields are
// rejected so typos in reading payloads surface as errors.
func DecodeConditionRequest(data []byte) (ConditionRequest, error) {
	var req ConditionRequest
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return ConditionRequest{}, fmt.Errorf("parse condition request: %w: %w", ErrMalformedRequest, err)
	}
	return req, nil
}

// SerializeCondition encodes an assessment for the sink topic.
func SerializeCondition(c ActivityCondition) (OutputEvent, error) {
	value, err := json.Marshal(c)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize condition: %w", err)
	}
	return OutputEvent{
		Key:   []byte(c.ID),
		Value: value,
		Headers: map[string]string{
			HeaderActivity:    string(c.Activity),
			HeaderOverall:     string(c.Overall),
			HeaderEvaluatedAt: c.EvaluatedAt.UTC().Format(time.RFC3339),
		},
		Condition: c,
	}, nil
}

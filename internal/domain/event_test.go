package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConditionRequest(t *testing.T) {
	t.Run("full request", func(t *testing.T) {
		data := []byte(`{
			"activity": "surfing",
			"location": "Ericeira",
			"latitude": 38.96,
			"longitude": -9.42,
			"date": "2024-09-21",
			"readings": [{"kind": "wave-height", "value": 1.4}, {"kind": "wind", "value": 12}],
			"weather": {"temp": 22, "wind_speed": 12, "humidity": 65, "description": "few clouds"},
			"tide": {"type": "low", "height": 0.6, "time": "09:12", "next": {"type": "high", "height": 3.1, "time": "15:27"}}
		}`)

		req, err := ParseConditionRequest(RawEvent{Value: data})
		require.NoError(t, err)
		assert.Equal(t, "surfing", req.Activity)
		assert.Equal(t, "Ericeira", req.Location)
		assert.Equal(t, 38.96, req.Latitude)
		assert.Equal(t, "2024-09-21", req.Date)
		require.Len(t, req.Readings, 2)
		assert.Equal(t, Reading{Kind: "wave-height", Value: 1.4}, req.Readings[0])
		require.NotNil(t, req.Weather)
		assert.Equal(t, 12.0, req.Weather.WindSpeed)
		require.NotNil(t, req.Tide)
		assert.Equal(t, TideLow, req.Tide.Type)
		require.NotNil(t, req.Tide.Next)
		assert.Equal(t, 3.1, req.Tide.Next.Height)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		_, err := ParseConditionRequest(RawEvent{Value: []byte("{invalid json")})
		assert.ErrorIs(t, err, ErrMalformedRequest)
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := ParseConditionRequest(RawEvent{Value: []byte(`{"activity":"surfing","swell":2}`)})
		assert.ErrorIs(t, err, ErrMalformedRequest)
	})

	t.Run("empty body", func(t *testing.T) {
		_, err := DecodeConditionRequest(nil)
		assert.ErrorIs(t, err, ErrMalformedRequest)
	})
}

func TestSerializeCondition(t *testing.T) {
	evaluatedAt := time.Date(2024, 9, 21, 8, 30, 0, 0, time.UTC)
	cond := ActivityCondition{
		ID:          "c0ffee00-0000-4000-8000-000000000001",
		Activity:    ActivityDiving,
		Score:       82,
		Overall:     CategorySafe,
		Variables:   []OceanVariable{{ID: KindVisibility, Name: "Visibility", Value: 14, Unit: "m", Status: StatusSafe}},
		Safety:      []string{"Never dive alone; always dive with a buddy."},
		EvaluatedAt: evaluatedAt,
	}

	out, err := SerializeCondition(cond)
	require.NoError(t, err)

	assert.Equal(t, []byte(cond.ID), out.Key)
	assert.Equal(t, "diving", out.Headers[HeaderActivity])
	assert.Equal(t, "Safe", out.Headers[HeaderOverall])
	assert.Equal(t, "2024-09-21T08:30:00Z", out.Headers[HeaderEvaluatedAt])
	assert.Equal(t, cond.ID, out.Condition.ID)

	var decoded ActivityCondition
	require.NoError(t, json.Unmarshal(out.Value, &decoded))
	assert.Equal(t, cond.Score, decoded.Score)
	assert.Equal(t, StatusSafe, decoded.Variables[0].Status)
	assert.Contains(t, string(out.Value), `"status":"safe"`)
}

package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Category is the overall verdict for an activity.
type Category string

const (
	CategorySafe     Category = "Safe"
	CategoryModerate Category = "Moderate"
	CategoryDanger   Category = "Danger"
)

// CategoryFor maps a score in [0, 100] to its category.
func CategoryFor(score int) Category {
	switch {
	case score >= 70:
		return CategorySafe
	case score >= 40:
		return CategoryModerate
	default:
		return CategoryDanger
	}
}

// downgrade returns the next more severe category. Danger stays Danger.
func (c Category) downgrade() Category {
	switch c {
	case CategorySafe:
		return CategoryModerate
	default:
		return CategoryDanger
	}
}

// AggregateInput is everything Aggregate needs for one assessment.
type AggregateInput struct {
	Activity  Activity
	Location  string
	Date      string
	Latitude  float64
	Longitude float64
	Variables []OceanVariable
	Weather   *WeatherSnapshot
	Tide      *TideSnapshot
}

// ActivityCondition is the assessment of one activity at one place and date.
// ID and EvaluatedAt are zero when produced by Aggregate; the evaluation
// service stamps them.
type ActivityCondition struct {
	ID          string           `json:"id,omitempty"`
	Activity    Activity         `json:"activity"`
	Location    string           `json:"location"`
	Latitude    float64          `json:"latitude"`
	Longitude   float64          `json:"longitude"`
	Date        string           `json:"date"`
	Score       int              `json:"score"`
	Overall     Category         `json:"overall"`
	Details     string           `json:"details"`
	Variables   []OceanVariable  `json:"variables"`
	Weather     *WeatherSnapshot `json:"weather,omitempty"`
	Tide        *TideSnapshot    `json:"tide,omitempty"`
	Safety      []string         `json:"safety"`
	Overrides   []string         `json:"overrides,omitempty"`
	EvaluatedAt time.Time        `json:"evaluated_at"`
}

// Aggregate combines classified variables with the weather and tide snapshots
// into a score, category, narrative and safety list. The input is not retained.
func Aggregate(in AggregateInput) (ActivityCondition, error) {
	if !in.Activity.Valid() {
		return ActivityCondition{}, fmt.Errorf("aggregate: %w: %q", ErrUnknownActivity, in.Activity)
	}
	if len(in.Variables) == 0 {
		return ActivityCondition{}, fmt.Errorf("aggregate %s: %w", in.Activity, ErrInsufficientData)
	}

	weights := make([]float64, len(in.Variables))
	var sum, total float64
	for i, v := range in.Variables {
		w, err := in.Activity.Weight(v.ID)
		if err != nil {
			return ActivityCondition{}, fmt.Errorf("aggregate %s: variable %d: %w", in.Activity, i, err)
		}
		if !v.Status.Valid() {
			return ActivityCondition{}, fmt.Errorf("aggregate %s: variable %q: %w: status %d",
				in.Activity, v.ID, ErrInvalidReading, int(v.Status))
		}
		weights[i] = w
		sum += w * v.Status.SubScore()
		total += w
	}

	score := int(math.Round(sum / total))
	score = max(0, min(100, score))

	overall, fired := ApplyOverrides(in.Activity, CategoryFor(score), in.Weather)

	cond := ActivityCondition{
		Activity:  in.Activity,
		Location:  in.Location,
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
		Date:      in.Date,
		Score:     score,
		Overall:   overall,
		Variables: append([]OceanVariable(nil), in.Variables...),
		Overrides: fired,
	}
	if in.Weather != nil {
		w := *in.Weather
		cond.Weather = &w
	}
	if in.Tide != nil {
		t := *in.Tide
		if t.Next != nil {
			next := *t.Next
			t.Next = &next
		}
		t.Trend = t.trend()
		cond.Tide = &t
	}

	limiting := limitingVariable(in.Variables, weights)
	cond.Details = narrative(cond, limiting)
	cond.Safety = safetyTips(in.Activity, in.Variables)
	return cond, nil
}

// limitingVariable returns the index of the variable that most constrains the
// verdict: worst status, then higher weight, then earliest in input order.
func limitingVariable(vars []OceanVariable, weights []float64) int {
	best := 0
	for i := 1; i < len(vars); i++ {
		switch {
		case vars[i].Status.Worse(vars[best].Status):
			best = i
		case vars[i].Status == vars[best].Status && weights[i] > weights[best]:
			best = i
		}
	}
	return best
}

func narrative(c ActivityCondition, limiting int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s conditions for %s", c.Overall, c.Activity)
	if c.Location != "" {
		fmt.Fprintf(&b, " at %s", c.Location)
	}
	if c.Date != "" {
		fmt.Fprintf(&b, " on %s", c.Date)
	}
	fmt.Fprintf(&b, " (score %d).", c.Score)

	v := c.Variables[limiting]
	if v.Status == StatusSafe {
		b.WriteString(" All readings are within safe limits.")
	} else {
		fmt.Fprintf(&b, " Limiting factor: %s at %s (%s).", v.Name, formatValue(v.Value, v.Unit), v.StatusText)
	}

	if c.Tide != nil && c.Tide.Trend != "" {
		fmt.Fprintf(&b, " Tide is %s.", c.Tide.Trend)
	}

	for _, name := range c.Overrides {
		switch name {
		case OverrideStormWind:
			fmt.Fprintf(&b, " Rated down for storm-force wind (%s).", formatValue(c.Weather.WindSpeed, "km/h"))
		case OverrideThunderstorm:
			b.WriteString(" Rated down for thunderstorm activity.")
		}
	}
	return b.String()
}

func safetyTips(activity Activity, vars []OceanVariable) []string {
	seen := make(map[string]struct{})
	tips := make([]string, 0, len(vars)+2)
	add := func(tip string) {
		if _, ok := seen[tip]; ok {
			return
		}
		seen[tip] = struct{}{}
		tips = append(tips, tip)
	}

	for _, v := range vars {
		if v.Status == StatusSafe {
			continue
		}
		add(v.Recommendation)
	}
	for _, tip := range profiles[activity].baseline {
		add(tip)
	}
	return tips
}

func formatValue(v float64, unit string) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + unit
}

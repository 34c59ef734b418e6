package domain

// WeatherSnapshot is the surface weather at the requested place and time.
type WeatherSnapshot struct {
	Temp        float64 `json:"temp"`
	WindSpeed   float64 `json:"wind_speed" validate:"gte=0"`
	Humidity    float64 `json:"humidity" validate:"gte=0,lte=100"`
	Description string  `json:"description"`
}

// TideType is the kind of tide extreme.
type TideType string

const (
	TideHigh TideType = "high"
	TideLow  TideType = "low"
)

// TideTrend is the direction the water level is moving.
type TideTrend string

const (
	TideRising  TideTrend = "rising"
	TideFalling TideTrend = "falling"
	TideSlack   TideTrend = "slack"
)

// TideExtreme is a single high or low water.
type TideExtreme struct {
	Type   TideType `json:"type" validate:"omitempty,oneof=high low"`
	Height float64  `json:"height"`
	Time   string   `json:"time"`
}

// TideSnapshot is the most recent tide extreme and, when known, the next one.
// Trend is derived by Aggregate and ignored on input.
type TideSnapshot struct {
	TideExtreme
	Next  *TideExtreme `json:"next,omitempty"`
	Trend TideTrend    `json:"trend,omitempty"`
}

// trend compares the current and next tide heights. It is empty when the next
// extreme is unknown.
func (t TideSnapshot) trend() TideTrend {
	if t.Next == nil {
		return ""
	}
	switch {
	case t.Next.Height > t.Height:
		return TideRising
	case t.Next.Height < t.Height:
		return TideFalling
	default:
		return TideSlack
	}
}

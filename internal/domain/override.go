package domain

import "strings"

// Override rule names, as reported in ActivityCondition.Overrides.
const (
	OverrideStormWind    = "storm-wind"
	OverrideThunderstorm = "thunderstorm"
)

type overrideRule struct {
	name    string
	applies func(Activity, WeatherSnapshot) bool
}

// overrideRules run in order after scoring.
var overrideRules = []overrideRule{
	{
		name: OverrideStormWind,
		applies: func(a Activity, w WeatherSnapshot) bool {
			return w.WindSpeed > a.StormWindKmh()
		},
	},
	{
		name: OverrideThunderstorm,
		applies: func(_ Activity, w WeatherSnapshot) bool {
			d := strings.ToLower(w.Description)
			return strings.Contains(d, "thunder") || strings.Contains(d, "lightning")
		},
	},
}

// ApplyOverrides evaluates the override rules against the weather and returns
// the adjusted category with the names of the rules that fired. Any number of
// firing rules lowers the category by exactly one tier. Without weather no
// rule fires.
func ApplyOverrides(activity Activity, c Category, weather *WeatherSnapshot) (Category, []string) {
	if weather == nil {
		return c, nil
	}
	var fired []string
	for _, r := range overrideRules {
		if r.applies(activity, *weather) {
			fired = append(fired, r.name)
		}
	}
	if len(fired) > 0 {
		c = c.downgrade()
	}
	return c, fired
}

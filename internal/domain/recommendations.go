package domain

// statusTexts holds the short label per kind, indexed by Status-1.
var statusTexts = map[VariableKind][3]string{
	KindWaveHeight: {"Favorable waves", "Challenging waves", "Hazardous waves"},
	KindWaterTemp:  {"Comfortable", "Marginal", "Extreme"},
	KindWind:       {"Favorable", "Marginal", "Dangerous"},
	KindUV:         {"Low", "High", "Very high"},
	KindCurrent:    {"Weak", "Noticeable", "Strong"},
	KindVisibility: {"Clear", "Reduced", "Poor"},
}

var defaultRecommendations = map[VariableKind][3]string{
	KindWaveHeight: {
		"Wave conditions are within comfortable limits.",
		"Waves are building; stay within your ability and close to shore.",
		"Dangerous wave heights; stay out of the water.",
	},
	KindWaterTemp: {
		"Water temperature is comfortable.",
		"Cool water; wear a wetsuit and limit time in the water.",
		"Cold-water shock risk; use a drysuit or postpone.",
	},
	KindWind: {
		"Wind conditions are favorable.",
		"Fresh winds; expect chop and drift.",
		"Strong winds; stay ashore.",
	},
	KindUV: {
		"Standard sun protection is enough.",
		"High UV; apply reef-safe sunscreen and wear a hat and rash guard.",
		"Very high UV; avoid midday exposure and reapply sunscreen often.",
	},
	KindCurrent: {
		"Currents are weak.",
		"Noticeable currents; plan your route and avoid channels.",
		"Strong currents can sweep you away; stay out of the water.",
	},
	KindVisibility: {
		"Visibility is good.",
		"Reduced visibility; stay close to your group and carry a signalling device.",
		"Poor visibility; postpone until it clears.",
	},
}

// activityRecommendations replaces the default text for specific
// (activity, kind, status) combinations.
var activityRecommendations = map[tableKey]map[Status]string{
	{ActivitySurfing, KindWaveHeight}: {
		StatusModerate: "Waves outside the 0.3-1 m range: intermediate surfers only; beginners should stay in the whitewater.",
		StatusWarning:  "Heavy surf above 2.5 m: experts only, and never surf alone.",
	},
	{ActivitySurfing, KindCurrent}: {
		StatusWarning: "Strong rip currents; if caught, paddle parallel to shore.",
	},
	{ActivityDiving, KindVisibility}: {
		StatusModerate: "Underwater visibility 5-10 m: keep close contact with your buddy.",
		StatusWarning:  "Underwater visibility below 5 m: postpone the dive.",
	},
	{ActivityDiving, KindCurrent}: {
		StatusModerate: "Plan a drift dive and carry a surface marker buoy.",
		StatusWarning:  "Currents too strong for safe diving; abort the dive.",
	},
	{ActivityDiving, KindWaterTemp}: {
		StatusModerate: "Water below 18 °C: wear a 7 mm wetsuit or semi-dry.",
	},
	{ActivitySailing, KindWind}: {
		StatusModerate: "Wind outside the ideal 10-37 km/h range; adjust your sail plan.",
		StatusWarning:  "Gale-force wind; keep the boat in harbour.",
	},
	{ActivitySailing, KindWaveHeight}: {
		StatusWarning: "Rough seas above 3 m; do not leave harbour.",
	},
	{ActivityKayaking, KindWind}: {
		StatusModerate: "Wind above 15 km/h: stay in sheltered water near shore.",
		StatusWarning:  "Wind above 28 km/h is too strong for sea kayaking.",
	},
	{ActivityKayaking, KindWaveHeight}: {
		StatusModerate: "Choppy water; keep your spray skirt on and stay near shore.",
	},
	{ActivitySwimming, KindCurrent}: {
		StatusModerate: "Swim parallel to shore near a lifeguard station.",
		StatusWarning:  "Rip current risk: do not swim. If caught, swim parallel to shore.",
	},
	{ActivitySwimming, KindWaveHeight}: {
		StatusWarning: "Breaking waves above 1 m: do not swim.",
	},
	{ActivitySwimming, KindWaterTemp}: {
		StatusModerate: "Water outside the comfortable 20-30 °C range; limit swim time.",
	},
	{ActivityFishing, KindWaveHeight}: {
		StatusModerate: "Moderate swell; stay on stable ground and wear a life jacket on boats.",
	},
	{ActivityFishing, KindWind}: {
		StatusWarning: "Strong winds; secure gear and keep off jetties and rocks.",
	},
}

func statusText(kind VariableKind, s Status) string {
	return statusTexts[kind][s-1]
}

func recommendation(activity Activity, kind VariableKind, s Status) string {
	if text, ok := activityRecommendations[tableKey{activity, kind}][s]; ok {
		return text
	}
	return defaultRecommendations[kind][s-1]
}

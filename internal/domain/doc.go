// Package domain turns raw ocean and weather readings into an activity safety
// verdict, and historical daily temperatures into hot/cold day probabilities.
//
// Everything in this package is a pure function of its inputs: no I/O, no
// clocks, no shared mutable state. Callers may evaluate any number of requests
// concurrently.
//
// # Variables and units
//
// Readings arrive already normalized by the upstream providers:
//
//	wave-height   metres        clamped to [0, 30]
//	water-temp    °C            clamped to [-2, 40]
//	wind          km/h          clamped to [0, 400]
//	uv            UV index      clamped to [0, 20]
//	current       knots         clamped to [0, 15]
//	visibility    metres        clamped to [0, 50000]
//
// Out-of-range values are clamped rather than rejected because providers
// report noisy extremes. NaN cannot be clamped and is rejected.
//
// # Bands
//
// Each (activity, variable) pair owns a [Threshold]: an ordered list of bands
// with inclusive lower bounds, starting at -Inf, so every value falls into
// exactly one band. The direction tag records whether lower values, higher
// values or a middle range are preferred:
//
//	wave-height for swimming   lower is better   safe <0.5 m | moderate <1.0 m | warning
//	wave-height for surfing    middle is better  moderate <0.3 m | safe <1.0 m | moderate <2.5 m | warning
//	visibility for diving      higher is better  warning <5 m | moderate <10 m | safe
//
// # Scoring
//
// Sub-scores are safe=100, moderate=55, warning=15. The overall score is the
// importance-weighted mean, rounded and clamped to [0, 100]:
//
//	score >= 70       Safe
//	40 <= score < 70  Moderate
//	score < 40        Danger
//
// Override rules run after scoring and lower the category by one tier when
// the weather is severe (storm-force wind, thunderstorms). They never change
// the numeric score.
//
// # Historical probabilities
//
// Hot and cold day probabilities are exceedance fractions over the samples in
// a calendar window, measured against percentile thresholds of a reference
// distribution (the whole series unless the caller supplies one). They are
// independent and need not sum to 1.
package domain

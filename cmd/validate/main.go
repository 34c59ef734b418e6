// Command validate checks the condition request fixtures against the
// evaluation service. Every fixture must decode, evaluate to its expected
// score and verdict, and produce a condition that satisfies the verdict
// invariants (score range, category bands, override accounting, safety tips).
//
// Usage:
//
//	go run ./cmd/validate -fixtures data/mock/condition_requests.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/hideyae/Hackathon-Ocean-Safe/internal/domain"
	"github.com/hideyae/Hackathon-Ocean-Safe/internal/evaluation"
)

// fixture is one entry of the condition request fixture file.
type fixture struct {
	Name            string          `json:"name"`
	ExpectedOverall string          `json:"expected_overall"`
	ExpectedScore   int             `json:"expected_score"`
	Request         json.RawMessage `json:"request"`
}

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	path := flag.String("fixtures", "data/mock/condition_requests.json", "path to condition request fixtures")
	flag.Parse()

	os.Exit(run(*path, os.Stdout))
}

func run(path string, out io.Writer) int {
	fmt.Fprintln(out, "=== Condition Fixture Validation ===")
	fmt.Fprintln(out)

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(out, "FATAL: read fixtures: %v\n", err)
		return 1
	}
	var fixtures []fixture
	if err := json.Unmarshal(data, &fixtures); err != nil {
		fmt.Fprintf(out, "FATAL: decode fixtures: %v\n", err)
		return 1
	}

	evaluator := evaluation.NewEvaluator(nil,
		evaluation.WithClock(clockwork.NewFakeClockAt(time.Date(2024, time.July, 14, 6, 0, 0, 0, time.UTC))),
	)

	decoding := &phase{name: "Request decoding"}
	verdicts := &phase{name: "Expected verdicts"}
	invariants := &phase{name: "Condition invariants"}
	serialization := &phase{name: "Sink serialization"}

	seen := make(map[string]bool, len(fixtures))
	for _, f := range fixtures {
		if seen[f.Name] {
			decoding.errorf("%s: duplicate fixture name", f.Name)
		}
		seen[f.Name] = true

		req, err := domain.DecodeConditionRequest(f.Request)
		if err != nil {
			decoding.errorf("%s: %v", f.Name, err)
			continue
		}

		cond, err := evaluator.Evaluate(req)
		if err != nil {
			verdicts.errorf("%s: evaluate: %v", f.Name, err)
			continue
		}
		if cond.Score != f.ExpectedScore {
			verdicts.errorf("%s: score %d, expected %d", f.Name, cond.Score, f.ExpectedScore)
		}
		if string(cond.Overall) != f.ExpectedOverall {
			verdicts.errorf("%s: overall %s, expected %s", f.Name, cond.Overall, f.ExpectedOverall)
		}

		checkInvariants(invariants, f.Name, req, cond)

		event, err := domain.SerializeCondition(cond)
		if err != nil {
			serialization.errorf("%s: %v", f.Name, err)
			continue
		}
		if string(event.Key) != cond.ID {
			serialization.errorf("%s: key %q does not match id %q", f.Name, event.Key, cond.ID)
		}
		if event.Headers[domain.HeaderOverall] != string(cond.Overall) {
			serialization.errorf("%s: overall header %q", f.Name, event.Headers[domain.HeaderOverall])
		}
	}

	phases := []*phase{decoding, verdicts, invariants, serialization}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(out, "  %-42s %s\n", p.name, status)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Fixtures: %d\n", len(fixtures))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			if i >= 20 {
				fmt.Fprintf(out, "  ... and %d more\n", len(p.errors)-20)
				break
			}
			fmt.Fprintf(out, "  %s\n", e)
		}
	}

	if !allPassed {
		return 1
	}
	return 0
}

// checkInvariants verifies properties every evaluated condition must hold.
func checkInvariants(p *phase, name string, req domain.ConditionRequest, c domain.ActivityCondition) {
	if c.Score < 0 || c.Score > 100 {
		p.errorf("%s: score %d outside [0, 100]", name, c.Score)
	}
	if len(c.Variables) != len(req.Readings) {
		p.errorf("%s: %d variables for %d readings", name, len(c.Variables), len(req.Readings))
	}
	for _, v := range c.Variables {
		if !v.Status.Valid() {
			p.errorf("%s: variable %s has invalid status %d", name, v.ID, int(v.Status))
		}
	}

	banded := domain.CategoryFor(c.Score)
	switch {
	case len(c.Overrides) == 0 && c.Overall != banded:
		p.errorf("%s: overall %s does not match score band %s", name, c.Overall, banded)
	case len(c.Overrides) > 0 && c.Overall == banded && banded != domain.CategoryDanger:
		p.errorf("%s: overrides %v fired but overall was not rated down", name, c.Overrides)
	}

	if len(c.Safety) == 0 {
		p.errorf("%s: no safety tips", name)
	}
	if c.Details == "" {
		p.errorf("%s: empty details", name)
	}
}

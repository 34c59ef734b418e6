// Command evaluate reads a condition request from a JSON file (or stdin) and
// prints the evaluated activity condition as JSON or CSV. It uses the same
// evaluation service as the pipeline, so its output matches what the service
// publishes.
//
// Usage:
//
//	go run ./cmd/evaluate -in request.json
//	go run ./cmd/evaluate -in request.json -format csv > report.csv
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/hideyae/Hackathon-Ocean-Safe/internal/domain"
	"github.com/hideyae/Hackathon-Ocean-Safe/internal/evaluation"
	"github.com/hideyae/Hackathon-Ocean-Safe/internal/export"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("evaluate", flag.ContinueOnError)
	in := fs.String("in", "-", "condition request JSON file, - for stdin")
	format := fs.String("format", "json", "output format: json or csv")
	fixed := fs.String("at", "", "fixed evaluation time (RFC3339) for reproducible output")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *format != "json" && *format != "csv" {
		return fmt.Errorf("unknown format %q: want json or csv", *format)
	}

	var opts []evaluation.Option
	if *fixed != "" {
		at, err := time.Parse(time.RFC3339, *fixed)
		if err != nil {
			return fmt.Errorf("parse -at: %w", err)
		}
		opts = append(opts, evaluation.WithClock(clockwork.NewFakeClockAt(at)))
	}

	raw, err := readInput(*in, stdin)
	if err != nil {
		return err
	}
	req, err := domain.DecodeConditionRequest(raw)
	if err != nil {
		return err
	}

	cond, err := evaluation.NewEvaluator(nil, opts...).Evaluate(req)
	if err != nil {
		return err
	}

	if *format == "csv" {
		return export.WriteCSV(stdout, cond)
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cond); err != nil {
		return fmt.Errorf("encode condition: %w", err)
	}
	return nil
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

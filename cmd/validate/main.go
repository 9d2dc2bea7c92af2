// Command validate checks Tive payload files offline, running the same
// schema, coordinate and timestamp checks the webhook applies, without
// touching a database. Useful for vetting fixture files and captured
// payloads before replaying them.
//
// Usage:
//
//	go run ./cmd/validate payload.json [more.json ...]
//	cat payload.json | go run ./cmd/validate -
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/couchcryptid/tive-telemetry-ingest/internal/domain"
)

// report tracks the outcome of validating one input.
type report struct {
	name     string
	errors   []string
	warnings []string
}

func (r *report) errorf(format string, args ...any) {
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}

func (r *report) passed() bool { return len(r.errors) == 0 }

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: validate <payload.json>... or validate - for stdin")
		os.Exit(2)
	}

	allPassed := true
	for _, arg := range args {
		r := validateInput(arg)
		printReport(r)
		if !r.passed() {
			allPassed = false
		}
	}

	if !allPassed {
		os.Exit(1)
	}
}

func validateInput(name string) *report {
	r := &report{name: name}

	var body []byte
	var err error
	if name == "-" {
		r.name = "stdin"
		body, err = io.ReadAll(os.Stdin)
	} else {
		body, err = os.ReadFile(name)
	}
	if err != nil {
		r.errorf("read: %v", err)
		return r
	}

	obj, err := domain.DecodeBody(body)
	if err != nil {
		r.errorf("invalid JSON: %v", err)
		return r
	}

	payload, fieldErrs := domain.ValidatePayload(obj)
	if len(fieldErrs) > 0 {
		for _, fe := range fieldErrs {
			r.errorf("%s: %s", fe.Path, fe.Message)
		}
		return r
	}

	if err := domain.CheckLatLng(payload.Location.Latitude, payload.Location.Longitude); err != nil {
		r.errorf("%v", err)
		return r
	}

	r.warnings = domain.TimestampWarnings(payload.EntryTimeEpoch)
	return r
}

func printReport(r *report) {
	if r.passed() {
		fmt.Printf("PASS  %s\n", r.name)
	} else {
		fmt.Printf("FAIL  %s\n", r.name)
		for _, e := range r.errors {
			fmt.Printf("      error: %s\n", e)
		}
	}
	for _, w := range r.warnings {
		fmt.Printf("      warning: %s\n", w)
	}
}

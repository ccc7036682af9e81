package burstpick

import (
	"errors"
	"time"
)

// RunSummary accumulates the outcome of one curation run.
type RunSummary struct {
	RunID       string
	Source      string
	Destination string
	Started     time.Time
	Elapsed     time.Duration

	Groups  int // groups processed, including groups abandoned after a panic
	Winners int // winners relocated
	Losers  int // losers relocated, including unscored and undecodable frames
	Scored  int // frames scored successfully

	Failures []Failure
}

// DecodeFailures returns the failures recorded while scoring.
func (s *RunSummary) DecodeFailures() []Failure {
	return s.failuresAt(StageDecode)
}

// RelocateFailures returns the failures recorded while moving files.
func (s *RunSummary) RelocateFailures() []Failure {
	return s.failuresAt(StageRelocate)
}

func (s *RunSummary) failuresAt(stage string) []Failure {
	var out []Failure
	for _, f := range s.Failures {
		if f.Stage == stage {
			out = append(out, f)
		}
	}
	return out
}

// Err reports whether the run completed with per-path failures.
// It returns nil for a clean run.
func (s *RunSummary) Err() error {
	var errs []error
	if len(s.DecodeFailures()) > 0 {
		errs = append(errs, ErrDecodeFailures)
	}
	if len(s.RelocateFailures()) > 0 {
		errs = append(errs, ErrRelocateFailures)
	}
	if len(s.failuresAt(StagePanic)) > 0 {
		errs = append(errs, ErrGroupPanics)
	}
	return errors.Join(errs...)
}

func (s *RunSummary) add(sel Selection, winners, losers int, failures []Failure) {
	s.Groups++
	s.Winners += winners
	s.Losers += losers
	if sel.Winner != nil {
		s.Scored++
	}
	for _, f := range sel.Losers {
		if f.Scored {
			s.Scored++
		}
	}
	s.Failures = append(s.Failures, failures...)
}

package metrics

import "time"

// Outcome labels the final status of a run.
type Outcome string

const (
	OutcomeClean    Outcome = "clean"
	OutcomeProblems Outcome = "problems"
	OutcomeFailed   Outcome = "failed"
)

// Recorder defines observability hooks for check runs.
type Recorder interface {
	ObserveRunDuration(d time.Duration)
	IncRunOutcome(outcome Outcome)
	SetFilesChecked(n int)
	AddReferences(n int)
	IncDiagnostic(rule string)
	AddFileErrors(n int)
}

// NoopRecorder is a Recorder that does nothing.
type NoopRecorder struct{}

func (NoopRecorder) ObserveRunDuration(time.Duration) {}
func (NoopRecorder) IncRunOutcome(Outcome)            {}
func (NoopRecorder) SetFilesChecked(int)              {}
func (NoopRecorder) AddReferences(int)                {}
func (NoopRecorder) IncDiagnostic(string)             {}
func (NoopRecorder) AddFileErrors(int)                {}

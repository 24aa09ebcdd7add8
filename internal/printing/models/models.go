package models

import (
	"time"

	"welcome/pkg/domain"
)

// Status is the lifecycle state of a print job. A job is created
// Outstanding and moves exactly once to Finished or Failed.
type Status string

const (
	StatusOutstanding Status = "outstanding"
	StatusFinished    Status = "finished"
	StatusFailed      Status = "failed"
	// StatusNotFound is reported for ids never issued or already evicted.
	StatusNotFound Status = "not_found"
)

// IsTerminal reports whether no further transition can happen.
func (s Status) IsTerminal() bool {
	return s == StatusFinished || s == StatusFailed
}

func (s Status) String() string {
	return string(s)
}

// Job is one request to print a card snapshot.
type Job struct {
	ID          domain.JobID
	Card        domain.Card
	Status      Status
	SubmittedAt time.Time
	CompletedAt time.Time
	Error       string
}

// Clone returns a copy safe to hand outside the job table.
func (j *Job) Clone() *Job {
	out := *j
	out.Card = j.Card.Clone()
	return &out
}

// Complete records the terminal state. It returns false if the job had
// already completed.
func (j *Job) Complete(err error, at time.Time) bool {
	if j.Status.IsTerminal() {
		return false
	}
	j.CompletedAt = at
	if err != nil {
		j.Status = StatusFailed
		j.Error = err.Error()
		return true
	}
	j.Status = StatusFinished
	return true
}

// Result is delivered once on a job's completion channel.
type Result struct {
	JobID  domain.JobID
	Status Status
	Err    error
}

package models

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
)

// Sweep names.
const (
	SweepForms          = "forms"
	SweepOrphanServices = "orphan-services"
	SweepEmptyFolders   = "empty-folders"
	SweepPurgeServices  = "purge-services"
)

// Failure is one item that could not be removed.
type Failure struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// SweepResult is the outcome of one sweep. Record methods are safe for concurrent use.
type SweepResult struct {
	Name      string    `json:"name"`
	Found     int       `json:"found"`
	Deleted   int       `json:"deleted"`
	Skipped   int       `json:"skipped"`
	Truncated bool      `json:"truncated"`
	Failures  []Failure `json:"failures"`
	Error     string    `json:"error,omitempty"`
	mu        sync.Mutex
}

// NewSweepResult creates an empty result for the named sweep.
func NewSweepResult(name string) *SweepResult {
	return &SweepResult{Name: name, Failures: []Failure{}}
}

// RecordDeleted counts a successful removal.
func (r *SweepResult) RecordDeleted() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Deleted++
}

// RecordSkipped counts an item that was looked at and left alone.
func (r *SweepResult) RecordSkipped() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Skipped++
}

// RecordFailure adds a failed removal.
func (r *SweepResult) RecordFailure(id, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Failures = append(r.Failures, Failure{ID: id, Reason: reason})
}

// Fail marks the whole sweep as failed.
func (r *SweepResult) Fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Error = err.Error()
}

// Err aggregates the sweep error and every item failure, or returns nil.
func (r *SweepResult) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result *multierror.Error
	if r.Error != "" {
		result = multierror.Append(result, fmt.Errorf("%s: %s", r.Name, r.Error))
	}
	for _, f := range r.Failures {
		result = multierror.Append(result, fmt.Errorf("%s: %s", f.ID, f.Reason))
	}
	return result.ErrorOrNil()
}

// Report covers one run of the sweeper.
type Report struct {
	ID         string         `json:"id"`
	OrgID      string         `json:"org_id"`
	Username   string         `json:"username"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt *time.Time     `json:"finished_at,omitempty"`
	Sweeps     []*SweepResult `json:"sweeps"`
}

// NewReport starts a report with a fresh run id.
func NewReport(username string) *Report {
	return &Report{
		ID:        uuid.New().String(),
		Username:  username,
		StartedAt: time.Now(),
		Sweeps:    []*SweepResult{},
	}
}

// Add appends a finished sweep.
func (r *Report) Add(s *SweepResult) {
	r.Sweeps = append(r.Sweeps, s)
}

// Complete stamps the finish time.
func (r *Report) Complete() {
	now := time.Now()
	r.FinishedAt = &now
}

// TotalDeleted sums deletions across sweeps.
func (r *Report) TotalDeleted() int {
	n := 0
	for _, s := range r.Sweeps {
		n += s.Deleted
	}
	return n
}

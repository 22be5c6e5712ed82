package models

import (
	"errors"
	"sync"
	"testing"
)

func TestPortalError_IsNotFound(t *testing.T) {
	tests := []struct {
		name   string
		err    *PortalError
		expect bool
	}{
		{"not found code", &PortalError{Code: 400, MessageCode: "CONT_0001"}, true},
		{"other code", &PortalError{Code: 400, MessageCode: "GWM_0003"}, false},
		{"no message code", &PortalError{Code: 500, Message: "boom"}, false},
		{"nil", nil, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.err.IsNotFound(); got != tc.expect {
				t.Errorf("IsNotFound() = %v, want %v", got, tc.expect)
			}
		})
	}
}

func TestSearchPage_Truncated(t *testing.T) {
	page := &SearchPage{Total: 150, Results: make([]Item, 100)}
	if !page.Truncated() {
		t.Error("150 matches with 100 results should be truncated")
	}
	page = &SearchPage{Total: 2, Results: make([]Item, 2)}
	if page.Truncated() {
		t.Error("complete page should not be truncated")
	}
}

func TestSweepResult_Err(t *testing.T) {
	r := NewSweepResult(SweepForms)
	if r.Err() != nil {
		t.Fatalf("empty result Err() = %v, want nil", r.Err())
	}

	r.RecordFailure("f1", "permission denied")
	r.Fail(errors.New("search failed"))
	err := r.Err()
	if err == nil {
		t.Fatal("Err() should aggregate failures")
	}
}

func TestSweepResult_ConcurrentRecords(t *testing.T) {
	r := NewSweepResult(SweepEmptyFolders)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(3)
		go func() { defer wg.Done(); r.RecordDeleted() }()
		go func() { defer wg.Done(); r.RecordSkipped() }()
		go func() { defer wg.Done(); r.RecordFailure("x", "y") }()
	}
	wg.Wait()

	if r.Deleted != 50 || r.Skipped != 50 || len(r.Failures) != 50 {
		t.Errorf("counts = (%d, %d, %d), want (50, 50, 50)", r.Deleted, r.Skipped, len(r.Failures))
	}
}

func TestReport_TotalDeleted(t *testing.T) {
	rep := NewReport("dev")
	if rep.ID == "" {
		t.Fatal("NewReport did not assign an ID")
	}
	a := NewSweepResult(SweepForms)
	a.RecordDeleted()
	a.RecordDeleted()
	b := NewSweepResult(SweepEmptyFolders)
	b.RecordDeleted()
	rep.Add(a)
	rep.Add(b)
	rep.Complete()

	if got := rep.TotalDeleted(); got != 3 {
		t.Errorf("TotalDeleted() = %d, want 3", got)
	}
	if rep.FinishedAt == nil {
		t.Error("Complete should set FinishedAt")
	}
}

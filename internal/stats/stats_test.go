package stats

import (
	"strings"
	"testing"
)

func TestTotals(t *testing.T) {
	r := NewRun()
	r.Add("jobs/gds", New)
	r.Add("jobs/gds", Existing)
	r.Add("jobs/gds", Existing)
	r.Add("jobs/moj", Failed)

	if got := r.TotalNew(); got != 1 {
		t.Errorf("TotalNew() = %d, want 1", got)
	}
	if got := r.TotalExisting(); got != 2 {
		t.Errorf("TotalExisting() = %d, want 2", got)
	}
	if got := r.TotalFailed(); got != 1 {
		t.Errorf("TotalFailed() = %d, want 1", got)
	}
}

func TestSummaryKeepsSearchOrder(t *testing.T) {
	r := NewRun()
	r.Add("jobs/gds", New)
	r.Add("jobs/cddo", Existing)
	r.Add("jobs/moj", Failed)

	s := r.Summary()
	gds := strings.Index(s, "jobs/gds")
	cddo := strings.Index(s, "jobs/cddo")
	moj := strings.Index(s, "jobs/moj")
	if gds < 0 || cddo < 0 || moj < 0 {
		t.Fatalf("summary missing a search:\n%s", s)
	}
	if !(gds < cddo && cddo < moj) {
		t.Errorf("searches out of order:\n%s", s)
	}
	if !strings.Contains(s, "ERRORS: 1") {
		t.Errorf("summary should flag errors:\n%s", s)
	}
}

func TestSummaryOmitsErrorLineWhenClean(t *testing.T) {
	r := NewRun()
	r.Add("jobs/gds", New)

	if strings.Contains(r.Summary(), "ERRORS") {
		t.Error("clean run should not mention errors")
	}
}

func TestEmptyRunSummary(t *testing.T) {
	s := NewRun().Summary()
	if !strings.Contains(s, "Total jobs: 0") {
		t.Errorf("empty run should report zero jobs:\n%s", s)
	}
}

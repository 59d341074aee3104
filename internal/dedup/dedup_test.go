package dedup

import "testing"

func TestIndex(t *testing.T) {
	ix := NewIndex()

	if ix.Seen("https://site/jobs/1") {
		t.Fatal("empty index should see nothing")
	}

	ix.Add("https://site/jobs/1", "jobs/gds/a.pdf", "")

	if !ix.Seen("https://site/jobs/1") {
		t.Error("URL should be seen after Add")
	}
	if !ix.Seen("jobs/gds/a.pdf") {
		t.Error("path should be seen after Add")
	}
	if ix.Seen("") {
		t.Error("empty keys must not be indexed")
	}
	if got := ix.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
}

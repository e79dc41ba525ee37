package journal

import (
	"context"
	"testing"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()

	j, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) error = %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestHash_Deterministic(t *testing.T) {
	a := Hash("A/c XX1234 debited by Rs.500.00")
	b := Hash("A/c XX1234 debited by Rs.500.00")
	c := Hash("A/c XX1234 debited by Rs.501.00")

	if a != b {
		t.Error("same body produced different hashes")
	}
	if a == c {
		t.Error("different bodies produced the same hash")
	}
	if len(a) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(a))
	}
}

func TestJournal_SeenAndMark(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()
	hash := Hash("credited Rs.100 to A/c 1234")

	seen, err := j.Seen(ctx, "user-1", hash)
	if err != nil {
		t.Fatalf("Seen() error = %v", err)
	}
	if seen {
		t.Error("fresh hash reported as seen")
	}

	if err := j.MarkProcessed(ctx, "user-1", hash, "job-1"); err != nil {
		t.Fatalf("MarkProcessed() error = %v", err)
	}

	seen, err = j.Seen(ctx, "user-1", hash)
	if err != nil {
		t.Fatalf("Seen() error = %v", err)
	}
	if !seen {
		t.Error("marked hash not reported as seen")
	}

	// Same body for a different user is not a duplicate.
	seen, err = j.Seen(ctx, "user-2", hash)
	if err != nil {
		t.Fatalf("Seen() error = %v", err)
	}
	if seen {
		t.Error("hash leaked across users")
	}
}

func TestJournal_MarkTwiceIsIdempotent(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()
	hash := Hash("debited by 35.0")

	if err := j.MarkProcessed(ctx, "user-1", hash, "job-1"); err != nil {
		t.Fatalf("MarkProcessed() error = %v", err)
	}
	if err := j.MarkProcessed(ctx, "user-1", hash, "job-2"); err != nil {
		t.Fatalf("second MarkProcessed() error = %v", err)
	}

	count, err := j.Count(ctx, "user-1")
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 1 {
		t.Errorf("Count() = %d, want 1", count)
	}
}

// Copyright (c) 2025 Prashanth / Prana Guru
// SPDX-License-Identifier: AGPL-3.0-or-later

package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestRecordAndRecent(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	base := time.Date(2025, 8, 30, 10, 0, 0, 0, time.UTC)
	entries := []Entry{
		{CreatedAt: base, TransientID: "local-1", Preview: "What is dharma?", Outcome: OutcomeConfirmed, ConversationID: "conv-1", DurationMs: 1200},
		{CreatedAt: base.Add(time.Minute), TransientID: "local-2", Preview: "and karma?", Outcome: OutcomeFailed, Detail: "connection refused"},
		{CreatedAt: base.Add(2 * time.Minute), TransientID: "local-3", Preview: "moksha?", Outcome: OutcomeDiscarded},
	}
	for _, e := range entries {
		if err := j.Record(ctx, e); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	recent, err := j.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("len = %d, want 3", len(recent))
	}
	if recent[0].TransientID != "local-3" {
		t.Errorf("newest first: got %q, want local-3", recent[0].TransientID)
	}
	if recent[1].Outcome != OutcomeFailed || recent[1].Detail != "connection refused" {
		t.Errorf("failed entry = %+v, want outcome/detail preserved", recent[1])
	}
	if !recent[2].CreatedAt.Equal(base) {
		t.Errorf("CreatedAt = %v, want %v", recent[2].CreatedAt, base)
	}
}

func TestRecent_Limit(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	for i := 0; i < 30; i++ {
		if err := j.Record(ctx, Entry{TransientID: "local-x", Preview: "q", Outcome: OutcomeConfirmed}); err != nil {
			t.Fatal(err)
		}
	}

	recent, err := j.Recent(ctx, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 5 {
		t.Errorf("len = %d, want 5", len(recent))
	}
}

func TestCountByOutcome(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		j.Record(ctx, Entry{TransientID: "local-c", Preview: "q", Outcome: OutcomeConfirmed})
	}
	j.Record(ctx, Entry{TransientID: "local-f", Preview: "q", Outcome: OutcomeFailed})

	counts, err := j.CountByOutcome(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if counts[OutcomeConfirmed] != 3 || counts[OutcomeFailed] != 1 {
		t.Errorf("counts = %v, want confirmed=3 failed=1", counts)
	}
}

func TestPrune(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	base := time.Date(2025, 8, 30, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		j.Record(ctx, Entry{
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
			TransientID: "local-p", Preview: "q", Outcome: OutcomeConfirmed,
		})
	}

	if err := j.Prune(ctx, 4); err != nil {
		t.Fatalf("Prune: %v", err)
	}

	recent, _ := j.Recent(ctx, 100)
	if len(recent) != 4 {
		t.Errorf("len after prune = %d, want 4", len(recent))
	}
	// The survivors are the newest entries.
	if !recent[0].CreatedAt.Equal(base.Add(9 * time.Minute)) {
		t.Errorf("newest survivor = %v, want the latest entry", recent[0].CreatedAt)
	}
}

func TestClosedJournal(t *testing.T) {
	j := openTestJournal(t)
	j.Close()

	if err := j.Record(context.Background(), Entry{}); err != ErrClosed {
		t.Errorf("Record after close = %v, want ErrClosed", err)
	}
	if _, err := j.Recent(context.Background(), 5); err != ErrClosed {
		t.Errorf("Recent after close = %v, want ErrClosed", err)
	}
}

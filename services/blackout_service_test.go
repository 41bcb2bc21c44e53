package services

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestBlackoutAddRejectsDuplicateDate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tutorID := f.tutor(t, "fay", 9)

	reason := "  holiday  "
	b, err := f.blackout.Add(ctx, tutorID, at(0, 0), &reason)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if b.Reason == nil || *b.Reason != "holiday" {
		t.Fatalf("reason should be trimmed, got %v", b.Reason)
	}

	if _, err := f.blackout.Add(ctx, tutorID, at(15, 30), nil); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for the same calendar date, got %v", err)
	}

	other := f.tutor(t, "gus", 9)
	if _, err := f.blackout.Add(ctx, other, at(0, 0), nil); err != nil {
		t.Fatalf("another tutor may black out the same date: %v", err)
	}
}

func TestBlackoutIgnoresTimeOfDay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tutorID := f.tutor(t, "hal", 9)

	if _, err := f.blackout.Add(ctx, tutorID, at(22, 15), nil); err != nil {
		t.Fatalf("add: %v", err)
	}

	cases := []struct {
		date time.Time
		want bool
	}{
		{at(0, 0), true},
		{at(23, 59), true},
		{time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC), false},
		{time.Date(2024, 1, 9, 23, 0, 0, 0, time.UTC), false},
	}
	for _, tc := range cases {
		got, err := f.blackout.IsBlackedOut(ctx, tutorID, tc.date)
		if err != nil {
			t.Fatalf("is blacked out: %v", err)
		}
		if got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.date, tc.want, got)
		}
	}
}

func TestBlackoutListAndRemove(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tutorID := f.tutor(t, "ida", 9)

	for _, d := range []int{12, 10, 20} {
		if _, err := f.blackout.Add(ctx, tutorID, time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC), nil); err != nil {
			t.Fatalf("add %d: %v", d, err)
		}
	}

	list, err := f.blackout.List(ctx, tutorID, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 blackouts in range, got %d", len(list))
	}
	if time.Time(list[0].Date).Day() != 10 || time.Time(list[1].Date).Day() != 12 {
		t.Fatalf("expected ascending order, got %v, %v", list[0].Date, list[1].Date)
	}

	if err := f.blackout.Remove(ctx, tutorID, time.Date(2024, 1, 12, 9, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := f.blackout.Remove(ctx, tutorID, time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second remove, got %v", err)
	}
	all, _ := f.blackout.List(ctx, tutorID, time.Time{}, time.Time{})
	if len(all) != 2 {
		t.Fatalf("expected 2 blackouts left, got %d", len(all))
	}
}

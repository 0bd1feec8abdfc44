package model

import (
	"testing"
	"time"
)

func TestContextAt(t *testing.T) {
	// 2021-10-01 was a Friday.
	ref := time.Date(2021, 10, 1, 6, 40, 58, 0, time.UTC)
	ctx := ContextAt(ref, 30*time.Minute)
	if ctx.Day != time.Friday {
		t.Fatalf("expected Friday got %v", ctx.Day)
	}
	if ctx.Bucket != 13 {
		t.Fatalf("expected bucket 13 got %d", ctx.Bucket)
	}
	if ctx.Class() != Weekday {
		t.Fatalf("expected weekday class got %v", ctx.Class())
	}
}

func TestContextAtDefaultsToHourly(t *testing.T) {
	ref := time.Date(2021, 10, 2, 13, 59, 0, 0, time.UTC)
	ctx := ContextAt(ref, 0)
	if ctx.Bucket != 13 {
		t.Fatalf("expected hourly bucket 13 got %d", ctx.Bucket)
	}
	if ctx.Class() != Weekend {
		t.Fatalf("expected weekend class got %v", ctx.Class())
	}
}

func TestDayClassString(t *testing.T) {
	if ClassOf(time.Monday).String() != "weekday" {
		t.Fatalf("unexpected class for Monday")
	}
	if ClassOf(time.Sunday).String() != "weekend" {
		t.Fatalf("unexpected class for Sunday")
	}
}

func TestFallbackLevelString(t *testing.T) {
	levels := map[FallbackLevel]string{
		FallbackNone:      "exact",
		FallbackDayClass:  "day_class",
		FallbackTimeOnly:  "time_only",
		FallbackPartition: "partition",
	}
	for level, want := range levels {
		if got := level.String(); got != want {
			t.Errorf("level %d: expected %q got %q", level, want, got)
		}
	}
}

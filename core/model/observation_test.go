package model

import (
	"testing"
	"time"
)

func obs(arrival, departure time.Time) Observation {
	return Observation{
		TripID:       "1",
		StopID:       "114",
		Direction:    "1",
		Arrival:      arrival,
		Departure:    departure,
		DwellSeconds: departure.Sub(arrival).Seconds(),
	}
}

func TestObservationValidate(t *testing.T) {
	arr := time.Date(2021, 10, 1, 6, 40, 58, 0, time.UTC)
	if err := obs(arr, arr.Add(12*time.Second)).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestObservationValidateRejectsBadRows(t *testing.T) {
	arr := time.Date(2021, 10, 1, 6, 40, 58, 0, time.UTC)
	cases := []struct {
		name string
		o    Observation
	}{
		{"missing trip", Observation{StopID: "114", Arrival: arr}},
		{"missing stop", Observation{TripID: "1", Arrival: arr}},
		{"zero arrival", Observation{TripID: "1", StopID: "114"}},
		{"departure before arrival", obs(arr, arr.Add(-time.Minute))},
		{"negative dwell", Observation{TripID: "1", StopID: "114", Arrival: arr, DwellSeconds: -1}},
	}
	for _, tc := range cases {
		if err := tc.o.Validate(); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func TestObservationServiceDate(t *testing.T) {
	arr := time.Date(2021, 10, 15, 18, 5, 3, 0, time.UTC)
	got := obs(arr, arr).ServiceDate()
	want := time.Date(2021, 10, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v got %v", want, got)
	}
}

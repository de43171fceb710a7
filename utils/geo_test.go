package utils

import (
	"math"
	"testing"

	models "github.com/daansetu/daansetu-backend/models"
)

func TestCalculateDistanceZeroForSamePoint(t *testing.T) {
	points := [][2]float64{
		{0, 0},
		{28.6139, 77.2090},   // Delhi
		{-33.8688, 151.2093}, // Sydney
	}
	for _, p := range points {
		if d := CalculateDistance(p[0], p[1], p[0], p[1]); d != 0 {
			t.Errorf("distance from (%v,%v) to itself = %v, want 0", p[0], p[1], d)
		}
	}
}

func TestCalculateDistanceSymmetric(t *testing.T) {
	a := [2]float64{28.6139, 77.2090} // Delhi
	b := [2]float64{19.0760, 72.8777} // Mumbai

	ab := CalculateDistance(a[0], a[1], b[0], b[1])
	ba := CalculateDistance(b[0], b[1], a[0], a[1])
	if math.Abs(ab-ba) > 1e-9 {
		t.Errorf("distance not symmetric: %v vs %v", ab, ba)
	}
}

func TestCalculateDistanceKnownValue(t *testing.T) {
	// Delhi to Mumbai is roughly 1150 km great-circle.
	d := CalculateDistance(28.6139, 77.2090, 19.0760, 72.8777)
	if d < 1100 || d > 1200 {
		t.Errorf("Delhi-Mumbai distance = %v km, want ~1150", d)
	}
}

func TestWithinRadius(t *testing.T) {
	cases := []struct {
		name     string
		lat, lng float64
		radius   float64
		want     bool
	}{
		{"same point", 28.6139, 77.2090, 1, true},
		{"nearby point inside radius", 28.7041, 77.1025, 20, true},
		{"nearby point outside radius", 28.7041, 77.1025, 5, false},
		{"far city", 19.0760, 72.8777, 100, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := WithinRadius(28.6139, 77.2090, tc.lat, tc.lng, tc.radius)
			if got != tc.want {
				t.Errorf("WithinRadius(...) = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestNearbyDonationsKeepsRecordsWithoutLocation(t *testing.T) {
	candidates := []models.Donation{
		{Title: "no location"},
		{Title: "far away", Location: &models.Coordinates{Lat: 19.0760, Lng: 72.8777}}, // Mumbai
		{Title: "close by", Location: &models.Coordinates{Lat: 28.7041, Lng: 77.1025}}, // ~20 km
	}

	// Query from Delhi with a 50 km radius.
	got := NearbyDonations(candidates, 28.6139, 77.2090, 50)

	if len(got) != 2 {
		t.Fatalf("NearbyDonations returned %d records, want 2", len(got))
	}

	titles := map[string]bool{}
	for _, d := range got {
		titles[d.Title] = true
	}
	if !titles["no location"] {
		t.Error("record without a location was filtered out")
	}
	if !titles["close by"] {
		t.Error("record inside the radius was filtered out")
	}
	if titles["far away"] {
		t.Error("record outside the radius was kept")
	}

	for _, d := range got {
		switch d.Title {
		case "no location":
			if d.Distance != nil {
				t.Errorf("record without a location got distance %v", *d.Distance)
			}
		case "close by":
			if d.Distance == nil {
				t.Error("record inside the radius has no distance")
			}
		}
	}
}

func TestNearbyDonationsSortsByDistance(t *testing.T) {
	candidates := []models.Donation{
		{Title: "farther", Location: &models.Coordinates{Lat: 28.7041, Lng: 77.1025}},
		{Title: "nearer", Location: &models.Coordinates{Lat: 28.6200, Lng: 77.2100}},
	}

	got := NearbyDonations(candidates, 28.6139, 77.2090, 50)
	if len(got) != 2 {
		t.Fatalf("NearbyDonations returned %d records, want 2", len(got))
	}
	if got[0].Title != "nearer" || got[1].Title != "farther" {
		t.Errorf("results not sorted nearest first: got %q then %q", got[0].Title, got[1].Title)
	}
	if *got[0].Distance > *got[1].Distance {
		t.Errorf("distances out of order: %v > %v", *got[0].Distance, *got[1].Distance)
	}
}

func TestNearbyRequests(t *testing.T) {
	candidates := []models.Request{
		{Title: "no location"},
		{Title: "inside", Location: &models.Coordinates{Lat: 28.7041, Lng: 77.1025}},
		{Title: "outside", Location: &models.Coordinates{Lat: 19.0760, Lng: 72.8777}},
	}

	got := NearbyRequests(candidates, 28.6139, 77.2090, 50)
	if len(got) != 2 {
		t.Fatalf("NearbyRequests returned %d records, want 2", len(got))
	}
	for _, r := range got {
		if r.Title == "outside" {
			t.Error("record outside the radius was kept")
		}
	}
}

package geo

import (
	"math"
	"testing"

	"supply-route-service/internal/domain"
)

func TestDistanceKnownPair(t *testing.T) {
	// Moscow -> Saint Petersburg, roughly 634 km on the sphere.
	got := Distance(55.7558, 37.6173, 59.9343, 30.3351)
	if got < 630 || got > 640 {
		t.Fatalf("distance = %v, want ~634", got)
	}
}

func TestDistanceRoundedToTwoDecimals(t *testing.T) {
	got := Distance(55.0, 37.0, 55.1, 37.1)
	if got <= 0 {
		t.Fatalf("distance = %v, want > 0", got)
	}
	if math.Abs(got*100-math.Round(got*100)) > 1e-9 {
		t.Fatalf("distance = %v is not rounded to 2 decimals", got)
	}
}

func TestDistanceSymmetric(t *testing.T) {
	a := Distance(55.0, 37.0, 56.2, 38.4)
	b := Distance(56.2, 38.4, 55.0, 37.0)
	if a != b {
		t.Fatalf("a->b = %v, b->a = %v", a, b)
	}
}

func TestDistanceSamePoint(t *testing.T) {
	if got := Distance(55.5, 37.5, 55.5, 37.5); got != 0 {
		t.Fatalf("distance = %v, want 0", got)
	}
}

func TestDistanceMissingCoordinate(t *testing.T) {
	cases := []struct {
		name                   string
		lat1, lng1, lat2, lng2 float64
	}{
		{"lat1", 0, 37, 55, 37},
		{"lng1", 55, 0, 55, 37},
		{"lat2", 55, 37, 0, 37},
		{"lng2", 55, 37, 55, 0},
		{"nan", math.NaN(), 37, 55, 37},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Distance(tc.lat1, tc.lng1, tc.lat2, tc.lng2); got != MissingDistance {
				t.Fatalf("distance = %v, want %v", got, MissingDistance)
			}
		})
	}
}

func TestBetween(t *testing.T) {
	a := domain.Coordinates{Lat: 55.0, Lng: 37.0}
	b := domain.Coordinates{Lat: 55.1, Lng: 37.1}
	if Between(a, b) != Distance(55.0, 37.0, 55.1, 37.1) {
		t.Fatalf("Between disagrees with Distance")
	}
}

func TestBetweenUnknownLocation(t *testing.T) {
	known := domain.Coordinates{Lat: 55.0, Lng: 37.0}
	for _, c := range []domain.Coordinates{{}, {Lat: 55.0}, {Lat: math.NaN(), Lng: 37.0}} {
		if got := Between(known, c); got != MissingDistance {
			t.Errorf("Between(%v, %v) = %v, want %v", known, c, got, MissingDistance)
		}
	}
}

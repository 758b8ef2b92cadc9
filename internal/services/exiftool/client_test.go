package exiftool

import (
	"testing"
)

func TestCoordEqual(t *testing.T) {
	tests := []struct {
		a, b float64
		want bool
	}{
		{37.7749, 37.7749, true},
		{37.7749, 37.77490000001, true},
		{37.7749, 37.7750, false},
		{-122.4194, -122.4194, true},
		{-122.4194, 122.4194, false},
	}
	for _, tt := range tests {
		if got := coordEqual(tt.a, tt.b); got != tt.want {
			t.Errorf("coordEqual(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestCoordinateRefs(t *testing.T) {
	if latitudeRef(37.7) != "N" || latitudeRef(-37.7) != "S" {
		t.Error("latitude ref wrong")
	}
	if longitudeRef(122.4) != "E" || longitudeRef(-122.4) != "W" {
		t.Error("longitude ref wrong")
	}
	if latitudeRef(0) != "N" || longitudeRef(0) != "E" {
		t.Error("zero coordinates default to N/E")
	}
}

package polyline

import (
	"math"
	"testing"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	coords := []Coordinate{
		{Lat: 38.5, Lng: -120.2},
		{Lat: 40.7, Lng: -120.95},
		{Lat: 43.252, Lng: -126.453},
	}

	encoded := Encode(coords)
	// Reference encoding from the algorithm documentation.
	if encoded != "_p~iF~ps|U_ulLnnqC_mqNvxq`@" {
		t.Errorf("unexpected encoding: %q", encoded)
	}

	decoded := Decode(encoded)
	if len(decoded) != len(coords) {
		t.Fatalf("expected %d coordinates, got %d", len(coords), len(decoded))
	}
	for i := range coords {
		if math.Abs(decoded[i].Lat-coords[i].Lat) > 1e-5 {
			t.Errorf("coord %d lat: got %f, want %f", i, decoded[i].Lat, coords[i].Lat)
		}
		if math.Abs(decoded[i].Lng-coords[i].Lng) > 1e-5 {
			t.Errorf("coord %d lng: got %f, want %f", i, decoded[i].Lng, coords[i].Lng)
		}
	}
}

func TestEncode_Empty(t *testing.T) {
	if got := Encode(nil); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
	if got := Decode(""); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestLength(t *testing.T) {
	// Roughly one degree of latitude, ~111 km.
	coords := []Coordinate{
		{Lat: 52.0, Lng: 4.9},
		{Lat: 53.0, Lng: 4.9},
	}

	length := Length(coords)
	if length < 110000 || length > 112500 {
		t.Errorf("expected ~111km, got %f meters", length)
	}

	if Length(coords[:1]) != 0 {
		t.Error("expected zero length for a single point")
	}
}

package core

import (
	"math"
	"strconv"
	"strings"
	"testing"
)

func TestHexColorRoundTrip(t *testing.T) {
	cases := []string{"#000000", "#ffffff", "#ff0000", "#336699", "a0a0a0"}
	for _, hex := range cases {
		c, err := HexColor(hex)
		if err != nil {
			t.Fatalf("HexColor(%q): %v", hex, err)
		}
		bytes := ColorBytes(c)

		v, err := strconv.ParseUint(strings.TrimPrefix(hex, "#"), 16, 32)
		if err != nil {
			t.Fatalf("parse digits of %q: %v", hex, err)
		}
		want := [3]byte{byte(v >> 16), byte(v >> 8), byte(v)}
		for i := range bytes {
			if diff := int(bytes[i]) - int(want[i]); diff < -1 || diff > 1 {
				t.Errorf("%s channel %d: round trip diverged by %d", hex, i, diff)
			}
		}
	}
}

func TestColorBytesClamps(t *testing.T) {
	bytes := ColorBytes(NewVec3(2, -1, 0.5))
	if bytes[0] != 255 {
		t.Errorf("expected clamped channel to saturate at 255, got %d", bytes[0])
	}
	if bytes[1] != 0 {
		t.Errorf("expected clamped negative channel to floor at 0, got %d", bytes[1])
	}
}

func TestHexColorInvalid(t *testing.T) {
	if _, err := HexColor("#zzzzzz"); err == nil {
		t.Error("expected error for invalid hex digits")
	}
	if _, err := HexColor("#fff"); err == nil {
		t.Error("expected error for short hex string")
	}
}

func TestGammaCorrectRoundTrip(t *testing.T) {
	v := NewVec3(0.2, 0.5, 0.8)
	encoded := v.GammaCorrect(SRGBGamma)
	decoded := encoded.GammaCorrect(1.0 / SRGBGamma)
	if math.Abs(decoded.X-v.X) > 1e-9 || math.Abs(decoded.Y-v.Y) > 1e-9 || math.Abs(decoded.Z-v.Z) > 1e-9 {
		t.Errorf("gamma round trip: got %v, want %v", decoded, v)
	}
}

package generator

import (
	"math"
	"math/rand/v2"
	"strings"
	"testing"
)

func TestNext_Ranges(t *testing.T) {
	g := New(rand.NewPCG(1, 2))
	for i := 0; i < 1000; i++ {
		r := g.Next()
		if r.TemperatureC < temperatureMin || r.TemperatureC > temperatureMax {
			t.Fatalf("temperature %v outside [%v, %v]", r.TemperatureC, temperatureMin, temperatureMax)
		}
		if r.HumidityPercent < humidityMin || r.HumidityPercent > humidityMax {
			t.Fatalf("humidity %v outside [%v, %v]", r.HumidityPercent, humidityMin, humidityMax)
		}
		if r.WindSpeedMS == nil {
			t.Fatal("wind speed not set")
		}
		if *r.WindSpeedMS < windSpeedMin || *r.WindSpeedMS > windSpeedMax {
			t.Fatalf("wind speed %v outside [%v, %v]", *r.WindSpeedMS, windSpeedMin, windSpeedMax)
		}
		if r.Timestamp.IsZero() {
			t.Fatal("timestamp not set")
		}
	}
}

func TestNext_StationPool(t *testing.T) {
	g := New(rand.NewPCG(3, 4))
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		r := g.Next()
		if !strings.HasPrefix(r.StationID, "station_") {
			t.Fatalf("station id %q has unexpected shape", r.StationID)
		}
		seen[r.StationID] = true
	}
	if len(seen) != stationPoolSize {
		t.Errorf("stations seen: got %d distinct (%v), want %d", len(seen), seen, stationPoolSize)
	}
}

func TestNext_Rounding(t *testing.T) {
	g := New(rand.NewPCG(5, 6))
	for i := 0; i < 100; i++ {
		r := g.Next()
		if got := math.Round(r.TemperatureC*100) / 100; got != r.TemperatureC {
			t.Fatalf("temperature %v not rounded to 2 decimals", r.TemperatureC)
		}
		if got := math.Round(r.HumidityPercent*100) / 100; got != r.HumidityPercent {
			t.Fatalf("humidity %v not rounded to 2 decimals", r.HumidityPercent)
		}
		if got := math.Round(*r.WindSpeedMS*1000) / 1000; got != *r.WindSpeedMS {
			t.Fatalf("wind speed %v not rounded to 3 decimals", *r.WindSpeedMS)
		}
	}
}

package types

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDecodePayload_Object(t *testing.T) {
	p, err := DecodePayload([]byte(`{"station_id":"station_1","temperature_c":22.5,"wind_speed_ms":null}`))
	if err != nil {
		t.Fatalf("DecodePayload: %v", err)
	}
	if !p.Has("station_id") {
		t.Error("station_id should be present")
	}
	if s, ok := p.String("station_id"); !ok || s != "station_1" {
		t.Errorf("String(station_id): got %q, %v", s, ok)
	}
	if v, ok := p.Number("temperature_c"); !ok || v != 22.5 {
		t.Errorf("Number(temperature_c): got %v, %v", v, ok)
	}
	// Null keys count as present but fail typed access.
	if !p.Has("wind_speed_ms") {
		t.Error("null wind_speed_ms should still be present")
	}
	if _, ok := p.Number("wind_speed_ms"); ok {
		t.Error("Number(wind_speed_ms) on null should report false")
	}
	if _, ok := p.Number("missing"); ok {
		t.Error("Number(missing) should report false")
	}
}

func TestDecodePayload_Rejects(t *testing.T) {
	for _, body := range []string{`not json`, `[1,2,3]`, `"string"`, `42`, `null`, ``} {
		if _, err := DecodePayload([]byte(body)); err == nil {
			t.Errorf("DecodePayload(%q): expected error", body)
		}
	}
}

func TestReading_WireFormat(t *testing.T) {
	wind := 3.2
	r := Reading{
		StationID:       "station_1",
		Timestamp:       time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		TemperatureC:    22.5,
		HumidityPercent: 55.0,
		WindSpeedMS:     &wind,
	}
	body, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	p, err := DecodePayload(body)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s, _ := p.String("station_id"); s != "station_1" {
		t.Errorf("station_id: got %q", s)
	}
	if ts, ok := p.String("timestamp"); !ok {
		t.Error("timestamp should serialize as a string")
	} else if _, err := time.Parse(time.RFC3339, ts); err != nil {
		t.Errorf("timestamp %q not ISO-8601: %v", ts, err)
	}
	if v, _ := p.Number("wind_speed_ms"); v != 3.2 {
		t.Errorf("wind_speed_ms: got %v", v)
	}
}

func TestReading_OmitsAbsentWind(t *testing.T) {
	body, err := json.Marshal(Reading{StationID: "s", Timestamp: time.Now()})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	p, err := DecodePayload(body)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.Has("wind_speed_ms") {
		t.Error("absent wind speed should be omitted from the wire payload")
	}
}

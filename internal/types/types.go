package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// Reading is the wire payload published for a single weather-station sample.
type Reading struct {
	StationID       string    `json:"station_id"`
	Timestamp       time.Time `json:"timestamp"`
	TemperatureC    float64   `json:"temperature_c"`
	HumidityPercent float64   `json:"humidity_percent"`
	WindSpeedMS     *float64  `json:"wind_speed_ms,omitempty"`
}

// Record is one audit-trail row. Every decoded message yields exactly one
// Record, valid or not; numeric fields stay nil when the payload lacked them
// or carried the wrong type, with the verbatim body kept in RawPayload.
type Record struct {
	StationID       *string
	Timestamp       time.Time
	TemperatureC    *float64
	HumidityPercent *float64
	WindSpeedMS     *float64
	RawPayload      []byte
	Status          string
}

// Payload is a decoded message body before validation. Values keep their JSON
// types (numbers as float64), so the validator can tell missing from
// mistyped fields.
type Payload map[string]any

// DecodePayload parses a message body into a Payload. A body that is not a
// JSON object fails here and never reaches validation.
func DecodePayload(body []byte) (Payload, error) {
	var p Payload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	// A JSON null unmarshals into a nil map without error.
	if p == nil {
		return nil, fmt.Errorf("decode payload: body is not a JSON object")
	}
	return p, nil
}

// Has reports whether the key exists, even with a null value.
func (p Payload) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// Number returns the value for key if it is present and numeric.
func (p Payload) Number(key string) (float64, bool) {
	v, ok := p[key].(float64)
	return v, ok
}

// String returns the value for key if it is present and a string.
func (p Payload) String(key string) (string, bool) {
	v, ok := p[key].(string)
	return v, ok
}

// Package validate classifies decoded weather payloads. Check is a pure
// function: rules run in a fixed order and the first violation decides the
// single reported outcome.
package validate

import (
	"fmt"

	"github.com/CristianB27/weather-logs/internal/types"
)

type Status string

const (
	StatusOK          Status = "ok"
	StatusInvalid     Status = "invalid"      // required field missing
	StatusInvalidType Status = "invalid_type" // field present with wrong type
	StatusOutOfRange  Status = "out_of_range" // numeric bound violated
)

const (
	TemperatureMin = -100.0
	TemperatureMax = 100.0
	HumidityMin    = 0.0
	HumidityMax    = 100.0
)

type Outcome struct {
	Accepted bool
	Status   Status
	Reason   string
}

var requiredKeys = []string{"station_id", "temperature_c", "humidity_percent"}

// Check validates a decoded payload. A key present with a null value counts
// as present for the required-keys rule but fails the type rule, except
// wind_speed_ms where null is treated like an absent optional field.
func Check(p types.Payload) Outcome {
	for _, key := range requiredKeys {
		if !p.Has(key) {
			return reject(StatusInvalid, "missing "+key)
		}
	}

	temp, ok := p.Number("temperature_c")
	if !ok {
		return reject(StatusInvalidType, "temperature_c is not numeric")
	}
	if temp < TemperatureMin || temp > TemperatureMax {
		return reject(StatusOutOfRange,
			fmt.Sprintf("temperature_c %v out of range [%v, %v]", temp, TemperatureMin, TemperatureMax))
	}

	humidity, ok := p.Number("humidity_percent")
	if !ok {
		return reject(StatusInvalidType, "humidity_percent is not numeric")
	}
	if humidity < HumidityMin || humidity > HumidityMax {
		return reject(StatusOutOfRange,
			fmt.Sprintf("humidity_percent %v out of range [%v, %v]", humidity, HumidityMin, HumidityMax))
	}

	if v, present := p["wind_speed_ms"]; present && v != nil {
		wind, ok := p.Number("wind_speed_ms")
		if !ok {
			return reject(StatusInvalidType, "wind_speed_ms is not numeric")
		}
		if wind < 0 {
			return reject(StatusOutOfRange,
				fmt.Sprintf("wind_speed_ms %v out of range [0, +inf)", wind))
		}
	}

	return Outcome{Accepted: true, Status: StatusOK}
}

func reject(status Status, reason string) Outcome {
	return Outcome{Accepted: false, Status: status, Reason: reason}
}

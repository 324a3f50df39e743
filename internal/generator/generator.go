// Package generator produces synthetic weather readings for the producer
// process, standing in for real station hardware.
package generator

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/CristianB27/weather-logs/internal/types"
)

const stationPoolSize = 5

// Ranges sampled uniformly per reading.
const (
	temperatureMin = -10.0
	temperatureMax = 40.0
	humidityMin    = 20.0
	humidityMax    = 95.0
	windSpeedMin   = 0.0
	windSpeedMax   = 25.0
)

type Generator struct {
	rng *rand.Rand
	now func() time.Time
}

func New(src rand.Source) *Generator {
	return &Generator{
		rng: rand.New(src),
		now: time.Now,
	}
}

// Next returns one synthetic reading. Fields are sampled independently;
// temperature and humidity round to 2 decimals, wind speed to 3.
func (g *Generator) Next() types.Reading {
	wind := round(g.uniform(windSpeedMin, windSpeedMax), 3)
	return types.Reading{
		StationID:       fmt.Sprintf("station_%d", g.rng.IntN(stationPoolSize)+1),
		Timestamp:       g.now().UTC(),
		TemperatureC:    round(g.uniform(temperatureMin, temperatureMax), 2),
		HumidityPercent: round(g.uniform(humidityMin, humidityMax), 2),
		WindSpeedMS:     &wind,
	}
}

func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

func round(v float64, decimals int) float64 {
	scale := math.Pow10(decimals)
	return math.Round(v*scale) / scale
}

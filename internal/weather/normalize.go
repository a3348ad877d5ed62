package weather

import "math"

var windRose = [8]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// windDirection maps a degree bearing onto the 8-point compass rose by
// 45-degree sectors centered on each point.
func windDirection(degrees float64) string {
	idx := int(math.Round(degrees/45)) % 8
	if idx < 0 {
		idx += 8
	}
	return windRose[idx]
}

// iconForCode buckets OpenWeatherMap condition codes into Font Awesome icon
// classes the client knows how to render.
func iconForCode(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "fa-bolt" // thunderstorm
	case code >= 300 && code < 400:
		return "fa-cloud-rain" // drizzle
	case code >= 500 && code < 600:
		return "fa-cloud-showers-heavy" // rain
	case code >= 600 && code < 700:
		return "fa-snowflake" // snow
	case code >= 700 && code < 800:
		return "fa-smog" // atmosphere (fog, etc)
	case code == 800:
		return "fa-sun" // clear sky
	case code > 800:
		return "fa-cloud-sun" // clouds
	default:
		return "fa-cloud"
	}
}

// Normalize converts a raw provider observation into the client-facing shape.
//
// Precipitation multiplies the last hour's rainfall in millimeters by 100,
// which conflates a depth with a percentage. The behavior is kept as-is; it is
// pinned by a test so changing it is a deliberate act.
func Normalize(obs Observation) Data {
	precip := 0.0
	if obs.RainOneHourMM > 0 {
		precip = obs.RainOneHourMM * 100
	}

	return Data{
		Temperature:   int(math.Round(obs.TemperatureF)),
		Condition:     obs.Condition,
		Humidity:      obs.Humidity,
		WindSpeed:     int(math.Round(obs.WindSpeedMPH)),
		WindDirection: windDirection(obs.WindDeg),
		Precipitation: precip,
		Icon:          iconForCode(obs.ConditionCode),
	}
}

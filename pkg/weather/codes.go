package weather

import "fmt"

// WMO weather interpretation codes, as published by Open-Meteo.
var wmoCodes = map[int]string{
	0:  "clear",
	1:  "mostly clear",
	2:  "partly cloudy",
	3:  "overcast",
	45: "fog",
	48: "rime fog / freezing fog",
	51: "light drizzle",
	53: "drizzle",
	55: "heavy drizzle",
	56: "light freezing drizzle",
	57: "freezing drizzle",
	61: "light rain",
	63: "rain",
	65: "heavy rain",
	66: "light freezing rain",
	67: "freezing rain",
	71: "light snow",
	73: "snow",
	75: "heavy snow",
	77: "snow grains",
	80: "light showers",
	81: "showers",
	82: "heavy showers",
	85: "light snow showers",
	86: "snow showers",
	95: "thunderstorm",
	96: "thunderstorm with hail",
	99: "severe thunderstorm with hail",
}

// CodeText maps a WMO code to a short description.
func CodeText(code *int) string {
	if code == nil {
		return "unknown"
	}
	if text, ok := wmoCodes[*code]; ok {
		return text
	}
	return fmt.Sprintf("code %d", *code)
}

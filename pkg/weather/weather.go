package weather

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// NetworkError marks failures of the external weather service so the
// dispatcher can report them as a category instead of a generic defect.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("weather %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

const (
	defaultGeocodeURL  = "https://geocoding-api.open-meteo.com/v1/search"
	defaultForecastURL = "https://api.open-meteo.com/v1/forecast"
)

// Client looks up current conditions via Open-Meteo: one geocoding call
// to turn a place name into coordinates, one forecast call for the
// current block. No API key needed.
type Client struct {
	rest         *resty.Client
	geocodeURL   string
	forecastURL  string
	units        string
	lang         string
	defaultPlace string
}

func NewClient(units, lang, defaultPlace string) *Client {
	return &Client{
		rest:         resty.New().SetTimeout(10 * time.Second),
		geocodeURL:   defaultGeocodeURL,
		forecastURL:  defaultForecastURL,
		units:        units,
		lang:         lang,
		defaultPlace: defaultPlace,
	}
}

// SetBaseURLs redirects both endpoints, for tests.
func (c *Client) SetBaseURLs(geocode, forecast string) {
	c.geocodeURL = geocode
	c.forecastURL = forecast
}

func (c *Client) DefaultPlace() string { return c.defaultPlace }

type geocodeResponse struct {
	Results []struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Name      string  `json:"name"`
		Country   string  `json:"country"`
	} `json:"results"`
}

type forecastResponse struct {
	Current struct {
		Temperature         *float64 `json:"temperature_2m"`
		ApparentTemperature *float64 `json:"apparent_temperature"`
		WindSpeed           *float64 `json:"wind_speed_10m"`
		WeatherCode         *int     `json:"weather_code"`
	} `json:"current"`
}

// Current returns a one-line report for place. An unknown place is a
// normal reply, not an error; transport and status failures come back as
// *NetworkError.
func (c *Client) Current(ctx context.Context, place string) (string, error) {
	place = strings.TrimSpace(place)
	if place == "" {
		place = c.defaultPlace
	}

	var geo geocodeResponse
	resp, err := c.rest.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"name":     place,
			"count":    "1",
			"language": c.lang,
			"format":   "json",
		}).
		SetResult(&geo).
		Get(c.geocodeURL)
	if err != nil {
		return "", &NetworkError{Op: "geocode", Err: err}
	}
	if resp.IsError() {
		return "", &NetworkError{Op: "geocode", Err: fmt.Errorf("status %d", resp.StatusCode())}
	}
	if len(geo.Results) == 0 {
		return fmt.Sprintf("❌ Location not found: %s", place), nil
	}

	loc := geo.Results[0]

	params := map[string]string{
		"latitude":  fmt.Sprintf("%g", loc.Latitude),
		"longitude": fmt.Sprintf("%g", loc.Longitude),
		"current":   "temperature_2m,apparent_temperature,wind_speed_10m,weather_code",
	}
	tempUnit, windUnit := "°C", "km/h"
	if c.units == "imperial" {
		params["temperature_unit"] = "fahrenheit"
		params["wind_speed_unit"] = "mph"
		tempUnit, windUnit = "°F", "mph"
	} else {
		params["temperature_unit"] = "celsius"
		params["wind_speed_unit"] = "kmh"
	}

	var fc forecastResponse
	resp, err = c.rest.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&fc).
		Get(c.forecastURL)
	if err != nil {
		return "", &NetworkError{Op: "forecast", Err: err}
	}
	if resp.IsError() {
		return "", &NetworkError{Op: "forecast", Err: fmt.Errorf("status %d", resp.StatusCode())}
	}

	name := loc.Name
	if name == "" {
		name = place
	}
	if loc.Country != "" {
		name += ", " + loc.Country
	}

	cur := fc.Current
	return fmt.Sprintf("🌦️ %s: %s%s (feels like %s%s), %s, wind %s %s",
		name,
		fmtValue(cur.Temperature), tempUnit,
		fmtValue(cur.ApparentTemperature), tempUnit,
		CodeText(cur.WeatherCode),
		fmtValue(cur.WindSpeed), windUnit,
	), nil
}

func fmtValue(v *float64) string {
	if v == nil {
		return "?"
	}
	return fmt.Sprintf("%g", *v)
}

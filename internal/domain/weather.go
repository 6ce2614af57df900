package domain

import (
	"fmt"
	"strings"
	"time"
)

// Units is the temperature unit preference of a lookup
type Units int

const (
	Celsius Units = iota
	Fahrenheit
)

// Symbol returns the display suffix for the unit
func (u Units) Symbol() string {
	if u == Fahrenheit {
		return "°F"
	}
	return "°C"
}

// Toggle returns the other unit
func (u Units) Toggle() Units {
	if u == Fahrenheit {
		return Celsius
	}
	return Fahrenheit
}

func (u Units) String() string {
	if u == Fahrenheit {
		return "fahrenheit"
	}
	return "celsius"
}

// MarshalText lets Units appear as "celsius"/"fahrenheit" in JSON
func (u Units) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

func (u *Units) UnmarshalText(text []byte) error {
	parsed, err := ParseUnits(string(text))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

// ParseUnits accepts the short, long and provider spellings of a unit
func ParseUnits(s string) (Units, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "c", "celsius", "metric":
		return Celsius, nil
	case "f", "fahrenheit", "imperial":
		return Fahrenheit, nil
	}
	return Celsius, fmt.Errorf("unknown units %q", s)
}

// WeatherQuery is a single user request
type WeatherQuery struct {
	City  string `json:"city"`
	Units Units  `json:"units"`
}

// WeatherReading is the validated subset of a provider payload
type WeatherReading struct {
	CityName             string
	CountryCode          string
	TemperatureKelvin    float64
	FeelsLikeKelvin      float64
	HumidityPercent      int
	WindSpeed            float64 // m/s
	WindSpeedText        string  // provider literal, e.g. "3.5"
	ConditionCode        int
	ConditionDescription string
}

// DisplayResult is everything the presentation shell renders.
// Message is set only on the error variant.
type DisplayResult struct {
	Emoji           string `json:"emoji"`
	LocationLine    string `json:"location_line"`
	TemperatureLine string `json:"temperature_line"`
	DescriptionLine string `json:"description_line"`
	ExtraLine       string `json:"extra_line"`
	Message         string `json:"message,omitempty"`
}

// IsError reports whether this is the error variant
func (d DisplayResult) IsError() bool {
	return d.Message != ""
}

// LookupRecord is one logged lookup outcome
type LookupRecord struct {
	ID        string    `json:"id"`
	City      string    `json:"city"`
	Units     Units     `json:"units"`
	Success   bool      `json:"success"`
	ErrorKind string    `json:"error_kind,omitempty"`
	Display   string    `json:"display"`
	Timestamp time.Time `json:"timestamp"`
}

// WeatherResponse wraps a display result with metadata
type WeatherResponse struct {
	Data    DisplayResult `json:"data"`
	Units   Units         `json:"units"`
	Success bool          `json:"success"`
	Message string        `json:"message,omitempty"`
}

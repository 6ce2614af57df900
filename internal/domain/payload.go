package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// StatusCode is the provider's "cod" field, sent as either a number or a
// numeric string depending on the endpoint and outcome.
type StatusCode int

func (c *StatusCode) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("cod %q is not numeric", s)
		}
		*c = StatusCode(n)
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*c = StatusCode(n)
	return nil
}

// Number is a JSON number kept as the provider's literal text. Unlike
// json.Number it refuses quoted strings.
type Number string

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] == '"' {
		return fmt.Errorf("expected a JSON number, got %s", data)
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*n = Number(data)
	return nil
}

// Float64 returns the number as a float64
func (n Number) Float64() (float64, error) {
	return strconv.ParseFloat(string(n), 64)
}

func (n Number) String() string {
	return string(n)
}

// RawPayload is the OpenWeatherMap current-weather response.
// Pointer fields stay nil when the provider omits them.
type RawPayload struct {
	Cod     *StatusCode `json:"cod"`
	Message string      `json:"message,omitempty"`
	Name    *string     `json:"name"`
	Sys     *struct {
		Country *string `json:"country"`
	} `json:"sys"`
	Main *struct {
		Temp      *float64 `json:"temp"`
		FeelsLike *float64 `json:"feels_like"`
		Humidity  *int     `json:"humidity"`
	} `json:"main"`
	Wind *struct {
		Speed *Number `json:"speed"`
	} `json:"wind"`
	Weather []struct {
		ID          *int    `json:"id"`
		Description *string `json:"description"`
	} `json:"weather"`
}

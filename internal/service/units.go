package service

import (
	"github.com/citysky/weather/internal/domain"
	"github.com/citysky/weather/pkg/utils"
)

const (
	kelvinBase           = 273.15
	fahrenheitMultiplier = 9.0 / 5.0
	fahrenheitBase       = 32
)

// CelsiusOf converts Kelvin to whole degrees Celsius
func CelsiusOf(kelvin float64) int {
	return utils.RoundHalfEven(kelvin - kelvinBase)
}

// FahrenheitOf converts Kelvin to whole degrees Fahrenheit
func FahrenheitOf(kelvin float64) int {
	return utils.RoundHalfEven((kelvin-kelvinBase)*fahrenheitMultiplier + fahrenheitBase)
}

// CelsiusToFahrenheit converts whole degrees, rounding the result
func CelsiusToFahrenheit(celsius int) int {
	return utils.RoundHalfEven(float64(celsius)*fahrenheitMultiplier + fahrenheitBase)
}

// ConvertKelvin converts to the requested display unit
func ConvertKelvin(kelvin float64, units domain.Units) int {
	if units == domain.Fahrenheit {
		return FahrenheitOf(kelvin)
	}
	return CelsiusOf(kelvin)
}

package service

import (
	"errors"
	"fmt"

	"github.com/citysky/weather/internal/domain"
	"github.com/citysky/weather/pkg/utils"
)

func malformed(format string, args ...any) error {
	return domain.NewFetchError(domain.KindMalformedPayload, 0, fmt.Errorf(format, args...))
}

// Parse validates payload and extracts a WeatherReading.
// Missing or out-of-range fields are never defaulted.
func Parse(payload domain.RawPayload) (domain.WeatherReading, error) {
	var r domain.WeatherReading

	if payload.Name == nil {
		return r, malformed("missing name")
	}
	if payload.Sys == nil || payload.Sys.Country == nil {
		return r, malformed("missing sys.country")
	}
	if payload.Main == nil {
		return r, malformed("missing main")
	}
	if payload.Main.Temp == nil {
		return r, malformed("missing main.temp")
	}
	if payload.Main.FeelsLike == nil {
		return r, malformed("missing main.feels_like")
	}
	if payload.Main.Humidity == nil {
		return r, malformed("missing main.humidity")
	}
	if h := *payload.Main.Humidity; h < 0 || h > 100 {
		return r, malformed("humidity %d out of range", h)
	}
	if payload.Wind == nil || payload.Wind.Speed == nil {
		return r, malformed("missing wind.speed")
	}
	speed, err := payload.Wind.Speed.Float64()
	if err != nil {
		return r, malformed("wind.speed: %v", err)
	}
	if speed < 0 {
		return r, malformed("negative wind speed %v", speed)
	}
	if len(payload.Weather) == 0 {
		return r, malformed("empty weather list")
	}
	cond := payload.Weather[0]
	if cond.ID == nil {
		return r, malformed("missing weather[0].id")
	}
	if cond.Description == nil {
		return r, malformed("missing weather[0].description")
	}

	return domain.WeatherReading{
		CityName:             *payload.Name,
		CountryCode:          *payload.Sys.Country,
		TemperatureKelvin:    *payload.Main.Temp,
		FeelsLikeKelvin:      *payload.Main.FeelsLike,
		HumidityPercent:      *payload.Main.Humidity,
		WindSpeed:            speed,
		WindSpeedText:        payload.Wind.Speed.String(),
		ConditionCode:        *cond.ID,
		ConditionDescription: *cond.Description,
	}, nil
}

// FormatReading renders an already validated reading
func FormatReading(r domain.WeatherReading, units domain.Units) domain.DisplayResult {
	sym := units.Symbol()
	return domain.DisplayResult{
		Emoji:           EmojiFor(r.ConditionCode),
		LocationLine:    fmt.Sprintf("%s, %s", r.CityName, r.CountryCode),
		TemperatureLine: fmt.Sprintf("%d%s", ConvertKelvin(r.TemperatureKelvin, units), sym),
		DescriptionLine: utils.CapitalizeFirst(r.ConditionDescription),
		ExtraLine: fmt.Sprintf("Feels like: %d%s | Humidity: %d%% | Wind: %s m/s",
			ConvertKelvin(r.FeelsLikeKelvin, units), sym, r.HumidityPercent, r.WindSpeedText),
	}
}

// Format turns a fetched payload into display lines
func Format(payload domain.RawPayload, units domain.Units) (domain.DisplayResult, error) {
	r, err := Parse(payload)
	if err != nil {
		return domain.DisplayResult{}, err
	}
	return FormatReading(r, units), nil
}

// ErrorDisplay is the inert display shown after any failed lookup: warning
// emoji, blank lines, and the message in the description slot.
func ErrorDisplay(err error) domain.DisplayResult {
	msg := domain.UserMessage(err)
	return domain.DisplayResult{
		Emoji:           EmojiWarning,
		DescriptionLine: msg,
		Message:         msg,
	}
}

// isFetchError reports whether err came from the lookup path
func isFetchError(err error) bool {
	var fe *domain.FetchError
	return errors.As(err, &fe)
}

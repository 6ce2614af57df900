package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/citysky/weather/internal/domain"
)

const (
	DefaultBaseURL = "https://api.openweathermap.org/data/2.5/weather"
	DefaultTimeout = 10 * time.Second

	providerSuccess = 200

	tracerName = "github.com/citysky/weather/internal/service"
)

// WeatherService fetches current conditions from OpenWeatherMap
type WeatherService struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	tracer     trace.Tracer
}

// NewWeatherService creates a new weather service. An empty baseURL or a
// non-positive timeout falls back to the defaults.
func NewWeatherService(apiKey, baseURL string, timeout time.Duration) *WeatherService {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	s := &WeatherService{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
	s.SetTracerProvider(otel.GetTracerProvider())
	return s
}

// SetTracerProvider routes the fetch span and the outgoing HTTP client span
// to tp. The default is the global provider.
func (s *WeatherService) SetTracerProvider(tp trace.TracerProvider) {
	s.tracer = tp.Tracer(tracerName)
	s.httpClient.Transport = otelhttp.NewTransport(http.DefaultTransport, otelhttp.WithTracerProvider(tp))
}

// requestURL builds <base>?q=<city>&appid=<key>
func (s *WeatherService) requestURL(city string) (string, error) {
	u, err := url.Parse(s.baseURL)
	if err != nil {
		return "", fmt.Errorf("weather: invalid base url: %w", err)
	}
	q := u.Query()
	q.Set("q", city)
	q.Set("appid", s.apiKey)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Fetch performs one blocking lookup for city. Every failure is a
// *domain.FetchError; blank input fails before any network I/O.
func (s *WeatherService) Fetch(ctx context.Context, city string) (domain.RawPayload, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return domain.RawPayload{}, domain.NewFetchError(domain.KindEmptyInput, 0, nil)
	}

	ctx, span := s.tracer.Start(ctx, "weather: fetch current conditions")
	defer span.End()
	span.SetAttributes(attribute.String("city", city))

	fail := func(kind domain.ErrorKind, status int, err error) (domain.RawPayload, error) {
		fe := domain.NewFetchError(kind, status, err)
		span.RecordError(fe)
		span.SetStatus(codes.Error, kind.String())
		return domain.RawPayload{}, fe
	}

	reqURL, err := s.requestURL(city)
	if err != nil {
		return fail(domain.KindTransport, 0, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fail(domain.KindTransport, 0, fmt.Errorf("failed to create request: %w", err))
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fail(domain.KindTransport, 0, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fail(domain.KindTransport, 0, fmt.Errorf("failed to read response body: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return fail(domain.KindHTTPStatus, resp.StatusCode, fmt.Errorf("provider returned %s", resp.Status))
	}

	var payload domain.RawPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return fail(domain.KindMalformedPayload, 0, fmt.Errorf("failed to decode response: %w", err))
	}

	if payload.Cod == nil {
		return fail(domain.KindMalformedPayload, 0, fmt.Errorf("response has no cod field"))
	}
	if int(*payload.Cod) != providerSuccess {
		return fail(domain.KindProviderFailure, int(*payload.Cod), fmt.Errorf("provider reported %q", payload.Message))
	}

	span.SetStatus(codes.Ok, "")
	return payload, nil
}

package http

import (
	"encoding/json"
	"io"
	"net"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/citysky/weather/internal/domain"
	"github.com/citysky/weather/internal/repository/postgres"
	"github.com/citysky/weather/internal/service"
)

const parisJSON = `{"cod":200,"name":"Paris","sys":{"country":"FR"},
	"main":{"temp":288.15,"feels_like":287.15,"humidity":72},
	"wind":{"speed":4.1},"weather":[{"id":500,"description":"light rain"}]}`

func newTestApp(t *testing.T) (*fiber.App, *service.Session) {
	t.Helper()

	provider := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.URL.Query().Get("q") != "Paris" {
			w.WriteHeader(nethttp.StatusNotFound)
			w.Write([]byte(`{"cod":"404","message":"city not found"}`))
			return
		}
		w.Write([]byte(parisJSON))
	}))
	t.Cleanup(provider.Close)

	repo := postgres.NewMockRepository()
	session := service.NewSession(service.NewWeatherService("key", provider.URL, time.Second), repo)

	app := fiber.New()
	SetupRoutes(app, session, repo)
	return app, session
}

func doRequest(t *testing.T, app *fiber.App, method, target string, out any) int {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest(method, target, nil), 5000)
	if err != nil {
		t.Fatalf("Request %s %s failed: %v", method, target, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read body: %v", err)
	}
	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			t.Fatalf("Failed to decode %s: %v", body, err)
		}
	}
	return resp.StatusCode
}

type weatherBody struct {
	Data    domain.DisplayResult `json:"data"`
	Units   string               `json:"units"`
	Success bool                 `json:"success"`
}

func TestGetWeather(t *testing.T) {
	app, _ := newTestApp(t)

	var body weatherBody
	code := doRequest(t, app, nethttp.MethodGet, "/api/v1/weather?city=Paris", &body)
	if code != nethttp.StatusOK {
		t.Fatalf("Expected 200, got %d", code)
	}
	if !body.Success {
		t.Error("Expected success")
	}
	if body.Units != "celsius" {
		t.Errorf("Expected celsius, got %s", body.Units)
	}

	expected := domain.DisplayResult{
		Emoji:           service.EmojiRain,
		LocationLine:    "Paris, FR",
		TemperatureLine: "15°C",
		DescriptionLine: "Light rain",
		ExtraLine:       "Feels like: 14°C | Humidity: 72% | Wind: 4.1 m/s",
	}
	if body.Data != expected {
		t.Errorf("Expected %+v, got %+v", expected, body.Data)
	}
}

func TestGetWeatherWithUnits(t *testing.T) {
	app, session := newTestApp(t)

	var body weatherBody
	doRequest(t, app, nethttp.MethodGet, "/api/v1/weather?city=Paris&units=f", &body)
	if body.Data.TemperatureLine != "59°F" {
		t.Errorf("Expected 59°F, got %s", body.Data.TemperatureLine)
	}
	if session.Snapshot().Units != domain.Fahrenheit {
		t.Error("Units query should update the session preference")
	}

	code := doRequest(t, app, nethttp.MethodGet, "/api/v1/weather?city=Paris&units=kelvin", nil)
	if code != nethttp.StatusBadRequest {
		t.Errorf("Expected 400 for bad units, got %d", code)
	}
}

func TestGetWeatherFailuresStayUsable(t *testing.T) {
	app, _ := newTestApp(t)

	tests := []struct {
		name    string
		target  string
		message string
	}{
		{"Empty city", "/api/v1/weather?city=%20%20", domain.MessageEmptyInput},
		{"Missing city", "/api/v1/weather", domain.MessageEmptyInput},
		{"Unknown city", "/api/v1/weather?city=Atlantis", domain.MessageLookupFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body weatherBody
			code := doRequest(t, app, nethttp.MethodGet, tt.target, &body)
			if code != nethttp.StatusOK {
				t.Errorf("Expected 200, got %d", code)
			}
			if body.Success {
				t.Error("Expected success=false")
			}
			if body.Data.Message != tt.message {
				t.Errorf("Expected message %q, got %q", tt.message, body.Data.Message)
			}
			if body.Data.Emoji != service.EmojiWarning {
				t.Errorf("Expected warning emoji, got %q", body.Data.Emoji)
			}
		})
	}
}

func TestToggleUnits(t *testing.T) {
	app, _ := newTestApp(t)

	doRequest(t, app, nethttp.MethodGet, "/api/v1/weather?city=Paris", nil)

	var body weatherBody
	doRequest(t, app, nethttp.MethodPost, "/api/v1/units/toggle", &body)
	if body.Units != "fahrenheit" || body.Data.TemperatureLine != "59°F" {
		t.Errorf("Unexpected toggle result: %+v", body)
	}

	var state struct {
		Units   string               `json:"units"`
		City    string               `json:"city"`
		Display domain.DisplayResult `json:"display"`
	}
	doRequest(t, app, nethttp.MethodGet, "/api/v1/session", &state)
	if state.Units != "fahrenheit" || state.City != "Paris" || state.Display.TemperatureLine != "59°F" {
		t.Errorf("Unexpected session state: %+v", state)
	}
}

func TestGetWeatherKeepsCityAcrossKeepAliveRequests(t *testing.T) {
	app, session := newTestApp(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}
	go app.Listener(ln)
	t.Cleanup(func() { app.Shutdown() })

	base := "http://" + ln.Addr().String()
	client := &nethttp.Client{
		Timeout:   5 * time.Second,
		Transport: &nethttp.Transport{MaxIdleConnsPerHost: 1},
	}
	t.Cleanup(client.CloseIdleConnections)
	get := func(target string) {
		t.Helper()
		resp, err := client.Get(base + target)
		if err != nil {
			t.Fatalf("GET %s failed: %v", target, err)
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}

	get("/api/v1/weather?city=Paris")
	for i := 0; i < 5; i++ {
		get("/api/v1/lookups?city=Oslo&limit=5")
	}
	session.WaitBackground()

	if city := session.Snapshot().City; city != "Paris" {
		t.Fatalf("Expected last city Paris, got %q", city)
	}

	resp, err := client.Post(base+"/api/v1/units/toggle", "application/json", nil)
	if err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	defer resp.Body.Close()

	var body weatherBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode toggle response: %v", err)
	}
	if !body.Success || body.Data.LocationLine != "Paris, FR" {
		t.Errorf("Expected toggle to re-fetch Paris, got %+v", body)
	}
	session.WaitBackground()

	var logged struct {
		Data []domain.LookupRecord `json:"data"`
	}
	if code := doRequest(t, app, nethttp.MethodGet, "/api/v1/lookups?limit=5", &logged); code != nethttp.StatusOK {
		t.Fatalf("Expected 200, got %d", code)
	}
	if len(logged.Data) != 2 {
		t.Fatalf("Expected 2 logged lookups, got %d", len(logged.Data))
	}
	for _, rec := range logged.Data {
		if rec.City != "Paris" {
			t.Errorf("Expected logged city Paris, got %q", rec.City)
		}
	}
}

func TestGetEmoji(t *testing.T) {
	app, _ := newTestApp(t)

	var body struct {
		Code  int    `json:"code"`
		Emoji string `json:"emoji"`
	}
	doRequest(t, app, nethttp.MethodGet, "/api/v1/emoji/781", &body)
	if body.Code != 781 || body.Emoji != service.EmojiTornado {
		t.Errorf("Unexpected emoji response: %+v", body)
	}

	doRequest(t, app, nethttp.MethodGet, "/api/v1/emoji/-5", &body)
	if body.Emoji != service.EmojiUnknown {
		t.Errorf("Expected fallback emoji, got %q", body.Emoji)
	}

	code := doRequest(t, app, nethttp.MethodGet, "/api/v1/emoji/abc", nil)
	if code != nethttp.StatusBadRequest {
		t.Errorf("Expected 400, got %d", code)
	}
}

func TestGetLookups(t *testing.T) {
	app, session := newTestApp(t)

	doRequest(t, app, nethttp.MethodGet, "/api/v1/weather?city=Paris", nil)
	session.WaitBackground()
	doRequest(t, app, nethttp.MethodGet, "/api/v1/weather?city=Atlantis", nil)
	session.WaitBackground()

	var body struct {
		Success bool                  `json:"success"`
		Count   int                   `json:"count"`
		Data    []domain.LookupRecord `json:"data"`
	}
	doRequest(t, app, nethttp.MethodGet, "/api/v1/lookups?limit=10", &body)
	if body.Count != 2 || len(body.Data) != 2 {
		t.Fatalf("Expected 2 lookups, got %d", body.Count)
	}
	if body.Data[0].City != "Atlantis" || body.Data[0].Success {
		t.Errorf("Expected newest failed Atlantis lookup first, got %+v", body.Data[0])
	}
}

func TestHealthCheck(t *testing.T) {
	app, _ := newTestApp(t)

	var body map[string]string
	code := doRequest(t, app, nethttp.MethodGet, "/health", &body)
	if code != nethttp.StatusOK || body["status"] != "ok" || body["storage"] != "ok" {
		t.Errorf("Unexpected health response %d: %v", code, body)
	}
}

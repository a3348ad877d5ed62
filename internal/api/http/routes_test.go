package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/agrichat/agrichat-api/internal/chat"
	"github.com/agrichat/agrichat-api/internal/chat/llm"
	"github.com/agrichat/agrichat-api/internal/store"
	"github.com/agrichat/agrichat-api/internal/weather"
)

type stubProvider struct {
	obs Observation
	err error
}

// Observation aliased for brevity in the stub literal.
type Observation = weather.Observation

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Fetch(_ context.Context, _ weather.Location) (weather.Observation, error) {
	if s.err != nil {
		return weather.Observation{}, s.err
	}
	return s.obs, nil
}

func newTestApp(mock *llm.MockClient, provider weather.Provider) *fiber.App {
	memStore := store.New()
	chatSvc := chat.NewService(mock, memStore, zerolog.Nop())
	weatherSvc := weather.NewService(memStore, provider, 30*time.Minute, zerolog.Nop())

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"message": err.Error()})
		},
	})
	RegisterRoutes(app, Deps{
		Chat:            chatSvc,
		Weather:         weatherSvc,
		DefaultLocation: weather.Location{Lat: "40.7128", Lon: "-74.0060"},
	})
	return app
}

func TestChatHistoryStartsWithWelcome(t *testing.T) {
	app := newTestApp(llm.NewMockClient(), &stubProvider{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/chat/history", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var msgs []chat.Message
	if err := json.NewDecoder(resp.Body).Decode(&msgs); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("expected exactly the welcome message, got %d messages", len(msgs))
	}
	if msgs[0].IsUser {
		t.Fatalf("welcome message must be assistant-authored")
	}
}

func TestPostChatMessageExchange(t *testing.T) {
	mock := llm.NewMockClient()
	mock.Reply = `{"message":"Plant tomatoes after the last frost.","knowledgeCards":[]}`
	app := newTestApp(mock, &stubProvider{})

	body := strings.NewReader(`{"content":"When should I plant tomatoes?"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/chat/message", body)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var out struct {
		UserMessage struct {
			ID      string `json:"id"`
			Content string `json:"content"`
			IsUser  bool   `json:"isUser"`
		} `json:"userMessage"`
		BotMessage struct {
			ID      string `json:"id"`
			Content string `json:"content"`
			IsUser  bool   `json:"isUser"`
		} `json:"botMessage"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if !out.UserMessage.IsUser || out.UserMessage.Content != "When should I plant tomatoes?" {
		t.Fatalf("unexpected user message: %+v", out.UserMessage)
	}
	if out.BotMessage.IsUser || out.BotMessage.Content != "Plant tomatoes after the last frost." {
		t.Fatalf("unexpected bot message: %+v", out.BotMessage)
	}
	if out.UserMessage.ID == "" || out.BotMessage.ID == "" {
		t.Fatalf("message ids must be rendered as strings")
	}

	// Both turns ended up in the history, user turn first.
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/chat/history", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var msgs []chat.Message
	if err := json.NewDecoder(resp.Body).Decode(&msgs); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("expected welcome + 2 new messages, got %d", len(msgs))
	}
	if !msgs[1].IsUser || msgs[2].IsUser {
		t.Fatalf("expected user then assistant, got %+v", msgs[1:])
	}
}

func TestPostChatMessageCarriesCards(t *testing.T) {
	mock := llm.NewMockClient()
	mock.Reply = `{"message":"Basil basics.","knowledgeCards":[{"title":"Light","content":[{"label":"Sun","value":"Full sun"}],"type":"table","icon":"fa-sun"}]}`
	app := newTestApp(mock, &stubProvider{})

	body := strings.NewReader(`{"content":"how do I grow basil"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/chat/message", body)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	raw, _ := io.ReadAll(resp.Body)
	payload := string(raw)
	for _, want := range []string{`"knowledgeCards"`, `"type":"table"`, `"label":"Sun"`, `"icon":"fa-sun"`} {
		if !strings.Contains(payload, want) {
			t.Fatalf("response missing %s: %s", want, payload)
		}
	}
}

func TestPostChatMessageValidation(t *testing.T) {
	app := newTestApp(llm.NewMockClient(), &stubProvider{})

	for _, body := range []string{`{}`, `{"content":""}`, `{"content":"   "}`} {
		req := httptest.NewRequest(http.MethodPost, "/api/chat/message", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("body %s: expected status %d, got %d", body, http.StatusBadRequest, resp.StatusCode)
		}

		var out map[string]string
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			t.Fatalf("decode error body: %v", err)
		}
		if out["message"] == "" {
			t.Fatalf("400 responses carry a user-readable message")
		}
	}
}

func TestChatClearReseedsWelcome(t *testing.T) {
	mock := llm.NewMockClient()
	app := newTestApp(mock, &stubProvider{})

	body := strings.NewReader(`{"content":"hello"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/chat/message", body)
	req.Header.Set("Content-Type", "application/json")
	if _, err := app.Test(req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/chat/clear", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, resp.StatusCode)
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/chat/history", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var msgs []chat.Message
	if err := json.NewDecoder(resp.Body).Decode(&msgs); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(msgs) != 1 || msgs[0].IsUser {
		t.Fatalf("expected a single assistant welcome message, got %+v", msgs)
	}
}

func TestWeatherEndpointNormalizedPayload(t *testing.T) {
	provider := &stubProvider{obs: Observation{
		TemperatureF:  71.6,
		Condition:     "Clear",
		ConditionCode: 800,
		Humidity:      60,
		WindSpeedMPH:  4.6,
		WindDeg:       46,
		RainOneHourMM: 0.5,
	}}
	app := newTestApp(llm.NewMockClient(), provider)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/weather?lat=40.7128&lon=-74.0060", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var data weather.Data
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		t.Fatalf("decode weather: %v", err)
	}
	if data.Icon != "fa-sun" || data.WindDirection != "NE" || data.Precipitation != 50 {
		t.Fatalf("unexpected normalization: %+v", data)
	}
}

func TestWeatherEndpointFallsBack(t *testing.T) {
	app := newTestApp(llm.NewMockClient(), &stubProvider{err: errors.New("provider down")})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/weather", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, resp.StatusCode)
	}

	var out struct {
		Message  string       `json:"message"`
		Fallback weather.Data `json:"fallback"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if out.Message == "" {
		t.Fatalf("degraded response carries a message")
	}
	if out.Fallback != weather.Fallback {
		t.Fatalf("expected the documented fallback literal, got %+v", out.Fallback)
	}
}

func TestGrowingSeasonEndpoint(t *testing.T) {
	app := newTestApp(llm.NewMockClient(), &stubProvider{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/growing-season", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var out struct {
		CurrentSeason string   `json:"currentSeason"`
		PlantsToGrow  []string `json:"plantsToGrow"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode growing season: %v", err)
	}
	if out.CurrentSeason == "" || len(out.PlantsToGrow) == 0 {
		t.Fatalf("unexpected payload: %+v", out)
	}
}

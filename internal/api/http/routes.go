// Package httpapi exposes the chat, weather, and growing-season services as
// JSON endpoints.
package httpapi

import (
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/agrichat/agrichat-api/internal/chat"
	"github.com/agrichat/agrichat-api/internal/season"
	"github.com/agrichat/agrichat-api/internal/weather"
	"github.com/agrichat/agrichat-api/internal/weather/geocode"
)

var validate = validator.New()

// Deps bundles what the routes need.
type Deps struct {
	Chat            *chat.Service
	Weather         *weather.Service
	Geocode         *geocode.Resolver
	DefaultLocation weather.Location
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, deps Deps) {
	api := app.Group("/api")

	api.Get("/chat/history", func(c *fiber.Ctx) error {
		return c.JSON(deps.Chat.History())
	})

	api.Post("/chat/message", func(c *fiber.Ctx) error {
		var req sendMessageRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "invalid JSON body",
			})
		}
		if err := validate.Struct(req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Message cannot be empty",
			})
		}

		out, err := deps.Chat.Send(c.Context(), req.Content)
		if err != nil {
			if errors.Is(err, chat.ErrEmptyUtterance) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"message": "Message cannot be empty",
				})
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to process message")
		}

		return c.JSON(sendMessageResponse{
			UserMessage: toChatMessage(out.UserMessage, nil),
			BotMessage:  toChatMessage(out.BotMessage, out.KnowledgeCards),
		})
	})

	api.Post("/chat/clear", func(c *fiber.Ctx) error {
		deps.Chat.Reset()
		return c.SendStatus(fiber.StatusNoContent)
	})

	api.Get("/weather", func(c *fiber.Ctx) error {
		loc := resolveLocation(c, deps)

		data, err := deps.Weather.Current(c.Context(), loc)
		if err != nil {
			// Degraded: report the failure but hand the client something to render.
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message":  "Failed to fetch weather data",
				"fallback": data,
			})
		}

		return c.JSON(data)
	})

	api.Get("/growing-season", func(c *fiber.Ctx) error {
		return c.JSON(season.Current(time.Now()))
	})
}

type sendMessageRequest struct {
	Content string `json:"content" validate:"required"`
}

// chatMessage is the wire shape of one message in the exchange response. The
// id is rendered as a string, matching what the client consumes.
type chatMessage struct {
	ID             string               `json:"id"`
	Content        string               `json:"content"`
	IsUser         bool                 `json:"isUser"`
	Timestamp      time.Time            `json:"timestamp"`
	KnowledgeCards []chat.KnowledgeCard `json:"knowledgeCards,omitempty"`
}

type sendMessageResponse struct {
	UserMessage chatMessage `json:"userMessage"`
	BotMessage  chatMessage `json:"botMessage"`
}

func toChatMessage(m chat.Message, cards []chat.KnowledgeCard) chatMessage {
	return chatMessage{
		ID:             strconv.Itoa(m.ID),
		Content:        m.Content,
		IsUser:         m.IsUser,
		Timestamp:      m.Timestamp,
		KnowledgeCards: cards,
	}
}

// resolveLocation picks coordinates in priority order: explicit lat/lon, then
// a geocoded city, then the configured defaults.
func resolveLocation(c *fiber.Ctx, deps Deps) weather.Location {
	lat := c.Query("lat")
	lon := c.Query("lon")
	if lat != "" && lon != "" {
		return weather.Location{Lat: lat, Lon: lon}
	}

	if city := c.Query("city"); city != "" && deps.Geocode != nil && deps.Geocode.Enabled() {
		if loc, err := deps.Geocode.Resolve(city); err == nil {
			return loc
		}
	}

	return deps.DefaultLocation
}

package httpapi

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-dashboard/internal/session"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

var validate = validator.New()

// requestTimeout bounds the outbound calls made on behalf of one request.
const requestTimeout = 20 * time.Second

// RegisterRoutes wires the presentation-layer handlers into the Fiber app.
// Pipeline failures are part of the session state, so trigger endpoints
// answer 200 with the view; only malformed requests are rejected.
func RegisterRoutes(app *fiber.App, ctrl *session.Controller) {
	v1 := app.Group("/api/v1")

	v1.Get("/session", func(c *fiber.Ctx) error {
		return c.JSON(ctrl.View())
	})

	v1.Get("/suggestions", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), requestTimeout)
		defer cancel()

		places := ctrl.UpdateQuery(ctx, c.Query("q"))
		return c.JSON(fiber.Map{
			"suggestions": toSuggestions(places),
		})
	})

	v1.Post("/search", func(c *fiber.Ctx) error {
		var req searchRequest
		if err := bindAndValidate(c, &req); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(c.UserContext(), requestTimeout)
		defer cancel()

		_ = ctrl.Search(ctx, req.Query)
		return c.JSON(ctrl.View())
	})

	v1.Post("/select", func(c *fiber.Ctx) error {
		var req selectRequest
		if err := bindAndValidate(c, &req); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(c.UserContext(), requestTimeout)
		defer cancel()

		_ = ctrl.Select(ctx, req.toPlace())
		return c.JSON(ctrl.View())
	})

	v1.Post("/tab", func(c *fiber.Ctx) error {
		var req tabRequest
		if err := bindAndValidate(c, &req); err != nil {
			return err
		}
		if err := ctrl.SetTab(session.Tab(req.Tab)); err != nil {
			if errors.Is(err, session.ErrInvalidTab) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return err
		}
		return c.JSON(ctrl.View())
	})

	v1.Post("/search/focus", func(c *fiber.Ctx) error {
		ctrl.Focus()
		return c.SendStatus(fiber.StatusNoContent)
	})

	v1.Post("/search/blur", func(c *fiber.Ctx) error {
		ctrl.Blur()
		return c.SendStatus(fiber.StatusNoContent)
	})
}

type searchRequest struct {
	Query string `json:"query" validate:"required"`
}

type selectRequest struct {
	Name        string  `json:"name" validate:"required"`
	CountryCode string  `json:"countryCode" validate:"omitempty,len=2"`
	Latitude    float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude   float64 `json:"longitude" validate:"gte=-180,lte=180"`
	Timezone    string  `json:"timezone"`
}

func (r selectRequest) toPlace() weather.Place {
	return weather.Place{
		Name:        r.Name,
		CountryCode: r.CountryCode,
		Latitude:    r.Latitude,
		Longitude:   r.Longitude,
		Timezone:    r.Timezone,
	}
}

type tabRequest struct {
	Tab string `json:"tab" validate:"required,oneof=hourly 8day"`
}

type suggestion struct {
	weather.Place
	Label string `json:"label"`
}

func toSuggestions(places []weather.Place) []suggestion {
	out := make([]suggestion, 0, len(places))
	for _, p := range places {
		out = append(out, suggestion{Place: p, Label: p.Label()})
	}
	return out
}

func bindAndValidate(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}

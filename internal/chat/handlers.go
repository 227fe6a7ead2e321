package chat

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"backend-honeymoonhq/internal/itinerary"
	"backend-honeymoonhq/internal/toolcall"
)

func RegisterRoutes(r fiber.Router, reg *Registry, adder EventAdder) {
	r.Get("/messages", func(c *fiber.Ctx) error {
		return c.JSON(reg.Get(c.Query("session")).Snapshot())
	})

	r.Post("/messages", func(c *fiber.Ctx) error {
		var body struct {
			Session string `json:"session"`
			Content string `json:"content"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		session := reg.Get(body.Session)

		calls, err := session.Send(c.UserContext(), body.Content)
		var turnErr *TurnError
		switch {
		case errors.Is(err, ErrEmptyMessage):
			return fiber.NewError(fiber.StatusBadRequest, "content required")
		case errors.Is(err, ErrTurnInProgress):
			return fiber.NewError(fiber.StatusConflict, "a message is already being answered")
		case errors.Is(err, ErrSessionClosed):
			return fiber.NewError(fiber.StatusGone, "session closed")
		case errors.As(err, &turnErr):
			status := turnErr.Status
			if status != fiber.StatusTooManyRequests && status != fiber.StatusPaymentRequired {
				status = fiber.StatusBadGateway
			}
			return fiber.NewError(status, turnErr.Message)
		case err != nil:
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}

		created := ApplyResults(adder, calls)
		if created == nil {
			created = []itinerary.Event{}
		}
		if calls == nil {
			calls = []toolcall.Call{}
		}
		return c.JSON(fiber.Map{
			"snapshot":      session.Snapshot(),
			"toolCalls":     calls,
			"createdEvents": created,
		})
	})

	r.Post("/suggestions/accept", func(c *fiber.Ctx) error {
		var s toolcall.Suggestion
		if err := c.BodyParser(&s); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if s.Title == "" || s.Country == "" {
			return fiber.NewError(fiber.StatusBadRequest, "title and country required")
		}
		return c.Status(fiber.StatusCreated).JSON(AcceptSuggestion(adder, s))
	})
}

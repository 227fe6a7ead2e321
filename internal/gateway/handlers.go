package gateway

import (
	"bufio"
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, limiter fiber.Handler) {
	r.Post("/chat", limiter, func(c *fiber.Ctx) error {
		var body struct {
			Messages    []ChatMessage `json:"messages"`
			TripContext *TripContext  `json:"tripContext"`
		}
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, &APIError{Status: fiber.StatusBadRequest, Message: err.Error()})
		}

		// The relay outlives the handler, so it cannot use the request context.
		stream, err := svc.OpenChat(context.Background(), body.Messages, body.TripContext)
		if err != nil {
			return writeError(c, err)
		}

		c.Set(fiber.HeaderContentType, "text/event-stream")
		c.Set(fiber.HeaderCacheControl, "no-cache")
		c.Set(fiber.HeaderConnection, "keep-alive")
		c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
			stream.WriteTo(w)
		})
		return nil
	})

	r.Post("/parse-receipt", limiter, func(c *fiber.Ctx) error {
		var body struct {
			ImageURL string `json:"imageUrl"`
			FileType string `json:"fileType"`
		}
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, &APIError{Status: fiber.StatusBadRequest, Message: err.Error()})
		}
		if body.ImageURL == "" {
			return writeError(c, &APIError{Status: fiber.StatusBadRequest, Message: "imageUrl is required"})
		}

		data, err := svc.ExtractReceipt(c.UserContext(), body.ImageURL, body.FileType)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "data": data})
	})
}

func writeError(c *fiber.Ctx, err error) error {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		apiErr = &APIError{Status: fiber.StatusInternalServerError, Message: err.Error()}
	}
	return c.Status(apiErr.Status).JSON(fiber.Map{"error": apiErr.Message})
}

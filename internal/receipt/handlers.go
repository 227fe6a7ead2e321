package receipt

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the receipt upload under an itinerary router.
func RegisterRoutes(r fiber.Router, p *Pipeline) {
	r.Post("/events/:id/receipt", func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "file required")
		}
		f, err := fh.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		defer f.Close()

		id := c.Params("id")
		out, err := p.Upload(c.UserContext(), id, fh.Filename, fh.Header.Get(fiber.HeaderContentType), f)
		var exErr *ExtractionError
		switch {
		case errors.As(err, &exErr):
			// The document is stored; out carries the extraction message.
		case errors.Is(err, ErrEventNotFound):
			return fiber.NewError(fiber.StatusNotFound, "event not found")
		case errors.Is(err, ErrNoBlobStore):
			return fiber.NewError(fiber.StatusServiceUnavailable, msgUploadError)
		case err != nil:
			return fiber.NewError(fiber.StatusBadGateway, msgUploadError)
		}

		event, _ := p.events.Event(id)
		return c.JSON(fiber.Map{
			"upload":    out,
			"event":     event,
			"extracted": out.Extraction != nil,
		})
	})
}

package itinerary

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Schedule reports the trip length and the days left until departure.
type Schedule interface {
	Counts(ctx context.Context, now time.Time) (total, remaining int, err error)
}

type createEventRequest struct {
	Country string `json:"country"`
	Draft
}

func RegisterRoutes(r fiber.Router, store *Store, schedule Schedule) {
	r.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(store.Snapshot())
	})

	r.Post("/events", func(c *fiber.Ctx) error {
		var req createEventRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if req.Country == "" || req.Title == "" {
			return fiber.NewError(fiber.StatusBadRequest, "country and title required")
		}
		if req.Type != "" && !req.Type.Valid() {
			return fiber.NewError(fiber.StatusBadRequest, "invalid event type")
		}
		if req.Source == "" {
			req.Source = SourceManual
		}
		event := store.AddEvent(req.Draft, req.Country)
		return c.Status(fiber.StatusCreated).JSON(event)
	})

	r.Patch("/events/:id", func(c *fiber.Ctx) error {
		var patch Patch
		if err := c.BodyParser(&patch); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if patch.Type != nil && !patch.Type.Valid() {
			return fiber.NewError(fiber.StatusBadRequest, "invalid event type")
		}
		id := c.Params("id")
		if !store.UpdateEvent(id, patch) {
			return fiber.NewError(fiber.StatusNotFound, "event not found")
		}
		event, _ := store.Event(id)
		return c.JSON(event)
	})

	r.Get("/timeline", func(c *fiber.Ctx) error {
		date := c.Query("date")
		if date == "" {
			return fiber.NewError(fiber.StatusBadRequest, "date required")
		}
		events := store.Timeline(date, c.Query("country"))
		if events == nil {
			events = []Event{}
		}
		return c.JSON(fiber.Map{"date": date, "events": events})
	})

	r.Get("/calendar.ics", func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, "text/calendar; charset=utf-8")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="itinerary.ics"`)
		return c.SendString(Calendar(store.Snapshot()))
	})

	r.Get("/stats", func(c *fiber.Ctx) error {
		stats := ComputeStats(store.Snapshot())
		if schedule != nil {
			total, remaining, err := schedule.Counts(c.Context(), nowFn())
			if err != nil {
				log.Printf("itinerary stats: schedule unavailable: %v", err)
			} else {
				stats.TotalDays = total
				stats.DaysRemaining = remaining
			}
		}
		return c.JSON(stats)
	})
}

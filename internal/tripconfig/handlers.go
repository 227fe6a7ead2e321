package tripconfig

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

var nowFn = time.Now

type view struct {
	Config        Config `json:"config"`
	IsConfigured  bool   `json:"isConfigured"`
	TotalDays     int    `json:"totalDays"`
	DaysRemaining int    `json:"daysRemaining"`
}

func newView(cfg Config) view {
	return view{
		Config:        cfg,
		IsConfigured:  cfg.IsConfigured(),
		TotalDays:     cfg.TotalDays(),
		DaysRemaining: cfg.DaysRemaining(nowFn()),
	}
}

func RegisterRoutes(r fiber.Router, store *Store) {
	r.Get("/", func(c *fiber.Ctx) error {
		cfg, err := store.Get(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(newView(cfg))
	})

	r.Put("/", func(c *fiber.Ctx) error {
		var u Update
		if err := c.BodyParser(&u); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate(u); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		cfg, err := store.Set(c.Context(), u)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(newView(cfg))
	})
}

package storage

import (
	"errors"
	"io"
	"net/url"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Post("/upload", func(c *fiber.Ctx) error {
		path := c.FormValue("path")
		fh, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "file is required")
		}
		if path == "" {
			path = fh.Filename
		}
		f, err := fh.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		defer f.Close()

		stored, err := svc.Upload(c.Context(), path, f, fh.Header.Get("Content-Type"))
		if errors.Is(err, ErrInvalidPath) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		publicURL, err := svc.PublicURL(stored)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"path": stored,
			"url":  publicURL,
		})
	})

	r.Get("/"+Bucket+"/*", func(c *fiber.Ctx) error {
		path, err := url.PathUnescape(c.Params("*"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		f, err := svc.Open(path, c.Query("token"))
		switch {
		case errors.Is(err, ErrInvalidPath):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		case errors.Is(err, ErrInvalidToken):
			return fiber.NewError(fiber.StatusForbidden, err.Error())
		case errors.Is(err, ErrNotFound):
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		case err != nil:
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		defer f.Close()

		body, err := io.ReadAll(f)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		c.Type(filepath.Ext(path))
		return c.Send(body)
	})
}

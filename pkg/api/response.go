package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// Response is the JSON envelope of every endpoint
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func applyErrorToResponse(c *fiber.Ctx, status int, message string, err error) error {
	if err != nil {
		message = message + ": " + err.Error()
	}
	if status >= fiber.StatusInternalServerError {
		log.Errorf("%s %s: %s", c.Method(), c.Path(), message)
	}
	return c.Status(status).JSON(Response{Error: message})
}

func applySuccessToResponse(c *fiber.Ctx, data any) error {
	return c.JSON(Response{Success: true, Data: data})
}

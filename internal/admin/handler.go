package admin

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v2"

	"github.com/kinetsulist/kinetsulist-backend/internal/dataset"
	"github.com/kinetsulist/kinetsulist-backend/internal/validation"
)

// Predictor runs the regression demo for a title.
type Predictor interface {
	DemoLocal(name string) (*DemoResult, error)
}

type DemoRequest struct {
	Title string `json:"nombre_anime" validate:"required,notblank,max=200"`
}

type Handler struct {
	service   Predictor
	jwtSecret string
}

// NewHandler wires the demo endpoint. A non-empty jwtSecret puts every
// /api/admin route behind HS256 bearer auth.
func NewHandler(service Predictor, jwtSecret string) *Handler {
	return &Handler{service: service, jwtSecret: jwtSecret}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	grp := app.Group("/api/admin")
	if h.jwtSecret != "" {
		grp.Use(jwtware.New(jwtware.Config{
			SigningKey:    []byte(h.jwtSecret),
			SigningMethod: "HS256",
			ErrorHandler: func(c *fiber.Ctx, err error) error {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "No autorizado"})
			},
		}))
	}
	grp.Post("/demo-local", h.demoLocal)
}

func (h *Handler) demoLocal(c *fiber.Ctx) error {
	var req DemoRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "Cuerpo JSON inválido"})
	}
	if err := validation.ValidateStruct(req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"detail": err.Error()})
	}

	res, err := h.service.DemoLocal(req.Title)
	if err != nil {
		var mce *dataset.MissingColumnError
		switch {
		case errors.Is(err, ErrTitleNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": fmt.Sprintf("No se encontró ningún anime que coincida con '%s'", req.Title)})
		case errors.As(err, &mce):
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "Columna faltante: " + mce.Column})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "Error: " + err.Error()})
		}
	}
	return c.JSON(res)
}

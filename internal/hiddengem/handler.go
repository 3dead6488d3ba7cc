package hiddengem

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/kinetsulist/kinetsulist-backend/internal/params"
)

type Handler struct {
	service      *Service
	defaultLimit int
}

func NewHandler(service *Service, defaultLimit int) *Handler {
	return &Handler{service: service, defaultLimit: defaultLimit}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/joyas-ocultas", h.getHiddenGems)
}

func (h *Handler) getHiddenGems(c *fiber.Ctx) error {
	userID, hasUser, err := params.UserID(c, 0)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": err.Error()})
	}
	limit := params.Limit(c, h.defaultLimit)

	gems, err := h.service.List(userID, hasUser, limit)
	switch {
	case errors.Is(err, ErrNoClusters):
		return c.JSON(fiber.Map{
			"total":       0,
			"hidden_gems": []any{},
			"mensaje":     "No hay información de clusters disponible",
		})
	case errors.Is(err, ErrEmptyCluster):
		return c.JSON(fiber.Map{
			"total":       0,
			"hidden_gems": []any{},
			"mensaje":     "No se encontraron joyas ocultas",
		})
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "Error al obtener joyas ocultas"})
	}

	records := gems.Records()
	return c.JSON(fiber.Map{
		"total":       len(records),
		"hidden_gems": records,
	})
}

package mylist

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/kinetsulist/kinetsulist-backend/internal/catalog"
	"github.com/kinetsulist/kinetsulist-backend/internal/params"
)

type Handler struct {
	service       *Service
	defaultUserID int
	defaultLimit  int
}

func NewHandler(service *Service, defaultUserID, defaultLimit int) *Handler {
	return &Handler{service: service, defaultUserID: defaultUserID, defaultLimit: defaultLimit}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/mi-lista", h.getMyList)
}

func (h *Handler) getMyList(c *fiber.Ctx) error {
	userID, _, err := params.UserID(c, h.defaultUserID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": err.Error()})
	}

	list, err := h.service.List(userID, params.Limit(c, h.defaultLimit))
	if err != nil {
		if errors.Is(err, catalog.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": fmt.Sprintf("Usuario %d no tiene animes en su lista", userID)})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "Error al obtener la lista"})
	}

	records := list.Records()
	return c.JSON(fiber.Map{
		"id_usuario": userID,
		"total":      len(records),
		"animes":     records,
	})
}

package recommendation

import (
	"errors"
	"fmt"
	"strconv"

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
	app.Get("/api/recomendaciones", h.getRecommendations)
	app.Get("/api/predecir-anime/:anime_id<int>", h.predictAnime)
}

func (h *Handler) getRecommendations(c *fiber.Ctx) error {
	userID, _, err := params.UserID(c, h.defaultUserID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": err.Error()})
	}
	limit := params.Limit(c, h.defaultLimit)

	recs, err := h.service.Recommend(userID, limit)
	if err != nil {
		if errors.Is(err, catalog.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": fmt.Sprintf("Usuario %d no encontrado", userID)})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": err.Error()})
	}

	records := recs.Records()
	return c.JSON(fiber.Map{
		"id_usuario":      userID,
		"total":           len(records),
		"recomendaciones": records,
	})
}

func (h *Handler) predictAnime(c *fiber.Ctx) error {
	animeID, err := strconv.Atoi(c.Params("anime_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "anime_id debe ser un entero"})
	}
	userID, _, err := params.UserID(c, h.defaultUserID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": err.Error()})
	}

	pred, err := h.service.Predict(userID, animeID)
	switch {
	case errors.Is(err, catalog.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": fmt.Sprintf("Usuario %d no encontrado", userID)})
	case errors.Is(err, ErrAnimeNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": fmt.Sprintf("Anime %d no encontrado", animeID)})
	case err != nil:
		// the only endpoint that echoes the raw error
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": err.Error()})
	}
	return c.JSON(pred)
}

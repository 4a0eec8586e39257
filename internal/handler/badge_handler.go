package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/edulane/edulane-api/internal/service"
	"github.com/edulane/edulane-api/internal/utils"
)

// BadgeHandler manages badge endpoints.
type BadgeHandler struct {
	service service.BadgeService
	logger  zerolog.Logger
}

// NewBadgeHandler builds a badge handler instance.
func NewBadgeHandler(service service.BadgeService, logger zerolog.Logger) *BadgeHandler {
	return &BadgeHandler{
		service: service,
		logger:  logger.With().Str("component", "badge_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *BadgeHandler) Register(router fiber.Router) {
	router.Get("/:id/badges", h.listBadges)
	router.Post("/:id/badges/check/:courseId", h.check)
}

func (h *BadgeHandler) listBadges(c *fiber.Ctx) error {
	studentID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	badges, err := h.service.ListStudentBadges(c.Context(), studentID)
	if err != nil {
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "badges retrieved", badges)
}

// check runs a synchronous badge evaluation. Used by admin tooling; normal
// awards happen through the background dispatcher.
func (h *BadgeHandler) check(c *fiber.Ctx) error {
	studentID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	courseID, err := parseUintParam(c, "courseId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	badge, err := h.service.CheckAndAward(c.Context(), courseID, studentID)
	if err != nil {
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	payload := fiber.Map{"awarded": badge != nil}
	if badge != nil {
		payload["badge"] = badge
	}

	return utils.SendSuccess(c, "badge check completed", payload)
}

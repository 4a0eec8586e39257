package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/edulane/edulane-api/internal/models"
	"github.com/edulane/edulane-api/internal/service"
	"github.com/edulane/edulane-api/internal/utils"
)

// LeaderboardHandler manages ranking endpoints.
type LeaderboardHandler struct {
	service service.LeaderboardService
	logger  zerolog.Logger
}

// NewLeaderboardHandler builds a leaderboard handler instance.
func NewLeaderboardHandler(service service.LeaderboardService, logger zerolog.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{
		service: service,
		logger:  logger.With().Str("component", "leaderboard_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group. The /me route
// additionally requires the student role, applied by the caller.
func (h *LeaderboardHandler) Register(router fiber.Router, studentOnly fiber.Handler) {
	router.Get("/overall", h.overall)
	router.Get("/weekly", h.weekly)
	router.Get("/me", studentOnly, h.me)
}

func (h *LeaderboardHandler) overall(c *fiber.Ctx) error {
	return h.top(c, models.ScoreMetricTotal)
}

func (h *LeaderboardHandler) weekly(c *fiber.Ctx) error {
	return h.top(c, models.ScoreMetricWeekly)
}

func (h *LeaderboardHandler) top(c *fiber.Ctx, metric string) error {
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}

	entries, err := h.service.Top(c.Context(), metric, limit)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "leaderboard retrieved", entries)
}

func (h *LeaderboardHandler) me(c *fiber.Ctx) error {
	actor := actorFromContext(c)
	if actor.ID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "unknown user")
	}

	stats, err := h.service.MyStats(c.Context(), actor.ID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "leaderboard stats retrieved", stats)
}

func (h *LeaderboardHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrUnknownScoreMetric):
		return utils.SendError(c, fiber.StatusBadRequest, "unknown score metric")
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}

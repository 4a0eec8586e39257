package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/edulane/edulane-api/internal/models"
	"github.com/edulane/edulane-api/internal/repository"
)

// NotificationInput describes a notification to be delivered to a user.
type NotificationInput struct {
	UserID    uint
	Title     string
	Message   string
	Type      string
	RelatedID *uint
	Metadata  map[string]interface{}
}

// NotificationRecorder delivers notifications as a side effect of grading
// and badge events. Callers treat failures as best-effort.
type NotificationRecorder interface {
	Notify(ctx context.Context, input NotificationInput) error
}

// NotificationService persists notifications and optionally fans them out
// over NATS for other consumers.
type NotificationService interface {
	NotificationRecorder
	List(ctx context.Context, userID uint, limit int) ([]models.Notification, error)
}

type notificationService struct {
	repo      repository.NotificationRepository
	nats      *nats.Conn
	subject   string
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	now       func() time.Time
}

// NewNotificationService constructs a notification service. The NATS
// connection may be nil, in which case notifications are only persisted.
func NewNotificationService(repo repository.NotificationRepository, natsConn *nats.Conn, subject string, logger zerolog.Logger) NotificationService {
	return &notificationService{
		repo:      repo,
		nats:      natsConn,
		subject:   subject,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "notification_service").Logger(),
		now:       time.Now,
	}
}

func (s *notificationService) Notify(ctx context.Context, input NotificationInput) error {
	notification := models.Notification{
		UserID:    input.UserID,
		Title:     s.sanitizer.Sanitize(input.Title),
		Message:   s.sanitizer.Sanitize(input.Message),
		Type:      input.Type,
		RelatedID: input.RelatedID,
		Metadata:  datatypes.JSONMap(input.Metadata),
		CreatedAt: s.now(),
	}

	if err := s.repo.Create(ctx, &notification); err != nil {
		return err
	}

	if s.nats != nil && s.subject != "" {
		payload, err := json.Marshal(notification)
		if err == nil {
			if err := s.nats.Publish(s.subject, payload); err != nil {
				s.logger.Warn().Err(err).Msg("failed to publish notification to nats")
			}
		}
	}

	return nil
}

func (s *notificationService) List(ctx context.Context, userID uint, limit int) ([]models.Notification, error) {
	return s.repo.ListByUser(ctx, userID, limit)
}

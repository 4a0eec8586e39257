package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// BadgeChecker dispatches badge eligibility checks without blocking the
// calling request. Results are never awaited by the caller; failures are
// logged only.
type BadgeChecker interface {
	Dispatch(courseID, studentID uint)
}

type badgeCheck struct {
	courseID  uint
	studentID uint
}

// BadgeDispatcher runs badge checks on a background goroutine fed by a
// buffered queue. When the queue is full the check is dropped with a
// warning rather than blocking the request path.
type BadgeDispatcher struct {
	service BadgeService
	logger  zerolog.Logger
	queue   chan badgeCheck
	stop    sync.Once
	done    chan struct{}
}

// NewBadgeDispatcher constructs the dispatcher with the given queue size.
func NewBadgeDispatcher(service BadgeService, buffer int, logger zerolog.Logger) *BadgeDispatcher {
	if buffer <= 0 {
		buffer = 64
	}

	return &BadgeDispatcher{
		service: service,
		logger:  logger.With().Str("component", "badge_dispatcher").Logger(),
		queue:   make(chan badgeCheck, buffer),
		done:    make(chan struct{}),
	}
}

// Start launches the consumer goroutine. It exits when ctx is cancelled or
// Close is called.
func (d *BadgeDispatcher) Start(ctx context.Context) {
	go d.run(ctx)
}

// Dispatch enqueues a badge check for the student in the course.
func (d *BadgeDispatcher) Dispatch(courseID, studentID uint) {
	select {
	case d.queue <- badgeCheck{courseID: courseID, studentID: studentID}:
	default:
		d.logger.Warn().
			Uint("course_id", courseID).
			Uint("student_id", studentID).
			Msg("badge check queue full, dropping check")
	}
}

// Close stops the consumer after draining queued checks.
func (d *BadgeDispatcher) Close() {
	d.stop.Do(func() {
		close(d.queue)
		<-d.done
	})
}

func (d *BadgeDispatcher) run(ctx context.Context) {
	defer close(d.done)

	for {
		select {
		case <-ctx.Done():
			return
		case check, ok := <-d.queue:
			if !ok {
				return
			}
			d.process(ctx, check)
		}
	}
}

func (d *BadgeDispatcher) process(ctx context.Context, check badgeCheck) {
	badge, err := d.service.CheckAndAward(ctx, check.courseID, check.studentID)
	if err != nil {
		d.logger.Error().Err(err).
			Uint("course_id", check.courseID).
			Uint("student_id", check.studentID).
			Msg("badge check failed")
		return
	}

	if badge != nil {
		d.logger.Info().
			Uint("course_id", check.courseID).
			Uint("student_id", check.studentID).
			Str("title", badge.Title).
			Msg("badge awarded by background check")
	}
}

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/edulane/edulane-api/internal/models"
)

type badgeFixtures struct {
	courses     *fakeCourseRoster
	quizzes     *fakeQuizBank
	attempts    *fakeAttemptStore
	assignments *fakeAssignmentBank
	submissions *fakeSubmissionStore
	progress    *fakeProgressStore
	badges      *fakeBadgeStore
	notifier    *recordingNotifier
}

// eligibleBadgeFixtures returns a fixture set where every award criterion
// passes: enough enrollment, all modules teacher-completed and student-done,
// every quiz attempted and every assignment submitted.
func eligibleBadgeFixtures() badgeFixtures {
	return badgeFixtures{
		courses: &fakeCourseRoster{
			course: models.Course{
				ID:    7,
				Title: "Go Basics",
				Modules: []models.CourseModule{
					{ID: 1, CourseID: 7, Order: 1, Completed: true},
					{ID: 2, CourseID: 7, Order: 2, Completed: true},
				},
			},
			enrolledCount: 3,
		},
		quizzes:     &fakeQuizBank{ids: []uint{10}},
		attempts:    &fakeAttemptStore{attemptCount: 1},
		assignments: &fakeAssignmentBank{ids: []uint{20}},
		submissions: &fakeSubmissionStore{distinctCount: 1},
		progress: &fakeProgressStore{
			progress: models.CourseProgress{CourseID: 7, StudentID: 42, CompletedModules: datatypes.JSONSlice[int]{1, 2}},
		},
		badges:   &fakeBadgeStore{},
		notifier: &recordingNotifier{},
	}
}

func (f badgeFixtures) service() BadgeService {
	return NewBadgeService(
		f.courses,
		f.quizzes,
		f.attempts,
		f.assignments,
		f.submissions,
		f.progress,
		f.badges,
		f.notifier,
		2,
		testLogger(),
	)
}

func TestBadgeServiceAwardsWhenAllCriteriaMet(t *testing.T) {
	f := eligibleBadgeFixtures()
	svc := f.service()

	badge, err := svc.CheckAndAward(context.Background(), 7, 42)
	require.NoError(t, err)
	require.NotNil(t, badge)
	require.Equal(t, "Go Basics - Completed", badge.Title)
	require.Equal(t, uint(7), badge.CourseID)

	require.NotNil(t, f.badges.created)
	require.Equal(t, uint(42), f.badges.created.StudentID)

	require.Len(t, f.notifier.inputs, 1)
	require.Equal(t, models.NotificationTypeBadge, f.notifier.inputs[0].Type)
	require.Equal(t, uint(42), f.notifier.inputs[0].UserID)
}

func TestBadgeServiceAwardsForCourseWithoutModules(t *testing.T) {
	f := eligibleBadgeFixtures()
	f.courses.course.Modules = nil
	f.progress.progress.CompletedModules = nil
	svc := f.service()

	badge, err := svc.CheckAndAward(context.Background(), 7, 42)
	require.NoError(t, err)
	require.NotNil(t, badge)
	require.Equal(t, "Go Basics - Completed", badge.Title)
	require.NotNil(t, f.badges.created)
}

func TestBadgeServiceNotEligibleWhenProgressIncomplete(t *testing.T) {
	f := eligibleBadgeFixtures()
	f.progress.progress.CompletedModules = datatypes.JSONSlice[int]{1}
	svc := f.service()

	badge, err := svc.CheckAndAward(context.Background(), 7, 42)
	require.NoError(t, err)
	require.Nil(t, badge)
	require.Nil(t, f.badges.created)
}

func TestBadgeServiceNotEligibleWhenQuizUnattempted(t *testing.T) {
	f := eligibleBadgeFixtures()
	f.attempts.attemptCount = 0
	svc := f.service()

	badge, err := svc.CheckAndAward(context.Background(), 7, 42)
	require.NoError(t, err)
	require.Nil(t, badge)
}

func TestBadgeServiceNotEligibleWhenAssignmentUnsubmitted(t *testing.T) {
	f := eligibleBadgeFixtures()
	f.submissions.distinctCount = 0
	svc := f.service()

	badge, err := svc.CheckAndAward(context.Background(), 7, 42)
	require.NoError(t, err)
	require.Nil(t, badge)
}

func TestBadgeServiceRequiresMinimumEnrollment(t *testing.T) {
	f := eligibleBadgeFixtures()
	f.courses.enrolledCount = 1
	svc := f.service()

	badge, err := svc.CheckAndAward(context.Background(), 7, 42)
	require.NoError(t, err)
	require.Nil(t, badge)
}

func TestBadgeServiceRequiresTeacherCompletedModules(t *testing.T) {
	f := eligibleBadgeFixtures()
	f.courses.course.Modules[1].Completed = false
	svc := f.service()

	badge, err := svc.CheckAndAward(context.Background(), 7, 42)
	require.NoError(t, err)
	require.Nil(t, badge)
}

func TestBadgeServiceSkipsWhenAlreadyHeld(t *testing.T) {
	f := eligibleBadgeFixtures()
	f.badges.exists = true
	svc := f.service()

	badge, err := svc.CheckAndAward(context.Background(), 7, 42)
	require.NoError(t, err)
	require.Nil(t, badge)
	require.Nil(t, f.badges.created)
	require.Empty(t, f.notifier.inputs)
}

func TestBadgeServiceConcurrentAwardIsIdempotent(t *testing.T) {
	f := eligibleBadgeFixtures()
	f.badges.createErr = gorm.ErrDuplicatedKey
	svc := f.service()

	badge, err := svc.CheckAndAward(context.Background(), 7, 42)
	require.NoError(t, err)
	require.Nil(t, badge)
}

func TestBadgeServiceUnknownCourseIsNotEligible(t *testing.T) {
	f := eligibleBadgeFixtures()
	f.courses.courseErr = gorm.ErrRecordNotFound
	svc := f.service()

	badge, err := svc.CheckAndAward(context.Background(), 99, 42)
	require.NoError(t, err)
	require.Nil(t, badge)
}

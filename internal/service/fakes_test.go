package service

import (
	"context"
	"io"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/edulane/edulane-api/internal/models"
	"github.com/edulane/edulane-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

type ledgerDelta struct {
	studentID uint
	delta     float64
	category  string
}

type recordingLedger struct {
	entry  models.ScoreEntry
	err    error
	deltas []ledgerDelta
}

func (l *recordingLedger) GetOrCreate(ctx context.Context, studentID uint) (models.ScoreEntry, error) {
	return l.entry, l.err
}

func (l *recordingLedger) ApplyDelta(ctx context.Context, studentID uint, delta float64, category string) error {
	if l.err != nil {
		return l.err
	}
	l.deltas = append(l.deltas, ledgerDelta{studentID: studentID, delta: delta, category: category})
	return nil
}

type recordingBadges struct {
	dispatched []badgeCheck
}

func (b *recordingBadges) Dispatch(courseID, studentID uint) {
	b.dispatched = append(b.dispatched, badgeCheck{courseID: courseID, studentID: studentID})
}

type recordingNotifier struct {
	inputs []NotificationInput
	err    error
}

func (n *recordingNotifier) Notify(ctx context.Context, input NotificationInput) error {
	if n.err != nil {
		return n.err
	}
	n.inputs = append(n.inputs, input)
	return nil
}

type fakeScoreRepo struct {
	entry        models.ScoreEntry
	getErrs      []error
	createErr    error
	created      *models.ScoreEntry
	applyRows    int64
	applyErr     error
	lastDelta    float64
	lastCategory string
	lastCutoff   time.Time
	lastNow      time.Time
	entries      []models.ScoreEntry
	lastMetric   string
	lastLimit    int
	greaterTotal  int64
	greaterWeekly int64
	resetCalls   int
}

func (f *fakeScoreRepo) GetByStudent(ctx context.Context, studentID uint) (models.ScoreEntry, error) {
	if len(f.getErrs) > 0 {
		err := f.getErrs[0]
		f.getErrs = f.getErrs[1:]
		if err != nil {
			return models.ScoreEntry{}, err
		}
	}
	return f.entry, nil
}

func (f *fakeScoreRepo) Create(ctx context.Context, entry *models.ScoreEntry) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = entry
	f.entry = *entry
	return nil
}

func (f *fakeScoreRepo) ApplyDelta(ctx context.Context, studentID uint, delta float64, category string, cutoff, now time.Time) (int64, error) {
	f.lastDelta = delta
	f.lastCategory = category
	f.lastCutoff = cutoff
	f.lastNow = now
	return f.applyRows, f.applyErr
}

func (f *fakeScoreRepo) CountGreater(ctx context.Context, metric string, value float64) (int64, error) {
	if metric == models.ScoreMetricWeekly {
		return f.greaterWeekly, nil
	}
	return f.greaterTotal, nil
}

func (f *fakeScoreRepo) ListTop(ctx context.Context, metric string, limit int) ([]models.ScoreEntry, error) {
	f.lastMetric = metric
	f.lastLimit = limit
	return f.entries, nil
}

func (f *fakeScoreRepo) ResetStaleWeekly(ctx context.Context, cutoff, now time.Time) (int64, error) {
	f.resetCalls++
	return 0, nil
}

type fakeQuizBank struct {
	quiz models.Quiz
	err  error
	ids  []uint
}

func (f *fakeQuizBank) GetByID(ctx context.Context, id uint) (models.Quiz, error) {
	if f.err != nil {
		return models.Quiz{}, f.err
	}
	return f.quiz, nil
}

func (f *fakeQuizBank) ListIDsByCourse(ctx context.Context, courseID uint) ([]uint, error) {
	return f.ids, nil
}

type fakeAttemptStore struct {
	existing     *models.QuizAttempt
	created      *models.QuizAttempt
	createErr    error
	listed       []models.QuizAttempt
	lastFilter   *uint
	attemptCount int64
}

func (f *fakeAttemptStore) GetByQuizAndStudent(ctx context.Context, quizID, studentID uint) (models.QuizAttempt, error) {
	if f.existing == nil {
		return models.QuizAttempt{}, gorm.ErrRecordNotFound
	}
	return *f.existing, nil
}

func (f *fakeAttemptStore) ListByQuiz(ctx context.Context, quizID uint, studentID *uint) ([]models.QuizAttempt, error) {
	f.lastFilter = studentID
	return f.listed, nil
}

func (f *fakeAttemptStore) Create(ctx context.Context, attempt *models.QuizAttempt) error {
	if f.createErr != nil {
		return f.createErr
	}
	attempt.ID = 1
	f.created = attempt
	return nil
}

func (f *fakeAttemptStore) CountForStudent(ctx context.Context, quizIDs []uint, studentID uint) (int64, error) {
	return f.attemptCount, nil
}

type fakeCourseRoster struct {
	course        models.Course
	courseErr     error
	enrolled      bool
	enrolledCount int64
}

func (f *fakeCourseRoster) GetByID(ctx context.Context, id uint) (models.Course, error) {
	if f.courseErr != nil {
		return models.Course{}, f.courseErr
	}
	return f.course, nil
}

func (f *fakeCourseRoster) IsEnrolled(ctx context.Context, courseID, studentID uint) (bool, error) {
	return f.enrolled, nil
}

func (f *fakeCourseRoster) CountEnrolled(ctx context.Context, courseID uint) (int64, error) {
	return f.enrolledCount, nil
}

type fakeAssignmentBank struct {
	assignment models.Assignment
	ids        []uint
}

func (f *fakeAssignmentBank) GetByID(ctx context.Context, id uint) (models.Assignment, error) {
	return f.assignment, nil
}

func (f *fakeAssignmentBank) ListIDsByCourse(ctx context.Context, courseID uint) ([]uint, error) {
	return f.ids, nil
}

type fakeSubmissionStore struct {
	submission    models.Submission
	getErr        error
	updateCalls   int
	updateErr     error
	reevalDone    bool
	distinctCount int64
	list          []models.Submission
	lastFilter    repository.SubmissionFilter
}

func (f *fakeSubmissionStore) List(ctx context.Context, filter repository.SubmissionFilter) ([]models.Submission, error) {
	f.lastFilter = filter
	return f.list, nil
}

func (f *fakeSubmissionStore) GetByID(ctx context.Context, id uint) (models.Submission, error) {
	if f.getErr != nil {
		return models.Submission{}, f.getErr
	}
	return f.submission, nil
}

func (f *fakeSubmissionStore) Create(ctx context.Context, submission *models.Submission) error {
	return nil
}

func (f *fakeSubmissionStore) Update(ctx context.Context, submission *models.Submission) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updateCalls++
	f.submission = *submission
	return nil
}

func (f *fakeSubmissionStore) HasReevalDone(ctx context.Context, assignmentID, studentID uint) (bool, error) {
	return f.reevalDone, nil
}

func (f *fakeSubmissionStore) CountDistinctAssignments(ctx context.Context, assignmentIDs []uint, studentID uint) (int64, error) {
	return f.distinctCount, nil
}

type fakeProgressStore struct {
	progress  models.CourseProgress
	getErr    error
	created   *models.CourseProgress
	createErr error
	updated   *models.CourseProgress
}

func (f *fakeProgressStore) GetByCourseAndStudent(ctx context.Context, courseID, studentID uint) (models.CourseProgress, error) {
	if f.getErr != nil {
		return models.CourseProgress{}, f.getErr
	}
	return f.progress, nil
}

func (f *fakeProgressStore) Create(ctx context.Context, progress *models.CourseProgress) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = progress
	f.progress = *progress
	return nil
}

func (f *fakeProgressStore) Update(ctx context.Context, progress *models.CourseProgress) error {
	f.updated = progress
	f.progress = *progress
	return nil
}

type fakeBadgeStore struct {
	exists    bool
	createErr error
	created   *models.Badge
	badges    []models.Badge
}

func (f *fakeBadgeStore) ExistsForStudentAndCourse(ctx context.Context, studentID, courseID uint) (bool, error) {
	return f.exists, nil
}

func (f *fakeBadgeStore) ListByStudent(ctx context.Context, studentID uint) ([]models.Badge, error) {
	return f.badges, nil
}

func (f *fakeBadgeStore) Create(ctx context.Context, badge *models.Badge) error {
	if f.createErr != nil {
		return f.createErr
	}
	badge.ID = 1
	f.created = badge
	return nil
}

type fakeNotificationStore struct {
	created []models.Notification
}

func (f *fakeNotificationStore) Create(ctx context.Context, notification *models.Notification) error {
	f.created = append(f.created, *notification)
	return nil
}

func (f *fakeNotificationStore) ListByUser(ctx context.Context, userID uint, limit int) ([]models.Notification, error) {
	return f.created, nil
}

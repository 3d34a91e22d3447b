package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/recallcode/recallcode/internal/models"
	"github.com/recallcode/recallcode/internal/repository"
	"github.com/recallcode/recallcode/internal/repository/sqlite"
	"github.com/recallcode/recallcode/internal/testutil"
	"github.com/stretchr/testify/suite"
)

type ReviewRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.ReviewRepository
}

func (s *ReviewRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewReviewRepository(s.db)
}

func (s *ReviewRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *ReviewRepositorySuite) setupAttempt() (userID, problemID, attemptID int64) {
	t := s.T()
	userID = testutil.InsertUser(t, s.db, "dev@example.com", true)
	problemID = testutil.InsertProblem(t, s.db, "Two Sum", "two-sum")
	attemptID = testutil.InsertAttempt(t, s.db, userID, problemID, testutil.IntPtr(120), testutil.IntPtr(4096))
	return
}

func (s *ReviewRepositorySuite) TestCreateIfAbsentIsIdempotent() {
	ctx := context.Background()
	_, _, attemptID := s.setupAttempt()

	due := time.Now().Add(24 * time.Hour)
	first, err := s.repo.CreateIfAbsent(ctx, models.ReviewRecord{
		AttemptID:    attemptID,
		EaseFactor:   2.5,
		IntervalDays: 1,
		NextDue:      &due,
	})
	s.Require().NoError(err)
	s.Assert().Greater(first.ID, int64(0))

	// Second create with different values must not clobber the stored row.
	otherDue := time.Now().Add(48 * time.Hour)
	second, err := s.repo.CreateIfAbsent(ctx, models.ReviewRecord{
		AttemptID:    attemptID,
		EaseFactor:   1.3,
		IntervalDays: 9,
		NextDue:      &otherDue,
	})
	s.Require().NoError(err)
	s.Assert().Equal(first.ID, second.ID)
	s.Assert().Equal(2.5, second.EaseFactor)
	s.Assert().Equal(1, second.IntervalDays)
}

func (s *ReviewRepositorySuite) TestGetByAttemptNotFound() {
	ctx := context.Background()

	_, err := s.repo.GetByAttempt(ctx, 9999)
	s.Assert().ErrorIs(err, repository.ErrNotFound)
}

func (s *ReviewRepositorySuite) TestUpdateGuardedByTotalReviews() {
	ctx := context.Background()
	_, _, attemptID := s.setupAttempt()

	rec, err := s.repo.CreateIfAbsent(ctx, models.ReviewRecord{
		AttemptID:    attemptID,
		EaseFactor:   2.5,
		IntervalDays: 1,
	})
	s.Require().NoError(err)

	now := time.Now()
	nextDue := now.Add(6 * 24 * time.Hour)
	rating := 4
	rec.Repetitions = 1
	rec.EaseFactor = 2.35
	rec.IntervalDays = 6
	rec.NextDue = &nextDue
	rec.LastReviewedAt = &now
	rec.LastRating = &rating
	rec.TotalReviews = 1

	err = s.repo.Update(ctx, *rec, 0)
	s.Require().NoError(err)

	// Re-running the same update against the stale expected counter must
	// report a conflict, not silently overwrite.
	err = s.repo.Update(ctx, *rec, 0)
	s.Assert().ErrorIs(err, repository.ErrConflict)

	stored, err := s.repo.GetByAttempt(ctx, attemptID)
	s.Require().NoError(err)
	s.Assert().Equal(1, stored.TotalReviews)
	s.Assert().Equal(6, stored.IntervalDays)
	s.Require().NotNil(stored.LastRating)
	s.Assert().Equal(4, *stored.LastRating)
}

func (s *ReviewRepositorySuite) TestUpdateMissingRecord() {
	ctx := context.Background()

	err := s.repo.Update(ctx, models.ReviewRecord{ID: 12345}, 0)
	s.Assert().ErrorIs(err, repository.ErrNotFound)
}

func (s *ReviewRepositorySuite) TestDueForUserOrderingAndLimit() {
	ctx := context.Background()
	userID, _, attempt1 := s.setupAttempt()
	now := time.Now()

	problem2 := testutil.InsertProblem(s.T(), s.db, "Valid Parentheses", "valid-parentheses")
	problem3 := testutil.InsertProblem(s.T(), s.db, "Merge Intervals", "merge-intervals")
	attempt2 := testutil.InsertAttempt(s.T(), s.db, userID, problem2, nil, nil)
	attempt3 := testutil.InsertAttempt(s.T(), s.db, userID, problem3, nil, nil)

	insert := func(attemptID int64, nextDue *time.Time) {
		_, err := s.db.ExecContext(ctx, `
INSERT INTO review_records (attempt_id, ease_factor, interval_days, next_due) VALUES (?, 2.5, 1, ?)
`, attemptID, nextDue)
		s.Require().NoError(err)
	}

	overdueOld := now.Add(-48 * time.Hour)
	overdueRecent := now.Add(-1 * time.Hour)
	future := now.Add(24 * time.Hour)

	// attempt1 most overdue, attempt2 recently overdue, attempt3 not due yet.
	insert(attempt1, &overdueOld)
	insert(attempt2, &overdueRecent)
	insert(attempt3, &future)

	due, err := s.repo.DueForUser(ctx, userID, now, 0)
	s.Require().NoError(err)
	s.Require().Len(due, 2)
	s.Assert().Equal(attempt1, due[0].AttemptID)
	s.Assert().Equal(attempt2, due[1].AttemptID)
	s.Assert().Equal(userID, due[0].UserID)

	limited, err := s.repo.DueForUser(ctx, userID, now, 1)
	s.Require().NoError(err)
	s.Require().Len(limited, 1)
	s.Assert().Equal(attempt1, limited[0].AttemptID)
}

func (s *ReviewRepositorySuite) TestDueForUserUnsetDueSortsFirst() {
	ctx := context.Background()
	userID, _, attempt1 := s.setupAttempt()
	now := time.Now()

	problem2 := testutil.InsertProblem(s.T(), s.db, "LRU Cache", "lru-cache")
	attempt2 := testutil.InsertAttempt(s.T(), s.db, userID, problem2, nil, nil)

	overdue := now.Add(-72 * time.Hour)
	_, err := s.db.ExecContext(ctx, `
INSERT INTO review_records (attempt_id, ease_factor, interval_days, next_due) VALUES (?, 2.5, 1, ?)
`, attempt1, &overdue)
	s.Require().NoError(err)

	_, err = s.db.ExecContext(ctx, `
INSERT INTO review_records (attempt_id, ease_factor, interval_days, next_due) VALUES (?, 2.5, 1, NULL)
`, attempt2)
	s.Require().NoError(err)

	due, err := s.repo.DueForUser(ctx, userID, now, 0)
	s.Require().NoError(err)
	s.Require().Len(due, 2)
	s.Assert().Equal(attempt2, due[0].AttemptID)
	s.Assert().Nil(due[0].NextDue)
}

func (s *ReviewRepositorySuite) TestDueForUserScopedToUser() {
	ctx := context.Background()
	userID, problemID, attemptID := s.setupAttempt()
	now := time.Now()

	otherUser := testutil.InsertUser(s.T(), s.db, "other@example.com", true)
	otherAttempt := testutil.InsertAttempt(s.T(), s.db, otherUser, problemID, nil, nil)

	overdue := now.Add(-1 * time.Hour)
	for _, id := range []int64{attemptID, otherAttempt} {
		_, err := s.db.ExecContext(ctx, `
INSERT INTO review_records (attempt_id, ease_factor, interval_days, next_due) VALUES (?, 2.5, 1, ?)
`, id, &overdue)
		s.Require().NoError(err)
	}

	due, err := s.repo.DueForUser(ctx, userID, now, 0)
	s.Require().NoError(err)
	s.Require().Len(due, 1)
	s.Assert().Equal(attemptID, due[0].AttemptID)
	s.Assert().Equal(userID, due[0].UserID)
}

func TestReviewRepositorySuite(t *testing.T) {
	suite.Run(t, new(ReviewRepositorySuite))
}

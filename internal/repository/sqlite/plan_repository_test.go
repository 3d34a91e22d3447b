package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/recallcode/recallcode/internal/models"
	"github.com/recallcode/recallcode/internal/repository"
	"github.com/recallcode/recallcode/internal/repository/sqlite"
	"github.com/recallcode/recallcode/internal/testutil"
	"github.com/stretchr/testify/suite"
)

type PlanRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.PlanRepository
}

func (s *PlanRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewPlanRepository(s.db)
}

func (s *PlanRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *PlanRepositorySuite) TestCreateIfAbsentIsIdempotent() {
	ctx := context.Background()
	userID := testutil.InsertUser(s.T(), s.db, "dev@example.com", true)

	first, err := s.repo.CreateIfAbsent(ctx, models.DailyPlan{
		UserID:              userID,
		Date:                "2026-08-31",
		DueProblemIDs:       []int64{1, 2, 3},
		NewProblemIDs:       []int64{4, 5},
		AllProblemIDs:       []int64{1, 2, 3, 4, 5},
		CompletedProblemIDs: []int64{},
	})
	s.Require().NoError(err)
	s.Assert().Greater(first.ID, int64(0))
	s.Assert().Equal([]int64{1, 2, 3, 4, 5}, first.AllProblemIDs)

	// Second create for the same (user, date) returns the stored plan.
	second, err := s.repo.CreateIfAbsent(ctx, models.DailyPlan{
		UserID:              userID,
		Date:                "2026-08-31",
		DueProblemIDs:       []int64{9},
		NewProblemIDs:       []int64{},
		AllProblemIDs:       []int64{9},
		CompletedProblemIDs: []int64{},
	})
	s.Require().NoError(err)
	s.Assert().Equal(first.ID, second.ID)
	s.Assert().Equal([]int64{1, 2, 3, 4, 5}, second.AllProblemIDs)
}

func (s *PlanRepositorySuite) TestGetNotFound() {
	ctx := context.Background()

	_, err := s.repo.Get(ctx, 404)
	s.Assert().ErrorIs(err, repository.ErrNotFound)

	_, err = s.repo.GetByUserDate(ctx, 1, "2026-08-31")
	s.Assert().ErrorIs(err, repository.ErrNotFound)
}

func (s *PlanRepositorySuite) TestFillEmptyOnlyFillsEmptyPlans() {
	ctx := context.Background()
	userID := testutil.InsertUser(s.T(), s.db, "dev@example.com", true)

	plan, err := s.repo.CreateIfAbsent(ctx, models.DailyPlan{
		UserID:              userID,
		Date:                "2026-08-31",
		DueProblemIDs:       []int64{},
		NewProblemIDs:       []int64{},
		AllProblemIDs:       []int64{},
		CompletedProblemIDs: []int64{},
	})
	s.Require().NoError(err)

	refill := *plan
	refill.DueProblemIDs = []int64{1}
	refill.NewProblemIDs = []int64{2}
	refill.AllProblemIDs = []int64{1, 2}

	filled, err := s.repo.FillEmpty(ctx, refill)
	s.Require().NoError(err)
	s.Assert().True(filled)

	stored, err := s.repo.Get(ctx, plan.ID)
	s.Require().NoError(err)
	s.Assert().Equal([]int64{1, 2}, stored.AllProblemIDs)

	// A second fill loses the guard: the stored lists stay as they are.
	refill.DueProblemIDs = []int64{7}
	refill.AllProblemIDs = []int64{7}
	filled, err = s.repo.FillEmpty(ctx, refill)
	s.Require().NoError(err)
	s.Assert().False(filled)

	stored, err = s.repo.Get(ctx, plan.ID)
	s.Require().NoError(err)
	s.Assert().Equal([]int64{1, 2}, stored.AllProblemIDs)
}

func (s *PlanRepositorySuite) TestUpdateCompletion() {
	ctx := context.Background()
	userID := testutil.InsertUser(s.T(), s.db, "dev@example.com", true)

	plan, err := s.repo.CreateIfAbsent(ctx, models.DailyPlan{
		UserID:              userID,
		Date:                "2026-08-31",
		DueProblemIDs:       []int64{1},
		NewProblemIDs:       []int64{2},
		AllProblemIDs:       []int64{1, 2},
		CompletedProblemIDs: []int64{},
	})
	s.Require().NoError(err)

	err = s.repo.UpdateCompletion(ctx, plan.ID, []int64{1}, false)
	s.Require().NoError(err)

	stored, err := s.repo.Get(ctx, plan.ID)
	s.Require().NoError(err)
	s.Assert().Equal([]int64{1}, stored.CompletedProblemIDs)
	s.Assert().False(stored.IsCompleted)

	err = s.repo.UpdateCompletion(ctx, plan.ID, []int64{1, 2}, true)
	s.Require().NoError(err)

	stored, err = s.repo.Get(ctx, plan.ID)
	s.Require().NoError(err)
	s.Assert().True(stored.IsCompleted)
}

func (s *PlanRepositorySuite) TestUpdateCompletionMissingPlan() {
	ctx := context.Background()

	err := s.repo.UpdateCompletion(ctx, 9999, []int64{1}, false)
	s.Assert().ErrorIs(err, repository.ErrNotFound)
}

func (s *PlanRepositorySuite) TestEmptyListsRoundTripAsEmptySlices() {
	ctx := context.Background()
	userID := testutil.InsertUser(s.T(), s.db, "dev@example.com", true)

	plan, err := s.repo.CreateIfAbsent(ctx, models.DailyPlan{
		UserID: userID,
		Date:   "2026-08-31",
	})
	s.Require().NoError(err)

	s.Assert().NotNil(plan.DueProblemIDs)
	s.Assert().NotNil(plan.AllProblemIDs)
	s.Assert().Empty(plan.AllProblemIDs)
	s.Assert().Empty(plan.CompletedProblemIDs)
}

func TestPlanRepositorySuite(t *testing.T) {
	suite.Run(t, new(PlanRepositorySuite))
}

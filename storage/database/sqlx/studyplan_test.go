package sqlxrepos

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/studyplanner/core"
	"github.com/trezcool/studyplanner/core/studyplan"
	"github.com/trezcool/studyplanner/tests"
)

func mustDate(t *testing.T, s string) core.Date {
	d, err := core.ParseDate(s)
	require.NoError(t, err)
	return d
}

func newPlan(userID string, weekStart core.Date, courses ...studyplan.Course) studyplan.WeeklyPlan {
	plan := studyplan.WeeklyPlan{UserID: userID, WeekStart: weekStart}
	for i, c := range courses {
		plan.DailySessions = append(plan.DailySessions, studyplan.DailySession{
			Day:      studyplan.Weekdays[i],
			CourseID: c.ID,
			TopicID:  c.Topics[0].ID,
			Tasks:    studyplan.GenerateTasks(60),
		})
	}
	return plan
}

func TestStudyPlanRepository_courses(t *testing.T) {
	db := testutil.PrepareDB(t)
	repo := NewStudyPlanRepository(db)
	ctx := context.Background()

	math := testutil.CreateCourse(t, db, "Mathematics", studyplan.CategoryCore, "Algebra", "Geometry")
	art := testutil.CreateCourse(t, db, "Art", studyplan.CategoryElective, "Colors")
	bio := testutil.CreateCourse(t, db, "Biology", studyplan.CategoryCore)

	courses, err := repo.QueryCoursesByID(ctx, []int{art.ID, 9999, math.ID, art.ID})
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, "Art", courses[0].Name)
	assert.Equal(t, studyplan.CategoryElective, courses[0].Category)
	assert.Equal(t, math.Topics, courses[1].Topics)

	courses, err = repo.QueryCoursesByID(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, courses)

	names, err := repo.QueryCoreCourseNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{bio.Name, math.Name}, names)
}

func TestStudyPlanRepository_plans(t *testing.T) {
	db := testutil.PrepareDB(t)
	repo := NewStudyPlanRepository(db)
	ctx := context.Background()

	math := testutil.CreateCourse(t, db, "Mathematics", studyplan.CategoryCore, "Algebra")
	art := testutil.CreateCourse(t, db, "Art", studyplan.CategoryElective, "Colors")
	week1, week2 := mustDate(t, "2024-01-01"), mustDate(t, "2024-01-08")

	p1, err := repo.CreatePlan(ctx, newPlan("u1", week1, math, art))
	require.NoError(t, err)
	require.NotZero(t, p1.ID)
	for _, s := range p1.DailySessions {
		assert.NotZero(t, s.ID)
	}
	p2, err := repo.CreatePlan(ctx, newPlan("u1", week2, art))
	require.NoError(t, err)
	p3, err := repo.CreatePlan(ctx, newPlan("u1", week1, art, math))
	require.NoError(t, err)
	_, err = repo.CreatePlan(ctx, newPlan("u2", week1, math))
	require.NoError(t, err)

	t.Run("get by id", func(t *testing.T) {
		got, err := repo.GetPlanByID(ctx, p1.ID)
		require.NoError(t, err)
		assert.Equal(t, "u1", got.UserID)
		assert.Equal(t, "2024-01-01", got.WeekStart.String())
		require.Len(t, got.DailySessions, 2)
		assert.Equal(t, studyplan.Monday, got.DailySessions[0].Day)
		assert.Equal(t, "Mathematics", got.DailySessions[0].CourseName)
		assert.Equal(t, "Algebra", got.DailySessions[0].TopicSubject)
		assert.Equal(t, studyplan.GenerateTasks(60), got.DailySessions[0].Tasks)

		_, err = repo.GetPlanByID(ctx, 9999)
		assert.Equal(t, studyplan.ErrPlanNotFound, err)
	})

	t.Run("get by week returns the latest", func(t *testing.T) {
		got, err := repo.GetPlanByWeek(ctx, "u1", week1)
		require.NoError(t, err)
		assert.Equal(t, p3.ID, got.ID)

		_, err = repo.GetPlanByWeek(ctx, "u3", week1)
		assert.Equal(t, studyplan.ErrPlanNotFound, err)
	})

	t.Run("list", func(t *testing.T) {
		plans, err := repo.QueryUserPlans(ctx, "u1")
		require.NoError(t, err)
		ids := make([]int, 0, len(plans))
		for _, p := range plans {
			ids = append(ids, p.ID)
		}
		assert.Equal(t, []int{p2.ID, p3.ID, p1.ID}, ids)

		plans, err = repo.QueryUserPlans(ctx, "nobody")
		require.NoError(t, err)
		assert.NotNil(t, plans)
		assert.Empty(t, plans)
	})

	t.Run("swap", func(t *testing.T) {
		require.NoError(t, repo.SwapSessionDays(ctx, p1.ID, studyplan.Monday, studyplan.Tuesday))
		got, err := repo.GetPlanByID(ctx, p1.ID)
		require.NoError(t, err)
		assert.Equal(t, studyplan.Monday, got.DailySessions[0].Day)
		assert.Equal(t, art.ID, got.DailySessions[0].CourseID)
		assert.Equal(t, math.ID, got.DailySessions[1].CourseID)

		err = repo.SwapSessionDays(ctx, p1.ID, studyplan.Monday, studyplan.Friday)
		assert.Equal(t, studyplan.ErrSwapFailed, err)
		got, err = repo.GetPlanByID(ctx, p1.ID)
		require.NoError(t, err)
		assert.Equal(t, art.ID, got.DailySessions[0].CourseID) // untouched
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.DeletePlan(ctx, p2.ID))
		_, err := repo.GetPlanByID(ctx, p2.ID)
		assert.Equal(t, studyplan.ErrPlanNotFound, err)
		assert.Equal(t, studyplan.ErrPlanNotFound, repo.DeletePlan(ctx, p2.ID))
	})
}

func TestStudyPlanRepository_strengths(t *testing.T) {
	db := testutil.PrepareDB(t)
	repo := NewStudyPlanRepository(db)
	ctx := context.Background()

	math := testutil.CreateCourse(t, db, "Mathematics", studyplan.CategoryCore, "Algebra")
	art := testutil.CreateCourse(t, db, "Art", studyplan.CategoryElective, "Colors")

	s1, err := repo.UpsertStrength(ctx, studyplan.StrengthRating{UserID: "u1", CourseID: math.ID, Strength: 2})
	require.NoError(t, err)
	require.NotZero(t, s1.ID)
	_, err = repo.UpsertStrength(ctx, studyplan.StrengthRating{UserID: "u1", CourseID: art.ID, Strength: 5})
	require.NoError(t, err)

	s1b, err := repo.UpsertStrength(ctx, studyplan.StrengthRating{UserID: "u1", CourseID: math.ID, Strength: 4})
	require.NoError(t, err)
	assert.Equal(t, s1.ID, s1b.ID)

	strengths, err := repo.QueryUserStrengths(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []studyplan.StrengthRating{
		{ID: s1.ID, UserID: "u1", CourseID: math.ID, CourseName: "Mathematics", Strength: 4},
		{ID: strengths[1].ID, UserID: "u1", CourseID: art.ID, CourseName: "Art", Strength: 5},
	}, strengths)

	strengths, err = repo.QueryUserStrengths(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, strengths)
}

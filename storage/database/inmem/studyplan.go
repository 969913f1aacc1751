package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/trezcool/studyplanner/core"
	"github.com/trezcool/studyplanner/core/studyplan"
)

type studyPlanRepository struct {
	db *DB
}

var _ studyplan.Repository = (*studyPlanRepository)(nil) // interface compliance check

func NewStudyPlanRepository(db *DB) *studyPlanRepository {
	return &studyPlanRepository{db: db}
}

func (repo *studyPlanRepository) QueryCoursesByID(_ context.Context, ids []int) ([]studyplan.Course, error) {
	repo.db.course.RLock()
	defer repo.db.course.RUnlock()

	seen := make(map[int]bool, len(ids))
	courses := make([]studyplan.Course, 0, len(ids))
	for _, id := range ids {
		c, ok := repo.db.course.table[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		crs := copyCourse(*c)
		sort.SliceStable(crs.Topics, func(i, j int) bool { return crs.Topics[i].Order < crs.Topics[j].Order })
		courses = append(courses, crs)
	}
	return courses, nil
}

func (repo *studyPlanRepository) QueryCoreCourseNames(_ context.Context) ([]string, error) {
	repo.db.course.RLock()
	defer repo.db.course.RUnlock()

	names := make([]string, 0)
	for _, c := range repo.db.course.table {
		if c.IsCore() {
			names = append(names, c.Name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (repo *studyPlanRepository) CreatePlan(_ context.Context, plan studyplan.WeeklyPlan) (studyplan.WeeklyPlan, error) {
	repo.db.plan.Lock()
	defer repo.db.plan.Unlock()

	repo.db.plan.pkCount++
	plan = copyPlan(plan)
	plan.ID = repo.db.plan.pkCount
	plan.CreatedAt = time.Now().UTC()
	for i := range plan.DailySessions {
		repo.db.plan.sessionPKs++
		plan.DailySessions[i].ID = repo.db.plan.sessionPKs
	}
	repo.db.plan.table[plan.ID] = &plan
	return copyPlan(plan), nil
}

func (repo *studyPlanRepository) GetPlanByID(_ context.Context, id int) (studyplan.WeeklyPlan, error) {
	repo.db.plan.RLock()
	defer repo.db.plan.RUnlock()

	if p, ok := repo.db.plan.table[id]; ok {
		return copyPlan(*p), nil
	}
	return studyplan.WeeklyPlan{}, studyplan.ErrPlanNotFound
}

func (repo *studyPlanRepository) GetPlanByWeek(_ context.Context, userID string, weekStart core.Date) (studyplan.WeeklyPlan, error) {
	repo.db.plan.RLock()
	defer repo.db.plan.RUnlock()

	var latest *studyplan.WeeklyPlan
	for _, p := range repo.db.plan.table {
		if p.UserID == userID && p.WeekStart.Equal(weekStart.Time) && (latest == nil || p.ID > latest.ID) {
			latest = p
		}
	}
	if latest == nil {
		return studyplan.WeeklyPlan{}, studyplan.ErrPlanNotFound
	}
	return copyPlan(*latest), nil
}

func (repo *studyPlanRepository) QueryUserPlans(_ context.Context, userID string) ([]studyplan.WeeklyPlan, error) {
	repo.db.plan.RLock()
	defer repo.db.plan.RUnlock()

	plans := make([]studyplan.WeeklyPlan, 0)
	for _, p := range repo.db.plan.table {
		if p.UserID == userID {
			plans = append(plans, copyPlan(*p))
		}
	}
	sort.Slice(plans, func(i, j int) bool {
		if !plans[i].WeekStart.Equal(plans[j].WeekStart.Time) {
			return plans[i].WeekStart.After(plans[j].WeekStart.Time)
		}
		return plans[i].ID > plans[j].ID
	})
	return plans, nil
}

func (repo *studyPlanRepository) SwapSessionDays(_ context.Context, planID int, from, to studyplan.Weekday) error {
	repo.db.plan.Lock()
	defer repo.db.plan.Unlock()

	p, ok := repo.db.plan.table[planID]
	if !ok {
		return studyplan.ErrSwapFailed
	}
	fromIdx, toIdx := -1, -1
	for i, s := range p.DailySessions {
		switch s.Day {
		case from:
			fromIdx = i
		case to:
			toIdx = i
		}
	}
	if fromIdx < 0 || toIdx < 0 {
		return studyplan.ErrSwapFailed
	}

	sessions := p.DailySessions
	sessions[fromIdx].Day, sessions[toIdx].Day = sessions[toIdx].Day, sessions[fromIdx].Day
	sort.SliceStable(sessions, func(i, j int) bool { return sessions[i].Day.Index() < sessions[j].Day.Index() })
	return nil
}

func (repo *studyPlanRepository) DeletePlan(_ context.Context, id int) error {
	repo.db.plan.Lock()
	defer repo.db.plan.Unlock()

	if _, ok := repo.db.plan.table[id]; !ok {
		return studyplan.ErrPlanNotFound
	}
	delete(repo.db.plan.table, id)
	return nil
}

func (repo *studyPlanRepository) QueryUserStrengths(_ context.Context, userID string) ([]studyplan.StrengthRating, error) {
	repo.db.strength.RLock()
	defer repo.db.strength.RUnlock()

	strengths := make([]studyplan.StrengthRating, 0)
	for key, s := range repo.db.strength.table {
		if key.userID == userID {
			strengths = append(strengths, *s)
		}
	}
	sort.Slice(strengths, func(i, j int) bool { return strengths[i].CourseID < strengths[j].CourseID })
	return strengths, nil
}

func (repo *studyPlanRepository) UpsertStrength(_ context.Context, strength studyplan.StrengthRating) (studyplan.StrengthRating, error) {
	repo.db.strength.Lock()
	defer repo.db.strength.Unlock()

	key := strengthKey{userID: strength.UserID, courseID: strength.CourseID}
	if existing, ok := repo.db.strength.table[key]; ok {
		existing.Strength = strength.Strength
		if strength.CourseName != "" {
			existing.CourseName = strength.CourseName
		}
		return *existing, nil
	}

	repo.db.strength.pkCount++
	strength.ID = repo.db.strength.pkCount
	repo.db.strength.table[key] = &strength
	return strength, nil
}

package studyplan

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/studyplanner/core"
)

var (
	// errors
	ErrPlanNotFound   = errors.New("study plan not found")
	ErrNoCurrentPlan  = errors.New("no study plan for current week")
	ErrNoWeekPlan     = errors.New("no study plan found for specified week")
	ErrCourseNotFound = errors.New("course not found")
	ErrNoCourses      = errors.New("none of the selected courses exist")
	ErrSwapFailed     = errors.New("swap failed")

	errInvalidWeekDate = "Invalid date format. Use YYYY-MM-DD"
)

// IsNotFound reports whether err is caused by a missing (or not owned) plan or course.
func IsNotFound(err error) bool {
	switch errors.Cause(err) {
	case ErrPlanNotFound, ErrNoCurrentPlan, ErrNoWeekPlan, ErrCourseNotFound:
		return true
	}
	return false
}

type (
	CourseRepository interface {
		// QueryCoursesByID returns the existing courses among ids, with their topics ordered by Topic.Order.
		QueryCoursesByID(ctx context.Context, ids []int) ([]Course, error)
		QueryCoreCourseNames(ctx context.Context) ([]string, error)
	}

	PlanRepository interface {
		// CreatePlan saves the plan and its sessions atomically.
		CreatePlan(ctx context.Context, plan WeeklyPlan) (WeeklyPlan, error)
		GetPlanByID(ctx context.Context, id int) (WeeklyPlan, error)
		// GetPlanByWeek returns the latest plan of the user for the week starting at weekStart.
		GetPlanByWeek(ctx context.Context, userID string, weekStart core.Date) (WeeklyPlan, error)
		QueryUserPlans(ctx context.Context, userID string) ([]WeeklyPlan, error)
		// SwapSessionDays exchanges the days of the plan's from & to sessions atomically.
		// Returns ErrSwapFailed, without changes, if any of them does not exist.
		SwapSessionDays(ctx context.Context, planID int, from, to Weekday) error
		DeletePlan(ctx context.Context, id int) error
	}

	StrengthRepository interface {
		QueryUserStrengths(ctx context.Context, userID string) ([]StrengthRating, error)
		UpsertStrength(ctx context.Context, strength StrengthRating) (StrengthRating, error)
	}

	Repository interface {
		CourseRepository
		PlanRepository
		StrengthRepository
	}

	ServiceInterface interface {
		Generate(ctx context.Context, userID string, req GenerateRequest) (WeeklyPlan, error)
		Swap(ctx context.Context, userID string, req SwapRequest) error
		Strengths(ctx context.Context, userID string) ([]StrengthRating, error)
		UpdateStrength(ctx context.Context, userID string, courseID, strength int) (StrengthRating, error)
		CurrentWeekPlan(ctx context.Context, userID string) (WeeklyPlan, error)
		PlanByID(ctx context.Context, userID string, planID int) (WeeklyPlan, error)
		PlanByWeek(ctx context.Context, userID, weekDate string) (WeeklyPlan, error)
		ListPlans(ctx context.Context, userID string) ([]WeeklyPlan, error)
		DeletePlan(ctx context.Context, userID string, planID int) error
		FlushUserCache(ctx context.Context, userID string) error
	}

	Service struct {
		repo           Repository
		cache          core.Cache
		logger         core.Logger
		planTTL        time.Duration
		courseNamesTTL time.Duration
		now            func() time.Time
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(conf *core.Config, repo Repository, cache core.Cache, logger core.Logger) *Service {
	planTTL, namesTTL := conf.Cache.PlanTTL, conf.Cache.CourseNamesTTL
	if planTTL <= 0 {
		planTTL = 30 * time.Minute
	}
	if namesTTL <= 0 {
		namesTTL = time.Hour
	}
	return &Service{
		repo:           repo,
		cache:          cache,
		logger:         logger,
		planTTL:        planTTL,
		courseNamesTTL: namesTTL,
		now:            time.Now,
	}
}

// Generate creates the user's WeeklyPlan for the current week.
// An existing plan for the same week is left untouched.
func (svc *Service) Generate(ctx context.Context, userID string, req GenerateRequest) (WeeklyPlan, error) {
	courses, err := svc.selectedCourses(ctx, req.SelectedCourses)
	if err != nil {
		return WeeklyPlan{}, err
	}

	strengths, err := svc.strengths(ctx, userID, req)
	if err != nil {
		return WeeklyPlan{}, err
	}

	coreCourses, electives := Classify(courses)
	allocation := AllocateDays(coreCourses, electives, strengths)
	completed := completedSet(req.CompletedTopics)
	tasks := GenerateTasks(req.DailyStudyTime)

	plan := WeeklyPlan{
		UserID:        userID,
		WeekStart:     WeekStart(svc.now()),
		DailySessions: make([]DailySession, 0, len(Weekdays)),
	}
	for _, day := range Weekdays {
		course, ok := allocation[day]
		if !ok {
			continue
		}
		topic, ok := SelectTopic(course, completed)
		if !ok {
			svc.logger.Debug("skipping day: course has no topics", map[string]interface{}{"day": day, "course_id": course.ID})
			continue
		}
		plan.DailySessions = append(plan.DailySessions, DailySession{
			Day:          day,
			CourseID:     course.ID,
			CourseName:   course.Name,
			TopicID:      topic.ID,
			TopicSubject: topic.Subject,
			Tasks:        append([]Task(nil), tasks...),
		})
	}

	plan, err = svc.repo.CreatePlan(ctx, plan)
	if err != nil {
		return WeeklyPlan{}, errors.Wrap(err, "creating study plan")
	}

	svc.invalidate(ctx, currentWeekPlanKey(userID), userPlansKey(userID), weekPlanKey(userID, plan.WeekStart))
	return plan, nil
}

// selectedCourses returns the selected courses in selection order, core courses tagged.
func (svc *Service) selectedCourses(ctx context.Context, ids []int) ([]Course, error) {
	found, err := svc.repo.QueryCoursesByID(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "querying selected courses")
	}
	if len(found) == 0 {
		return nil, core.NewValidationError(ErrNoCourses, core.FieldError{Field: "selected_subjects", Error: ErrNoCourses.Error()})
	}

	coreNames := svc.coreCourseNames(ctx)
	byID := make(map[int]Course, len(found))
	for _, c := range found {
		if coreNames[c.Name] {
			c.Category = CategoryCore
		}
		byID[c.ID] = c
	}

	courses := make([]Course, 0, len(found))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			courses = append(courses, c)
			delete(byID, id) // ignore duplicates
		}
	}
	return courses, nil
}

// coreCourseNames returns the set of core course names.
// It never fails: on error the courses keep their own category.
func (svc *Service) coreCourseNames(ctx context.Context) map[string]bool {
	names, err := cached(ctx, svc, coreCourseNamesKey, svc.courseNamesTTL, func() ([]string, error) {
		return svc.repo.QueryCoreCourseNames(ctx)
	})
	if err != nil {
		svc.logger.Warn("querying core course names", err)
	}
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return set
}

// strengths returns the user's saved strengths overridden by the request ratings.
func (svc *Service) strengths(ctx context.Context, userID string, req GenerateRequest) (Strengths, error) {
	saved, err := svc.repo.QueryUserStrengths(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "querying user strengths")
	}
	strengths := make(Strengths, len(saved)+len(req.StrengthRatings))
	for _, s := range saved {
		strengths[s.CourseID] = s.Strength
	}
	for id, s := range req.Strengths() {
		strengths[id] = s
	}
	return strengths, nil
}

// Swap exchanges the days of two sessions of the user's current week plan.
func (svc *Service) Swap(ctx context.Context, userID string, req SwapRequest) error {
	if !req.FromDay.IsValid() || !req.ToDay.IsValid() {
		return core.NewValidationError(nil, core.FieldError{Field: "day_of_week", Error: weekdayText})
	}

	plan, err := svc.repo.GetPlanByWeek(ctx, userID, WeekStart(svc.now()))
	if err != nil {
		if errors.Cause(err) == ErrPlanNotFound {
			return ErrSwapFailed
		}
		return errors.Wrap(err, "getting current week plan")
	}
	if _, ok := plan.Session(req.FromDay); !ok {
		return ErrSwapFailed
	}
	if _, ok := plan.Session(req.ToDay); !ok {
		return ErrSwapFailed
	}

	if err = svc.repo.SwapSessionDays(ctx, plan.ID, req.FromDay, req.ToDay); err != nil {
		if errors.Cause(err) == ErrSwapFailed {
			return ErrSwapFailed
		}
		return errors.Wrap(err, "swapping session days")
	}

	svc.invalidate(ctx, planKeys(plan)...)
	return nil
}

func (svc *Service) Strengths(ctx context.Context, userID string) ([]StrengthRating, error) {
	strengths, err := svc.repo.QueryUserStrengths(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "querying user strengths")
	}
	return strengths, nil
}

// UpdateStrength creates or updates the user's strength for the course.
// Existing plans are not affected.
func (svc *Service) UpdateStrength(ctx context.Context, userID string, courseID, strength int) (StrengthRating, error) {
	if strength < MinStrength || strength > MaxStrength {
		return StrengthRating{}, core.NewValidationError(nil, core.FieldError{Field: "strength", Error: "strength must be between 1 and 5"})
	}

	courses, err := svc.repo.QueryCoursesByID(ctx, []int{courseID})
	if err != nil {
		return StrengthRating{}, errors.Wrap(err, "querying course")
	}
	if len(courses) == 0 {
		return StrengthRating{}, ErrCourseNotFound
	}

	rating, err := svc.repo.UpsertStrength(ctx, StrengthRating{
		UserID:     userID,
		CourseID:   courseID,
		CourseName: courses[0].Name,
		Strength:   strength,
	})
	if err != nil {
		return StrengthRating{}, errors.Wrap(err, "saving strength")
	}
	return rating, nil
}

// CurrentWeekPlan returns the user's plan for the current week.
func (svc *Service) CurrentWeekPlan(ctx context.Context, userID string) (WeeklyPlan, error) {
	weekStart := WeekStart(svc.now())
	key := currentWeekPlanKey(userID)
	fetch := func() (WeeklyPlan, error) {
		plan, err := svc.repo.GetPlanByWeek(ctx, userID, weekStart)
		if err != nil {
			if errors.Cause(err) == ErrPlanNotFound {
				return WeeklyPlan{}, ErrNoCurrentPlan
			}
			return WeeklyPlan{}, errors.Wrap(err, "getting current week plan")
		}
		return plan, nil
	}

	plan, err := cached(ctx, svc, key, svc.planTTL, fetch)
	if err != nil {
		return WeeklyPlan{}, err
	}
	if !plan.WeekStart.Equal(weekStart.Time) { // cached during last week
		if plan, err = fetch(); err != nil {
			return WeeklyPlan{}, err
		}
		svc.store(ctx, key, plan, svc.planTTL)
	}
	return plan, nil
}

// PlanByID returns the user's plan planID. Plans of other users are not found.
func (svc *Service) PlanByID(ctx context.Context, userID string, planID int) (WeeklyPlan, error) {
	return cached(ctx, svc, planKey(userID, planID), svc.planTTL, func() (WeeklyPlan, error) {
		return svc.ownedPlan(ctx, userID, planID)
	})
}

// PlanByWeek returns the user's plan for the week containing weekDate ("YYYY-MM-DD").
func (svc *Service) PlanByWeek(ctx context.Context, userID, weekDate string) (WeeklyPlan, error) {
	date, err := core.ParseDate(weekDate)
	if err != nil {
		return WeeklyPlan{}, core.NewValidationError(err, core.FieldError{Field: "week_date", Error: errInvalidWeekDate})
	}
	weekStart := WeekStart(date.Time)

	return cached(ctx, svc, weekPlanKey(userID, weekStart), svc.planTTL, func() (WeeklyPlan, error) {
		plan, err := svc.repo.GetPlanByWeek(ctx, userID, weekStart)
		if err != nil {
			if errors.Cause(err) == ErrPlanNotFound {
				return WeeklyPlan{}, ErrNoWeekPlan
			}
			return WeeklyPlan{}, errors.Wrap(err, "getting week plan")
		}
		return plan, nil
	})
}

// ListPlans returns all the user's plans, latest week first.
func (svc *Service) ListPlans(ctx context.Context, userID string) ([]WeeklyPlan, error) {
	return cached(ctx, svc, userPlansKey(userID), svc.planTTL, func() ([]WeeklyPlan, error) {
		plans, err := svc.repo.QueryUserPlans(ctx, userID)
		if err != nil {
			return nil, errors.Wrap(err, "querying user plans")
		}
		if plans == nil {
			plans = make([]WeeklyPlan, 0)
		}
		return plans, nil
	})
}

// DeletePlan deletes the user's plan planID. Plans of other users are not found.
func (svc *Service) DeletePlan(ctx context.Context, userID string, planID int) error {
	plan, err := svc.ownedPlan(ctx, userID, planID)
	if err != nil {
		return err
	}
	if err = svc.repo.DeletePlan(ctx, plan.ID); err != nil {
		return errors.Wrap(err, "deleting study plan")
	}
	svc.invalidate(ctx, planKeys(plan)...)
	return nil
}

// FlushUserCache removes every cached plan view of the user.
func (svc *Service) FlushUserCache(ctx context.Context, userID string) error {
	plans, err := svc.repo.QueryUserPlans(ctx, userID)
	if err != nil {
		return errors.Wrap(err, "querying user plans")
	}
	keys := []string{currentWeekPlanKey(userID), userPlansKey(userID)}
	for _, p := range plans {
		keys = append(keys, planKey(userID, p.ID), weekPlanKey(userID, p.WeekStart))
	}
	if err = svc.cache.Delete(ctx, keys...); err != nil {
		return errors.Wrap(err, "deleting cache keys")
	}
	return nil
}

func (svc *Service) ownedPlan(ctx context.Context, userID string, planID int) (WeeklyPlan, error) {
	plan, err := svc.repo.GetPlanByID(ctx, planID)
	if err != nil {
		if errors.Cause(err) == ErrPlanNotFound {
			return WeeklyPlan{}, ErrPlanNotFound
		}
		return WeeklyPlan{}, errors.Wrap(err, "getting study plan")
	}
	if plan.UserID != userID {
		return WeeklyPlan{}, ErrPlanNotFound
	}
	return plan, nil
}

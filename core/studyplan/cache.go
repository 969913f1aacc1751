package studyplan

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/studyplanner/core"
)

const coreCourseNamesKey = "core_course_names"

func currentWeekPlanKey(userID string) string { return "user_current_week_plan:" + userID }

func userPlansKey(userID string) string { return "user_study_plans:" + userID }

func planKey(userID string, planID int) string {
	return fmt.Sprintf("user_study_plan:%s:%d", userID, planID)
}

func weekPlanKey(userID string, weekStart core.Date) string {
	return fmt.Sprintf("user_study_plan_week:%s:%s", userID, weekStart)
}

// planKeys returns all the cache keys holding a view of plan.
func planKeys(plan WeeklyPlan) []string {
	return []string{
		currentWeekPlanKey(plan.UserID),
		userPlansKey(plan.UserID),
		planKey(plan.UserID, plan.ID),
		weekPlanKey(plan.UserID, plan.WeekStart),
	}
}

// cached returns the value stored under key if any; otherwise it calls fetch and caches the result for ttl.
// Cache failures and corrupted entries are logged and treated as misses.
func cached[T any](ctx context.Context, svc *Service, key string, ttl time.Duration, fetch func() (T, error)) (T, error) {
	data, err := svc.cache.Get(ctx, key)
	switch {
	case err == nil:
		var val T
		if err = json.Unmarshal(data, &val); err == nil {
			return val, nil
		}
		svc.logger.Warn("ignoring corrupted cache entry", errors.Wrap(err, "decoding "+key))
	case errors.Cause(err) != core.ErrCacheMiss:
		svc.logger.Warn("cache read failed", errors.Wrap(err, "getting "+key))
	}

	val, err := fetch()
	if err != nil {
		return val, err
	}
	svc.store(ctx, key, val, ttl)
	return val, nil
}

func (svc *Service) store(ctx context.Context, key string, val interface{}, ttl time.Duration) {
	data, err := json.Marshal(val)
	if err != nil {
		svc.logger.Warn("cache write skipped", errors.Wrap(err, "encoding "+key))
		return
	}
	if err = svc.cache.Set(ctx, key, data, ttl); err != nil {
		svc.logger.Warn("cache write failed", errors.Wrap(err, "setting "+key))
	}
}

func (svc *Service) invalidate(ctx context.Context, keys ...string) {
	if err := svc.cache.Delete(ctx, keys...); err != nil {
		svc.logger.Warn("cache invalidation failed", errors.Wrap(err, "deleting keys"), map[string]interface{}{"keys": keys})
	}
}

package sqlxrepos

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/studyplanner/core"
	"github.com/trezcool/studyplanner/core/studyplan"
)

type (
	courseRow struct {
		ID       int    `db:"id"`
		Name     string `db:"name"`
		Category string `db:"category"`
	}

	topicRow struct {
		ID       int    `db:"id"`
		CourseID int    `db:"course_id"`
		Position int    `db:"position"`
		Subject  string `db:"subject"`
		Content  string `db:"content"`
	}

	planRow struct {
		ID        int       `db:"id"`
		UserID    string    `db:"user_id"`
		WeekStart core.Date `db:"week_start_date"`
	}

	sessionRow struct {
		ID           int         `db:"id"`
		PlanID       int         `db:"plan_id"`
		Day          string      `db:"day_of_week"`
		CourseID     int         `db:"course_id"`
		CourseName   string      `db:"course_name"`
		TopicID      int         `db:"topic_id"`
		TopicSubject string      `db:"topic_subject"`
		Tasks        tasksColumn `db:"tasks"`
	}

	strengthRow struct {
		ID         int    `db:"id"`
		UserID     string `db:"user_id"`
		CourseID   int    `db:"course_id"`
		CourseName string `db:"course_name"`
		Strength   int    `db:"strength"`
	}

	// tasksColumn stores the session tasks as a JSON array.
	tasksColumn []studyplan.Task
)

func (t tasksColumn) Value() (driver.Value, error) {
	if t == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]studyplan.Task(t))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (t *tasksColumn) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		*t = tasksColumn{}
		return nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return errors.Errorf("cannot scan %T into tasks", value)
	}
	return json.Unmarshal(data, (*[]studyplan.Task)(t))
}

type studyPlanRepository struct {
	db *sqlx.DB
}

var _ studyplan.Repository = (*studyPlanRepository)(nil) // interface compliance check

func NewStudyPlanRepository(db *sqlx.DB) *studyPlanRepository {
	return &studyPlanRepository{db: db}
}

// withTx runs fn in a transaction, committed if fn succeeds.
func (repo *studyPlanRepository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "starting transaction")
	}
	if err = fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "committing transaction")
	}
	return nil
}

func (repo *studyPlanRepository) QueryCoursesByID(ctx context.Context, ids []int) ([]studyplan.Course, error) {
	if len(ids) == 0 {
		return []studyplan.Course{}, nil
	}

	query, args, err := sqlx.In(`SELECT id, name, category FROM courses WHERE id IN (?)`, ids)
	if err != nil {
		return nil, errors.Wrap(err, "building courses query")
	}
	var rows []courseRow
	if err = repo.db.SelectContext(ctx, &rows, repo.db.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "querying courses")
	}
	if len(rows) == 0 {
		return []studyplan.Course{}, nil
	}

	courseIDs := make([]int, 0, len(rows))
	for _, r := range rows {
		courseIDs = append(courseIDs, r.ID)
	}
	query, args, err = sqlx.In(
		`SELECT id, course_id, position, subject, content FROM topics WHERE course_id IN (?) ORDER BY course_id, position, id`,
		courseIDs,
	)
	if err != nil {
		return nil, errors.Wrap(err, "building topics query")
	}
	var topics []topicRow
	if err = repo.db.SelectContext(ctx, &topics, repo.db.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "querying topics")
	}

	byCourse := make(map[int][]studyplan.Topic, len(rows))
	for _, t := range topics {
		byCourse[t.CourseID] = append(byCourse[t.CourseID], studyplan.Topic{
			ID:       t.ID,
			CourseID: t.CourseID,
			Order:    t.Position,
			Subject:  t.Subject,
			Content:  t.Content,
		})
	}

	// keep the ids order
	byID := make(map[int]courseRow, len(rows))
	for _, r := range rows {
		byID[r.ID] = r
	}
	courses := make([]studyplan.Course, 0, len(rows))
	for _, id := range ids {
		r, ok := byID[id]
		if !ok {
			continue
		}
		delete(byID, id)
		courses = append(courses, studyplan.Course{
			ID:       r.ID,
			Name:     r.Name,
			Category: studyplan.Category(r.Category),
			Topics:   byCourse[r.ID],
		})
	}
	return courses, nil
}

func (repo *studyPlanRepository) QueryCoreCourseNames(ctx context.Context) ([]string, error) {
	names := make([]string, 0)
	query := repo.db.Rebind(`SELECT name FROM courses WHERE category = ? ORDER BY name`)
	if err := repo.db.SelectContext(ctx, &names, query, string(studyplan.CategoryCore)); err != nil {
		return nil, errors.Wrap(err, "querying core course names")
	}
	return names, nil
}

func (repo *studyPlanRepository) CreatePlan(ctx context.Context, plan studyplan.WeeklyPlan) (studyplan.WeeklyPlan, error) {
	plan.CreatedAt = time.Now().UTC()
	err := repo.withTx(ctx, func(tx *sqlx.Tx) error {
		query := tx.Rebind(`INSERT INTO weekly_plans (user_id, week_start_date) VALUES (?, ?) RETURNING id`)
		if err := tx.QueryRowxContext(ctx, query, plan.UserID, plan.WeekStart).Scan(&plan.ID); err != nil {
			return errors.Wrap(err, "inserting plan")
		}

		query = tx.Rebind(
			`INSERT INTO daily_sessions (plan_id, day_of_week, course_id, topic_id, tasks) VALUES (?, ?, ?, ?, ?) RETURNING id`,
		)
		for i, s := range plan.DailySessions {
			err := tx.QueryRowxContext(ctx, query, plan.ID, string(s.Day), s.CourseID, s.TopicID, tasksColumn(s.Tasks)).
				Scan(&plan.DailySessions[i].ID)
			if err != nil {
				return errors.Wrapf(err, "inserting %s session", s.Day)
			}
		}
		return nil
	})
	if err != nil {
		return studyplan.WeeklyPlan{}, err
	}
	return plan, nil
}

func (repo *studyPlanRepository) GetPlanByID(ctx context.Context, id int) (studyplan.WeeklyPlan, error) {
	query := repo.db.Rebind(`SELECT id, user_id, week_start_date FROM weekly_plans WHERE id = ?`)
	return repo.getPlan(ctx, query, id)
}

func (repo *studyPlanRepository) GetPlanByWeek(ctx context.Context, userID string, weekStart core.Date) (studyplan.WeeklyPlan, error) {
	query := repo.db.Rebind(
		`SELECT id, user_id, week_start_date FROM weekly_plans WHERE user_id = ? AND week_start_date = ? ORDER BY id DESC LIMIT 1`,
	)
	return repo.getPlan(ctx, query, userID, weekStart)
}

func (repo *studyPlanRepository) getPlan(ctx context.Context, query string, args ...interface{}) (studyplan.WeeklyPlan, error) {
	var row planRow
	if err := repo.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return studyplan.WeeklyPlan{}, studyplan.ErrPlanNotFound
		}
		return studyplan.WeeklyPlan{}, errors.Wrap(err, "querying plan")
	}
	plans, err := repo.withSessions(ctx, []planRow{row})
	if err != nil {
		return studyplan.WeeklyPlan{}, err
	}
	return plans[0], nil
}

func (repo *studyPlanRepository) QueryUserPlans(ctx context.Context, userID string) ([]studyplan.WeeklyPlan, error) {
	var rows []planRow
	query := repo.db.Rebind(
		`SELECT id, user_id, week_start_date FROM weekly_plans WHERE user_id = ? ORDER BY week_start_date DESC, id DESC`,
	)
	if err := repo.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, errors.Wrap(err, "querying plans")
	}
	return repo.withSessions(ctx, rows)
}

// withSessions loads the sessions of the plans, with their course names & topic subjects.
func (repo *studyPlanRepository) withSessions(ctx context.Context, rows []planRow) ([]studyplan.WeeklyPlan, error) {
	plans := make([]studyplan.WeeklyPlan, 0, len(rows))
	if len(rows) == 0 {
		return plans, nil
	}

	ids := make([]int, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	query, args, err := sqlx.In(`
		SELECT s.id, s.plan_id, s.day_of_week, s.course_id, c.name AS course_name, s.topic_id, t.subject AS topic_subject, s.tasks
		FROM daily_sessions s
		JOIN courses c ON c.id = s.course_id
		JOIN topics t ON t.id = s.topic_id
		WHERE s.plan_id IN (?)
		ORDER BY s.plan_id, s.id`, ids)
	if err != nil {
		return nil, errors.Wrap(err, "building sessions query")
	}
	var sessions []sessionRow
	if err = repo.db.SelectContext(ctx, &sessions, repo.db.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "querying sessions")
	}

	byPlan := make(map[int][]studyplan.DailySession, len(rows))
	for _, s := range sessions {
		byPlan[s.PlanID] = append(byPlan[s.PlanID], studyplan.DailySession{
			ID:           s.ID,
			Day:          studyplan.Weekday(s.Day),
			CourseID:     s.CourseID,
			CourseName:   s.CourseName,
			TopicID:      s.TopicID,
			TopicSubject: s.TopicSubject,
			Tasks:        []studyplan.Task(s.Tasks),
		})
	}

	for _, r := range rows {
		daily := byPlan[r.ID]
		if daily == nil {
			daily = make([]studyplan.DailySession, 0)
		}
		sort.SliceStable(daily, func(i, j int) bool { return daily[i].Day.Index() < daily[j].Day.Index() })
		plans = append(plans, studyplan.WeeklyPlan{
			ID:            r.ID,
			UserID:        r.UserID,
			WeekStart:     r.WeekStart,
			DailySessions: daily,
		})
	}
	return plans, nil
}

func (repo *studyPlanRepository) SwapSessionDays(ctx context.Context, planID int, from, to studyplan.Weekday) error {
	return repo.withTx(ctx, func(tx *sqlx.Tx) error {
		var count int
		query := tx.Rebind(`SELECT COUNT(*) FROM daily_sessions WHERE plan_id = ? AND day_of_week IN (?, ?)`)
		if err := tx.GetContext(ctx, &count, query, planID, string(from), string(to)); err != nil {
			return errors.Wrap(err, "counting sessions")
		}
		if count != 2 {
			return studyplan.ErrSwapFailed
		}

		query = tx.Rebind(`
			UPDATE daily_sessions
			SET day_of_week = CASE WHEN day_of_week = ? THEN ? ELSE ? END
			WHERE plan_id = ? AND day_of_week IN (?, ?)`)
		_, err := tx.ExecContext(ctx, query, string(from), string(to), string(from), planID, string(from), string(to))
		if err != nil {
			return errors.Wrap(err, "swapping sessions")
		}
		return nil
	})
}

func (repo *studyPlanRepository) DeletePlan(ctx context.Context, id int) error {
	return repo.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM daily_sessions WHERE plan_id = ?`), id); err != nil {
			return errors.Wrap(err, "deleting sessions")
		}
		res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM weekly_plans WHERE id = ?`), id)
		if err != nil {
			return errors.Wrap(err, "deleting plan")
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return studyplan.ErrPlanNotFound
		}
		return nil
	})
}

func (repo *studyPlanRepository) QueryUserStrengths(ctx context.Context, userID string) ([]studyplan.StrengthRating, error) {
	var rows []strengthRow
	query := repo.db.Rebind(`
		SELECT s.id, s.user_id, s.course_id, c.name AS course_name, s.strength
		FROM strength_ratings s
		JOIN courses c ON c.id = s.course_id
		WHERE s.user_id = ?
		ORDER BY s.course_id`)
	if err := repo.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, errors.Wrap(err, "querying strengths")
	}

	strengths := make([]studyplan.StrengthRating, 0, len(rows))
	for _, r := range rows {
		strengths = append(strengths, studyplan.StrengthRating(r))
	}
	return strengths, nil
}

func (repo *studyPlanRepository) UpsertStrength(ctx context.Context, strength studyplan.StrengthRating) (studyplan.StrengthRating, error) {
	query := repo.db.Rebind(`
		INSERT INTO strength_ratings (user_id, course_id, strength) VALUES (?, ?, ?)
		ON CONFLICT (user_id, course_id) DO UPDATE SET strength = excluded.strength
		RETURNING id`)
	err := repo.db.QueryRowxContext(ctx, query, strength.UserID, strength.CourseID, strength.Strength).Scan(&strength.ID)
	if err != nil {
		return studyplan.StrengthRating{}, errors.Wrap(err, "upserting strength")
	}
	return strength, nil
}

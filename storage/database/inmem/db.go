package inmemdb

import (
	"sync"

	"github.com/trezcool/studyplanner/core/studyplan"
)

type (
	DB struct {
		course   *courseTable
		plan     *planTable
		strength *strengthTable
	}

	courseTable struct {
		sync.RWMutex
		table map[int]*studyplan.Course
	}

	planTable struct {
		sync.RWMutex
		table      map[int]*studyplan.WeeklyPlan
		pkCount    int
		sessionPKs int
	}

	strengthKey struct {
		userID   string
		courseID int
	}

	strengthTable struct {
		sync.RWMutex
		table   map[strengthKey]*studyplan.StrengthRating
		pkCount int
	}
)

func Open() (*DB, error) {
	db := &DB{
		course:   &courseTable{table: make(map[int]*studyplan.Course)},
		plan:     &planTable{table: make(map[int]*studyplan.WeeklyPlan)},
		strength: &strengthTable{table: make(map[strengthKey]*studyplan.StrengthRating)},
	}
	return db, nil
}

// AddCourses stores (or replaces) courses by ID.
func (db *DB) AddCourses(courses ...studyplan.Course) {
	db.course.Lock()
	defer db.course.Unlock()

	for _, c := range courses {
		c := copyCourse(c)
		db.course.table[c.ID] = &c
	}
}

func copyCourse(c studyplan.Course) studyplan.Course {
	c.Topics = append([]studyplan.Topic(nil), c.Topics...)
	return c
}

func copyPlan(p studyplan.WeeklyPlan) studyplan.WeeklyPlan {
	sessions := make([]studyplan.DailySession, len(p.DailySessions))
	for i, s := range p.DailySessions {
		s.Tasks = append([]studyplan.Task(nil), s.Tasks...)
		sessions[i] = s
	}
	p.DailySessions = sessions
	return p
}

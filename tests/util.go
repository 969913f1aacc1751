package testutil

import (
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/studyplanner/core"
	"github.com/trezcool/studyplanner/core/studyplan"
	"github.com/trezcool/studyplanner/storage/database"
)

// NewConfig returns a TEST Config using sqlite in memory & the memory cache.
func NewConfig() *core.Config {
	return &core.Config{
		AppName:   "Masomo",
		Env:       "TEST",
		Debug:     true,
		TestMode:  true,
		SecretKey: "test-secret",
		Server: core.ServerConfig{
			ShutdownTimeout:    time.Second,
			JWTExpirationDelta: time.Hour,
			DisableReqLogs:     true,
		},
		Database: core.DatabaseConfig{
			Engine: database.EngineSQLite,
			Path:   database.MemoryPath,
		},
		Cache: core.CacheConfig{
			Engine:         "memory",
			PlanTTL:        30 * time.Minute,
			CourseNamesTTL: time.Hour,
		},
	}
}

// PrepareDB opens a migrated in-memory sqlite database, closed on test cleanup.
func PrepareDB(t *testing.T) *sqlx.DB {
	t.Helper()

	conf := NewConfig()
	db, err := database.Open(conf)
	if err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err = database.Migrate(db.DB, conf.Database.Engine); err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	return db
}

// CreateCourse inserts a course and its topics (subjects ordered as given).
func CreateCourse(t *testing.T, db *sqlx.DB, name string, category studyplan.Category, subjects ...string) studyplan.Course {
	t.Helper()

	crs := studyplan.Course{Name: name, Category: category, Topics: make([]studyplan.Topic, 0, len(subjects))}
	query := db.Rebind(`INSERT INTO courses (name, category) VALUES (?, ?) RETURNING id`)
	if err := db.QueryRowx(query, name, string(category)).Scan(&crs.ID); err != nil {
		t.Fatalf("CreateCourse() failed: %v", err)
	}

	query = db.Rebind(`INSERT INTO topics (course_id, position, subject) VALUES (?, ?, ?) RETURNING id`)
	for i, subject := range subjects {
		topic := studyplan.Topic{CourseID: crs.ID, Order: i + 1, Subject: subject}
		if err := db.QueryRowx(query, crs.ID, topic.Order, subject).Scan(&topic.ID); err != nil {
			t.Fatalf("CreateCourse() failed: %v", err)
		}
		crs.Topics = append(crs.Topics, topic)
	}
	return crs
}

// Course builds an unsaved course with topics numbered from id*100+1.
func Course(id int, name string, category studyplan.Category, subjects ...string) studyplan.Course {
	crs := studyplan.Course{ID: id, Name: name, Category: category, Topics: make([]studyplan.Topic, 0, len(subjects))}
	for i, subject := range subjects {
		crs.Topics = append(crs.Topics, studyplan.Topic{
			ID:       id*100 + i + 1,
			CourseID: id,
			Order:    i + 1,
			Subject:  subject,
		})
	}
	return crs
}

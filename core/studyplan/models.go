package studyplan

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/studyplanner/core"
)

// Course categories
const (
	CategoryCore     Category = "core"
	CategoryElective Category = "elective"
)

// Weekdays
const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
)

// Task types
const (
	TaskReading    TaskType = "reading"
	TaskFlashcards TaskType = "flashcards"
	TaskQuiz       TaskType = "quiz"
)

const (
	DefaultStrength = 3
	MinStrength     = 1
	MaxStrength     = 5

	// MaxSelectedCourses is the upper limit of courses a plan can be generated for.
	MaxSelectedCourses = 8
)

// Weekdays are the plan slots, in order.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday}

type (
	Category string
	Weekday  string
	TaskType string
)

// Index returns the position of the day in Weekdays, or -1.
func (d Weekday) Index() int {
	for i, day := range Weekdays {
		if day == d {
			return i
		}
	}
	return -1
}

func (d Weekday) IsValid() bool { return d.Index() >= 0 }

// ParseWeekday accepts any case and surrounding whitespace, eg. " Monday ".
func ParseWeekday(s string) (Weekday, bool) {
	d := Weekday(core.CleanString(s, true /* lower */))
	return d, d.IsValid()
}

type Topic struct {
	ID       int    `json:"id"`
	CourseID int    `json:"course_id"`
	Order    int    `json:"order"`
	Subject  string `json:"subject"`
	Content  string `json:"content,omitempty"`
}

type Course struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Topics   []Topic  `json:"topics,omitempty"` // ordered by Topic.Order
}

func (c Course) IsCore() bool { return c.Category == CategoryCore }

type Task struct {
	Type     TaskType `json:"type"`
	Duration int      `json:"duration"` // minutes
}

type DailySession struct {
	ID           int     `json:"id"`
	Day          Weekday `json:"day_of_week"`
	CourseID     int     `json:"course_id"`
	CourseName   string  `json:"course_name"`
	TopicID      int     `json:"topic_id"`
	TopicSubject string  `json:"topic_subject"`
	Tasks        []Task  `json:"tasks"`
}

type WeeklyPlan struct {
	ID            int            `json:"id"`
	UserID        string         `json:"user_id"`
	WeekStart     core.Date      `json:"week_start_date"`
	DailySessions []DailySession `json:"daily_sessions"` // ordered by Weekdays
	CreatedAt     time.Time      `json:"-"`
}

// Session returns the plan's session for day.
func (p WeeklyPlan) Session(day Weekday) (DailySession, bool) {
	for _, s := range p.DailySessions {
		if s.Day == day {
			return s, true
		}
	}
	return DailySession{}, false
}

type StrengthRating struct {
	ID         int    `json:"id"`
	UserID     string `json:"-"`
	CourseID   int    `json:"course_id" validate:"required,gt=0"`
	CourseName string `json:"course_name,omitempty"`
	Strength   int    `json:"strength" validate:"min=1,max=5"`
}

// Strengths maps course IDs to strength values.
type Strengths map[int]int

// Of returns the strength of courseID, DefaultStrength if unrated.
func (s Strengths) Of(courseID int) int {
	if v, ok := s[courseID]; ok {
		return v
	}
	return DefaultStrength
}

// GenerateRequest contains information needed to generate a WeeklyPlan.
type GenerateRequest struct {
	SelectedCourses []int            `json:"selected_subjects" validate:"required,min=1,max=8,unique,dive,gt=0"`
	DailyStudyTime  int              `json:"daily_study_time" validate:"required,gt=0,lte=1440"`
	StrengthRatings []StrengthRating `json:"strength_ratings" validate:"omitempty,dive"`
	CompletedTopics []int            `json:"completed_topics"`
}

func (r *GenerateRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(r)
}

// Strengths returns the request ratings as a Strengths map.
func (r GenerateRequest) Strengths() Strengths {
	strengths := make(Strengths, len(r.StrengthRatings))
	for _, s := range r.StrengthRatings {
		strengths[s.CourseID] = s.Strength
	}
	return strengths
}

// SwapRequest swaps the days of two sessions of the current week plan.
type SwapRequest struct {
	FromDay Weekday `json:"from_day" validate:"required,weekday"`
	ToDay   Weekday `json:"to_day" validate:"required,weekday,nefield=FromDay"`
}

func (r *SwapRequest) Validate(validate *validator.Validate) error {
	r.FromDay = Weekday(core.CleanString(string(r.FromDay), true /* lower */))
	r.ToDay = Weekday(core.CleanString(string(r.ToDay), true /* lower */))
	return validate.Struct(r)
}

// UpdateStrength is bound from the `/strengths/:course_id/:strength` path.
type UpdateStrength struct {
	CourseID int `param:"course_id" validate:"required,gt=0"`
	Strength int `param:"strength" validate:"min=1,max=5"`
}

func (u UpdateStrength) Validate(validate *validator.Validate) error { return validate.Struct(u) }

package echoapi

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/studyplanner/core/studyplan"
)

func TestHome(t *testing.T) {
	e := setup(t)
	rec := doRequest(t, e.server, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to Masomo API!", rec.Body.String())
}

func TestStudyPlanAPI_auth(t *testing.T) {
	e := setup(t)

	runHTTPTests(t, e.server, []httpTest{
		{
			name:     "missing token",
			method:   http.MethodGet,
			path:     "/v1/study-plans/current",
			wantCode: http.StatusUnauthorized,
			wantData: httpErr{Error: "missing or malformed jwt"},
		},
		{
			name:     "expired token",
			method:   http.MethodGet,
			path:     "/v1/study-plans/current",
			token:    expiredToken(t, e.conf),
			wantCode: http.StatusUnauthorized,
			wantData: httpErr{Error: "invalid or expired jwt"},
		},
		{
			name:     "subject is not a user id",
			method:   http.MethodGet,
			path:     "/v1/study-plans/current",
			token:    newToken(t, e.conf, "admin"),
			wantCode: http.StatusUnauthorized,
			wantData: httpErr{Error: "invalid token subject"},
		},
	})
}

func TestStudyPlanAPI_generate(t *testing.T) {
	e := setup(t)
	_, token := newUserToken(t, e.conf)

	runHTTPTests(t, e.server, []httpTest{
		{
			name:     "invalid body",
			method:   http.MethodPost,
			path:     "/v1/study-plans/generate",
			token:    token,
			body:     map[string]interface{}{"daily_study_time": 0},
			wantCode: http.StatusBadRequest,
			wantData: map[string]string{
				"selected_subjects": "this field is required",
				"daily_study_time":  "this field is required",
			},
		},
		{
			name:     "malformed json",
			method:   http.MethodPost,
			path:     "/v1/study-plans/generate",
			token:    token,
			body:     []byte(`{"selected_subjects": "math"`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "unknown courses",
			method:   http.MethodPost,
			path:     "/v1/study-plans/generate",
			token:    token,
			body:     studyplan.GenerateRequest{SelectedCourses: []int{404}, DailyStudyTime: 30},
			wantCode: http.StatusBadRequest,
			wantData: map[string]string{"selected_subjects": studyplan.ErrNoCourses.Error()},
		},
		{
			name:     "generated",
			method:   http.MethodPost,
			path:     "/v1/study-plans/generate",
			token:    token,
			body:     studyplan.GenerateRequest{SelectedCourses: []int{math.ID, art.ID}, DailyStudyTime: 60},
			wantCode: http.StatusOK,
			wantData: GenerateResponse{Message: "Study plan generated successfully", PlanID: 1},
		},
	})
}

func TestStudyPlanAPI_plans(t *testing.T) {
	e := setup(t)
	userID, token := newUserToken(t, e.conf)
	_, otherToken := newUserToken(t, e.conf)

	rec := doRequest(t, e.server, http.MethodGet, "/v1/study-plans/current", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"no study plan for current week"}`, rec.Body.String())

	rec = doRequest(t, e.server, http.MethodPost, "/v1/study-plans/generate", token,
		studyplan.GenerateRequest{SelectedCourses: []int{math.ID, art.ID}, DailyStudyTime: 40})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var generated GenerateResponse
	decode(t, rec, &generated)

	// current week round-trip
	rec = doRequest(t, e.server, http.MethodGet, "/v1/study-plans/current", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var current studyplan.WeeklyPlan
	decode(t, rec, &current)
	assert.Equal(t, generated.PlanID, current.ID)
	assert.Equal(t, userID, current.UserID)
	require.Len(t, current.DailySessions, 5)
	for i, s := range current.DailySessions {
		assert.Equal(t, studyplan.Weekdays[i], s.Day)
		assert.Equal(t, studyplan.GenerateTasks(40), s.Tasks)
	}

	stored, err := e.repo.GetPlanByID(context.Background(), generated.PlanID)
	require.NoError(t, err)
	assert.Equal(t, stored.DailySessions, current.DailySessions)

	week := current.WeekStart.String()
	runHTTPTests(t, e.server, []httpTest{
		{
			name:     "retrieve",
			method:   http.MethodGet,
			path:     "/v1/study-plans/1",
			token:    token,
			wantCode: http.StatusOK,
			wantData: current,
		},
		{
			name:     "retrieve other user's plan",
			method:   http.MethodGet,
			path:     "/v1/study-plans/1",
			token:    otherToken,
			wantCode: http.StatusNotFound,
			wantData: httpErr{Error: "study plan not found"},
		},
		{
			name:     "retrieve invalid id",
			method:   http.MethodGet,
			path:     "/v1/study-plans/lol",
			token:    token,
			wantCode: http.StatusBadRequest,
			wantData: map[string]string{"id": "invalid study plan id"},
		},
		{
			name:     "list",
			method:   http.MethodGet,
			path:     "/v1/study-plans",
			token:    token,
			wantCode: http.StatusOK,
			wantData: []studyplan.WeeklyPlan{current},
		},
		{
			name:     "list other user",
			method:   http.MethodGet,
			path:     "/v1/study-plans/",
			token:    otherToken,
			wantCode: http.StatusOK,
			wantData: []studyplan.WeeklyPlan{},
		},
		{
			name:     "by week",
			method:   http.MethodGet,
			path:     "/v1/study-plans/week/" + week,
			token:    token,
			wantCode: http.StatusOK,
			wantData: current,
		},
		{
			name:     "by week no plan",
			method:   http.MethodGet,
			path:     "/v1/study-plans/week/1999-01-04",
			token:    token,
			wantCode: http.StatusNotFound,
			wantData: httpErr{Error: "no study plan found for specified week"},
		},
		{
			name:     "by week invalid date",
			method:   http.MethodGet,
			path:     "/v1/study-plans/week/next-week",
			token:    token,
			wantCode: http.StatusBadRequest,
			wantData: map[string]string{"week_date": "Invalid date format. Use YYYY-MM-DD"},
		},
		{
			name:     "delete other user's plan",
			method:   http.MethodDelete,
			path:     "/v1/study-plans/1",
			token:    otherToken,
			wantCode: http.StatusNotFound,
			wantData: httpErr{Error: "study plan not found"},
		},
		{
			name:     "delete",
			method:   http.MethodDelete,
			path:     "/v1/study-plans/1",
			token:    token,
			wantCode: http.StatusOK,
			wantData: MessageResponse{Message: "Study plan deleted successfully"},
		},
		{
			name:     "deleted",
			method:   http.MethodGet,
			path:     "/v1/study-plans/1",
			token:    token,
			wantCode: http.StatusNotFound,
		},
	})
}

func TestStudyPlanAPI_swap(t *testing.T) {
	e := setup(t)
	_, token := newUserToken(t, e.conf)

	runHTTPTests(t, e.server, []httpTest{
		{
			name:     "no current plan",
			method:   http.MethodPut,
			path:     "/v1/study-plans/swap-days",
			token:    token,
			body:     studyplan.SwapRequest{FromDay: studyplan.Monday, ToDay: studyplan.Friday},
			wantCode: http.StatusBadRequest,
			wantData: httpErr{Error: "swap failed"},
		},
		{
			name:     "invalid day",
			method:   http.MethodPut,
			path:     "/v1/study-plans/swap-days",
			token:    token,
			body:     map[string]string{"from_day": "saturday", "to_day": "monday"},
			wantCode: http.StatusBadRequest,
			wantData: map[string]string{"from_day": "invalid day of week, use monday to friday"},
		},
	})

	rec := doRequest(t, e.server, http.MethodPost, "/v1/study-plans/generate", token,
		studyplan.GenerateRequest{SelectedCourses: []int{math.ID, art.ID}, DailyStudyTime: 60})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var before studyplan.WeeklyPlan
	decode(t, doRequest(t, e.server, http.MethodGet, "/v1/study-plans/current", token, nil), &before)

	rec = doRequest(t, e.server, http.MethodPut, "/v1/study-plans/swap-days", token,
		map[string]string{"from_day": "Monday", "to_day": "tuesday"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"message":"Days swapped successfully"}`, rec.Body.String())

	var after studyplan.WeeklyPlan
	decode(t, doRequest(t, e.server, http.MethodGet, "/v1/study-plans/current", token, nil), &after)
	assert.Equal(t, before.DailySessions[0].CourseID, after.DailySessions[1].CourseID)
	assert.Equal(t, before.DailySessions[1].CourseID, after.DailySessions[0].CourseID)
}

func TestStudyPlanAPI_strengths(t *testing.T) {
	e := setup(t)
	_, token := newUserToken(t, e.conf)

	runHTTPTests(t, e.server, []httpTest{
		{
			name:     "empty",
			method:   http.MethodGet,
			path:     "/v1/study-plans/strengths",
			token:    token,
			wantCode: http.StatusOK,
			wantData: []studyplan.StrengthRating{},
		},
		{
			name:     "out of range",
			method:   http.MethodPut,
			path:     "/v1/study-plans/strengths/1/9",
			token:    token,
			wantCode: http.StatusBadRequest,
			wantData: map[string]string{"strength": "strength must be 5 or less"},
		},
		{
			name:     "not a number",
			method:   http.MethodPut,
			path:     "/v1/study-plans/strengths/1/high",
			token:    token,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "unknown course",
			method:   http.MethodPut,
			path:     "/v1/study-plans/strengths/404/2",
			token:    token,
			wantCode: http.StatusNotFound,
			wantData: httpErr{Error: "course not found"},
		},
		{
			name:     "updated",
			method:   http.MethodPut,
			path:     "/v1/study-plans/strengths/1/2",
			token:    token,
			wantCode: http.StatusOK,
			wantData: MessageResponse{Message: "Strength updated"},
		},
		{
			name:     "listed",
			method:   http.MethodGet,
			path:     "/v1/study-plans/strengths",
			token:    token,
			wantCode: http.StatusOK,
			wantData: []map[string]interface{}{{"id": 1, "course_id": 1, "course_name": "Mathematics", "strength": 2}},
		},
	})
}

package echoapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/studyplanner/core"
	"github.com/trezcool/studyplanner/core/studyplan"
	"github.com/trezcool/studyplanner/services/cache"
	"github.com/trezcool/studyplanner/services/logger"
	"github.com/trezcool/studyplanner/storage/database/inmem"
	"github.com/trezcool/studyplanner/tests"
)

var (
	math = testutil.Course(1, "Mathematics", studyplan.CategoryCore, "Algebra", "Geometry")
	art  = testutil.Course(2, "Art", studyplan.CategoryElective, "Colors")
)

type env struct {
	conf   *core.Config
	server *Server
	repo   studyplan.Repository
	cache  core.Cache
}

func setup(t *testing.T) env {
	conf := testutil.NewConfig()

	db, err := inmemdb.Open()
	require.NoError(t, err)
	db.AddCourses(math, art)
	repo := inmemdb.NewStudyPlanRepository(db)
	cache := cachesvc.NewMemoryCache()
	logger := logsvc.NewConsoleLogger("test", io.Discard, true)

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	studyplan.InitValidators(validate, translator)

	svc := studyplan.NewService(conf, repo, cache, logger)
	server := NewServer(conf, logger, svc, validate, translator)
	t.Cleanup(func() { _ = server.Close() })

	return env{conf: conf, server: server, repo: repo, cache: cache}
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     interface{}
	token    string
	wantCode int
	wantData interface{}
}

func newToken(t *testing.T, conf *core.Config, userID string) string {
	token, err := GenerateToken(conf, NewClaims(conf, userID))
	require.NoError(t, err)
	return token
}

func newUserToken(t *testing.T, conf *core.Config) (string, string) {
	id := uuid.NewString()
	return id, newToken(t, conf, id)
}

func marshal(t *testing.T, obj interface{}) []byte {
	if obj == nil {
		return nil
	}
	if b, ok := obj.([]byte); ok {
		return b
	}
	data, err := json.Marshal(obj)
	require.NoError(t, err)
	return data
}

func doRequest(t *testing.T, srv http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(marshal(t, body)))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func runHTTPTests(t *testing.T, srv http.Handler, tests []httpTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, srv, tt.method, tt.path, tt.token, tt.body)
			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			if tt.wantData != nil {
				assert.JSONEq(t, string(marshal(t, tt.wantData)), rec.Body.String())
			}
		})
	}
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func expiredToken(t *testing.T, conf *core.Config) string {
	claims := NewClaims(conf, uuid.NewString())
	claims.ExpiresAt = time.Now().Add(-time.Minute).Unix()
	token, err := GenerateToken(conf, claims)
	require.NoError(t, err)
	return token
}

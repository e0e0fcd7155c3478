package app

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"learnpath_backend/internal/config"
	"learnpath_backend/internal/model"
	"learnpath_backend/internal/testutil"
	"learnpath_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "router-test-secret-with-32-characters"

type testServer struct {
	router *gin.Engine
	db     *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		JWT:         config.JWTConfig{Secret: testSecret, ExpireTime: time.Hour},
		RateLimit:   config.RateLimitConfig{CollaborativePerHour: 2},
		Recommender: config.DefaultRecommenderConfig(),
	}
	db := testutil.DB(t)
	repos := initRepositories(db)
	s := initServices(repos, cfg.Recommender, nil)

	a := &App{Config: cfg, DB: db}
	router := gin.New()
	a.registerRoutes(router, initControllers(s, db, nil), repos, cfg)
	return &testServer{router: router, db: db}
}

func (ts *testServer) token(t *testing.T, userID uint, role model.UserRole) string {
	t.Helper()
	tok, err := util.GenerateJWT(userID, role, testSecret, time.Hour)
	require.NoError(t, err)
	return tok
}

func (ts *testServer) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, util.Response) {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	var resp util.Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func assessmentBody() gin.H {
	return gin.H{
		"motivations":       []string{"career_change"},
		"industryInterests": []string{"tech"},
		"subjectInterests":  []string{"programming"},
		"workStyle":         "solo",
		"timeHorizon":       "6_months",
		"backgroundLevel":   "beginner",
		"analyticalScore":   70,
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	w, resp := ts.do(http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", resp.Data.(map[string]interface{})["status"])
}

func TestSubmitAssessmentRoute(t *testing.T) {
	ts := newTestServer(t)
	testutil.SeedCareerPath(t, ts.db, "backend")
	user := testutil.SeedUser(t, ts.db, "assessed")

	w, resp := ts.do(http.MethodPost, "/api/assessment/submit", "", assessmentBody())
	require.Equal(t, http.StatusOK, w.Code)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, true, data["guest"])

	w, resp = ts.do(http.MethodPost, "/api/assessment/submit", ts.token(t, user.ID, model.Student), assessmentBody())
	require.Equal(t, http.StatusOK, w.Code)
	data = resp.Data.(map[string]interface{})
	assert.Equal(t, false, data["guest"])

	var count int64
	require.NoError(t, ts.db.Model(&model.LearningProfile{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	w, _ = ts.do(http.MethodPost, "/api/assessment/submit", "", gin.H{"workStyle": "solo"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthenticatedRoutesStatusMapping(t *testing.T) {
	ts := newTestServer(t)
	user := testutil.SeedUser(t, ts.db, "newcomer")
	tok := ts.token(t, user.ID, model.Student)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   interface{}
		want   int
	}{
		{"missing token", http.MethodGet, "/api/recommendations/paths", "", nil, http.StatusUnauthorized},
		{"bad token", http.MethodGet, "/api/recommendations/paths", "not-a-jwt", nil, http.StatusUnauthorized},
		{"paths without profile", http.MethodGet, "/api/recommendations/paths", tok, nil, http.StatusPreconditionFailed},
		{"profile missing", http.MethodGet, "/api/recommendations/profile", tok, nil, http.StatusNotFound},
		{"next lesson without profile", http.MethodGet, "/api/recommendations/next-lesson", tok, nil, http.StatusPreconditionFailed},
		{"recalibrate without profile", http.MethodPost, "/api/recommendations/recalibrate", tok, nil, http.StatusPreconditionFailed},
		{"dismiss unknown", http.MethodPost, "/api/recommendations/unknown/dismiss", tok, nil, http.StatusNotFound},
		{"accept unknown", http.MethodPost, "/api/recommendations/unknown/accept", tok, nil, http.StatusNotFound},
		{"no active plan", http.MethodGet, "/api/study-plans/active", tok, nil, http.StatusOK},
		{"no plan today", http.MethodGet, "/api/study-plans/today", tok, nil, http.StatusNotFound},
		{"generate without profile", http.MethodPost, "/api/study-plans", tok, nil, http.StatusPreconditionFailed},
		{"complete unknown item", http.MethodPost, "/api/study-plans/items/unknown/complete", tok, nil, http.StatusNotFound},
		{"invalid status", http.MethodPatch, "/api/study-plans/unknown", tok, gin.H{"status": "DONE"}, http.StatusBadRequest},
		{"update unknown plan", http.MethodPatch, "/api/study-plans/unknown", tok, gin.H{"dailyMinutes": 45}, http.StatusNotFound},
		{"student on admin route", http.MethodPost, "/api/admin/recalibrate-all", tok, nil, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := ts.do(tt.method, tt.path, tt.token, tt.body)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestStudyPlanRoutes(t *testing.T) {
	ts := newTestServer(t)
	user := testutil.SeedUser(t, ts.db, "scheduled")
	testutil.SeedProfile(t, ts.db, user.ID, 0.5)
	course, _ := testutil.SeedCourse(t, ts.db, "basics", model.DifficultyEasy, 3)
	path := testutil.SeedCareerPath(t, ts.db, "starter", course)
	tok := ts.token(t, user.ID, model.Student)

	w, resp := ts.do(http.MethodPost, "/api/study-plans", tok, gin.H{"careerPathId": path.ID, "dailyMinutes": 60})
	require.Equal(t, http.StatusCreated, w.Code)
	planID := resp.Data.(map[string]interface{})["id"].(string)

	w, resp = ts.do(http.MethodGet, "/api/study-plans/today", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	items := resp.Data.(map[string]interface{})["items"].([]interface{})
	require.NotEmpty(t, items)
	itemID := items[0].(map[string]interface{})["id"].(string)

	w, _ = ts.do(http.MethodPost, "/api/study-plans/items/"+itemID+"/complete", tok, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	other := testutil.SeedUser(t, ts.db, "intruder")
	w, _ = ts.do(http.MethodPatch, "/api/study-plans/"+planID, ts.token(t, other.ID, model.Student), gin.H{"status": "PAUSED"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, resp = ts.do(http.MethodPatch, "/api/study-plans/"+planID, tok, gin.H{"status": "PAUSED"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "PAUSED", resp.Data.(map[string]interface{})["status"])
}

func TestAdminRecalibrateAll(t *testing.T) {
	ts := newTestServer(t)
	admin := testutil.SeedUser(t, ts.db, "root")
	learner := testutil.SeedUser(t, ts.db, "learner")
	testutil.SeedProfile(t, ts.db, learner.ID, 0.4)

	w, resp := ts.do(http.MethodPost, "/api/admin/recalibrate-all", ts.token(t, admin.ID, model.Admin), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), resp.Data.(map[string]interface{})["updated"])
}

func TestCollaborativeRateLimitedPerUser(t *testing.T) {
	ts := newTestServer(t)
	first := testutil.SeedUser(t, ts.db, "first")
	second := testutil.SeedUser(t, ts.db, "second")
	testutil.SeedProfile(t, ts.db, first.ID, 0.5)
	testutil.SeedProfile(t, ts.db, second.ID, 0.5)
	tok := ts.token(t, first.ID, model.Student)

	for i := 0; i < 2; i++ {
		w, _ := ts.do(http.MethodGet, "/api/recommendations/collaborative", tok, nil)
		require.Equal(t, http.StatusOK, w.Code)
	}
	w, _ := ts.do(http.MethodGet, "/api/recommendations/collaborative", tok, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	w, _ = ts.do(http.MethodGet, "/api/recommendations/collaborative", ts.token(t, second.ID, model.Student), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNextLessonNudgesIdleLearnerAfterAnyRequest(t *testing.T) {
	ts := newTestServer(t)
	user := testutil.SeedUser(t, ts.db, "idle")
	idleSince := time.Now().AddDate(0, 0, -10)
	require.NoError(t, ts.db.Model(user).Updates(map[string]interface{}{
		"last_seen":  idleSince,
		"created_at": time.Now().AddDate(0, 0, -30),
	}).Error)
	profile := testutil.SeedProfile(t, ts.db, user.ID, 0.5)
	course, lessons := testutil.SeedCourse(t, ts.db, "basics", model.DifficultyMedium, 2)
	path := testutil.SeedCareerPath(t, ts.db, "backend", course)
	require.NoError(t, ts.db.Model(profile).Update("active_career_path_id", path.ID).Error)
	testutil.CompleteLesson(t, ts.db, user.ID, lessons[0], idleSince)
	tok := ts.token(t, user.ID, model.Student)

	// 任意已登录请求都会刷新在线时间
	w, _ := ts.do(http.MethodGet, "/api/recommendations/profile", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Eventually(t, func() bool {
		var u model.User
		if err := ts.db.First(&u, user.ID).Error; err != nil {
			return false
		}
		return time.Since(u.LastSeen) < time.Minute
	}, 2*time.Second, 10*time.Millisecond)

	w, resp := ts.do(http.MethodGet, "/api/recommendations/next-lesson", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := resp.Data.(map[string]interface{})
	assert.Contains(t, data["nudgeMessage"], "10 days since your last session")
	lessonsOut := data["lessons"].([]interface{})
	require.Len(t, lessonsOut, 1)
}

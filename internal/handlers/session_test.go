package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/focusflow/focusflow-be/internal/models"
	"github.com/focusflow/focusflow-be/internal/pkg/apperr"
	"github.com/focusflow/focusflow-be/internal/service"
)

// 最小内存 store，测 handler 的状态码与响应包装
type memStore struct {
	m      map[uint]*models.Session
	nextID uint
}

func (f *memStore) Create(_ context.Context, s *models.Session) error {
	f.nextID++
	s.ID = f.nextID
	f.m[s.ID] = s
	return nil
}

func (f *memStore) FindByID(_ context.Context, id uint) (*models.Session, error) {
	s, ok := f.m[id]
	if !ok {
		return nil, apperr.NotFound("session not found")
	}
	cp := *s
	cp.Intervals = append([]models.Interval(nil), s.Intervals...)
	return &cp, nil
}

func (f *memStore) FindCurrent(_ context.Context, userID uint) (*models.Session, error) {
	for _, s := range f.m {
		if s.UserID == userID && s.Mutable() {
			return s, nil
		}
	}
	return nil, nil
}

func (f *memStore) HasMutable(_ context.Context, userID uint) (bool, error) {
	s, _ := f.FindCurrent(context.Background(), userID)
	return s != nil, nil
}

func (f *memStore) Transition(_ context.Context, s *models.Session, _ ...string) error {
	f.m[s.ID] = s
	return nil
}

func (f *memStore) Delete(_ context.Context, id uint) error {
	if _, ok := f.m[id]; !ok {
		return apperr.NotFound("session not found")
	}
	delete(f.m, id)
	return nil
}

// asUser 直接把用户 ID 放进上下文，绕开 JWT 中间件
func asUser(id uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", id)
		c.Next()
	}
}

func newRouter(userID uint) (*gin.Engine, *memStore) {
	gin.SetMode(gin.TestMode)
	store := &memStore{m: map[uint]*models.Session{}}
	h := NewSession(service.NewSessionService(store))

	r := gin.New()
	g := r.Group("/api/v1/sessions", asUser(userID))
	g.POST("/start", h.Start)
	g.PATCH("/pause/:sessionId", h.Pause)
	g.PATCH("/resume/:sessionId", h.Resume)
	g.POST("/end/:sessionId", h.End)
	g.DELETE("/:sessionId", h.Delete)
	g.GET("/current", h.Current)
	return r, store
}

func do(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestStartEndpoint(t *testing.T) {
	r, _ := newRouter(1)

	w := do(t, r, http.MethodPost, "/api/v1/sessions/start", `{"tags":["code"]}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		Code int            `json:"code"`
		Data models.Session `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.Status != models.StatusActive || len(resp.Data.Intervals) != 1 {
		t.Fatalf("unexpected session: %+v", resp.Data)
	}

	// 没有标签 → 400
	w = do(t, r, http.MethodPost, "/api/v1/sessions/start", `{"tags":[]}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("start without tags: status = %d", w.Code)
	}
}

func TestEndEndpointValidation(t *testing.T) {
	r, _ := newRouter(1)
	do(t, r, http.MethodPost, "/api/v1/sessions/start", `{"tags":["code"]}`)

	// 缺评分
	w := do(t, r, http.MethodPost, "/api/v1/sessions/end/1", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("end without rating: status = %d", w.Code)
	}
	// 评分越界
	w = do(t, r, http.MethodPost, "/api/v1/sessions/end/1", `{"rating":9}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("end with rating 9: status = %d", w.Code)
	}
	// 正常完成
	w = do(t, r, http.MethodPost, "/api/v1/sessions/end/1", `{"rating":5,"notes":"ok"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("end: status = %d, body = %s", w.Code, w.Body.String())
	}
	// 已完成再结束 → 400
	w = do(t, r, http.MethodPost, "/api/v1/sessions/end/1", `{"rating":5}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("double end: status = %d", w.Code)
	}
}

func TestForbiddenAndNotFound(t *testing.T) {
	r, store := newRouter(2)
	// 用户 1 的会话
	sess, _ := models.NewSession(1, []string{"code"}, time.Now())
	_ = store.Create(context.Background(), sess)

	w := do(t, r, http.MethodDelete, "/api/v1/sessions/1", "")
	if w.Code != http.StatusForbidden {
		t.Fatalf("delete other user's session: status = %d", w.Code)
	}
	w = do(t, r, http.MethodDelete, "/api/v1/sessions/99", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("delete unknown session: status = %d", w.Code)
	}
}

func TestCurrentEmpty(t *testing.T) {
	r, _ := newRouter(1)
	w := do(t, r, http.MethodGet, "/api/v1/sessions/current", "")
	if w.Code != http.StatusOK {
		t.Fatalf("current: status = %d", w.Code)
	}
	var resp struct {
		Data any `json:"data"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Data != nil {
		t.Fatalf("expected empty data, got %v", resp.Data)
	}
}

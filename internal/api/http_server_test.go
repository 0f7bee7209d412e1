package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tgadmin/internal/config"
	"tgadmin/internal/entity"
	"tgadmin/internal/model"
	"tgadmin/internal/model/sql"
	"tgadmin/internal/storage"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testServer struct {
	router *gin.Engine
	repo   model.Repository
}

// newTestServer 搭建带内存数据库的完整路由，预置一个管理员和一个代理账号
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(&entity.DbUser{}, &entity.DbFryRecord{}); err != nil {
		t.Fatalf("migrate schema: %v", err)
	}

	repo := sql.NewGormRepository(db)
	store, err := storage.NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("create local storage: %v", err)
	}

	cfg := config.Config{
		JWTSecret:            "test-secret",
		JWTIssuer:            "tgadmin-test",
		JWTExpirationMinutes: 60,
		StoragePublicBaseURL: "/files",
	}

	handler, err := NewHTTPHandler(cfg, repo, store)
	if err != nil {
		t.Fatalf("create handler: %v", err)
	}

	r := gin.New()
	authGroup := r.Group("/auth")
	authGroup.POST("/login", handler.Login)
	authGroup.POST("/logout", handler.AuthMiddleware(), handler.Logout)
	authGroup.GET("/me", handler.AuthMiddleware(), handler.Me)

	dashboard := r.Group("/dashboard")
	dashboard.Use(handler.AuthMiddleware())
	dashboard.GET("/fry-records", handler.ListFryRecords)
	dashboard.GET("/fry-records/export", handler.ExportFryRecords)
	dashboard.PUT("/fry-records/:id/remark", handler.UpdateFryRecordRemark)
	dashboard.DELETE("/fry-records/:id", handler.DeleteFryRecord)

	agents := r.Group("/agents")
	agents.Use(handler.AuthMiddleware(), handler.RequireAdmin())
	agents.GET("", handler.ListAgents)
	agents.POST("", handler.CreateAgent)
	agents.DELETE("/:id", handler.DeleteAgent)

	ts := &testServer{router: r, repo: repo}
	ts.mustCreateAccount(t, "admin", "admin123", entity.UserRoleAdmin)
	ts.mustCreateAccount(t, "alice", "alice123", entity.UserRoleAgent)
	return ts
}

func (ts *testServer) mustCreateAccount(t *testing.T, username, password, role string) *entity.DbUser {
	t.Helper()
	user, err := model.CreateUserAccount(t.Context(), ts.repo, username, password, role)
	if err != nil {
		t.Fatalf("create account %s: %v", username, err)
	}
	return user
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

// login 执行登录并返回 token
func (ts *testServer) login(t *testing.T, username, password string) string {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/auth/login", "", entity.LoginRequest{Username: username, Password: password})
	if w.Code != http.StatusOK {
		t.Fatalf("login status: %d body: %s", w.Code, w.Body.String())
	}
	var resp entity.LoginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal login response: %v", err)
	}
	if !resp.Success || resp.Token == "" {
		t.Fatalf("expected successful login, got %s", w.Body.String())
	}
	return resp.Token
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) entity.Response {
	t.Helper()
	var resp entity.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal envelope: %v (body: %s)", err, w.Body.String())
	}
	return resp
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t)

	t.Run("成功登录返回 token 和用户信息", func(t *testing.T) {
		w := ts.do(t, http.MethodPost, "/auth/login", "", entity.LoginRequest{Username: "admin", Password: "admin123"})
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var resp entity.LoginResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if !resp.Success || resp.Token == "" {
			t.Fatalf("expected success with token, got %s", w.Body.String())
		}
		if resp.User == nil || resp.User.Username != "admin" {
			t.Fatalf("expected user payload, got %+v", resp.User)
		}
		if strings.Contains(w.Body.String(), "admin123") {
			t.Fatal("response leaked the plaintext password")
		}
	})

	t.Run("密码错误返回 200 和统一提示", func(t *testing.T) {
		w := ts.do(t, http.MethodPost, "/auth/login", "", entity.LoginRequest{Username: "admin", Password: "wrong"})
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var resp entity.LoginResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if resp.Success || resp.Message != "用户名或密码错误" {
			t.Fatalf("unexpected response: %s", w.Body.String())
		}
	})

	t.Run("用户不存在时提示与密码错误一致", func(t *testing.T) {
		w := ts.do(t, http.MethodPost, "/auth/login", "", entity.LoginRequest{Username: "ghost", Password: "whatever"})
		var resp entity.LoginResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if resp.Success || resp.Message != "用户名或密码错误" {
			t.Fatalf("unexpected response: %s", w.Body.String())
		}
	})

	t.Run("缺少字段返回 400", func(t *testing.T) {
		w := ts.do(t, http.MethodPost, "/auth/login", "", map[string]string{"username": "admin"})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})
}

func TestAuthMiddleware(t *testing.T) {
	ts := newTestServer(t)

	t.Run("缺少授权头返回 401", func(t *testing.T) {
		w := ts.do(t, http.MethodGet, "/auth/me", "", nil)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})

	t.Run("无效 token 返回 401", func(t *testing.T) {
		w := ts.do(t, http.MethodGet, "/auth/me", "not-a-token", nil)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})

	t.Run("有效 token 返回当前用户", func(t *testing.T) {
		token := ts.login(t, "alice", "alice123")
		w := ts.do(t, http.MethodGet, "/auth/me", token, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		resp := decodeEnvelope(t, w)
		if !resp.Success {
			t.Fatalf("expected success, got %s", w.Body.String())
		}
		data, _ := resp.Data.(map[string]any)
		if data["username"] != "alice" {
			t.Fatalf("expected alice, got %v", data["username"])
		}
	})
}

func TestLogout(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, "admin", "admin123")

	w := ts.do(t, http.MethodPost, "/auth/logout", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	resp := decodeEnvelope(t, w)
	if !resp.Success || resp.Message != "登出成功" {
		t.Fatalf("unexpected response: %s", w.Body.String())
	}

	// Token 无服务端状态，登出后仍然可用
	w = ts.do(t, http.MethodGet, "/auth/me", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected token to stay valid, got %d", w.Code)
	}
}

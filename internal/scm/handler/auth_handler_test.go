package handler

import (
	"net/http"
	"testing"

	"github.com/bitfantasy/scm/internal/scm/entity"
	"github.com/bitfantasy/scm/internal/scm/repository"
	"github.com/bitfantasy/scm/internal/scm/service"
	"github.com/bitfantasy/scm/internal/scm/testutil"
	"github.com/gin-gonic/gin"
)

func setupAuthTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	rdb := testutil.SetupRedis(t)
	router := testutil.SetupRouter()

	repos := repository.NewRepositories(db)
	svc := service.NewAuthService(repos.User, rdb, testutil.TestConfig())
	handler := NewAuthHandler(svc)

	router.POST("/api/auth/login", handler.Login)
	router.POST("/api/auth/refresh", handler.Refresh)
	router.POST("/api/auth/logout", handler.Logout)

	// A protected route to exercise issued access tokens
	api := testutil.AuthGroup(router, "/api")
	api.GET("/whoami", func(c *gin.Context) {
		respondOK(c, gin.H{"user_id": c.GetString("user_id"), "role": c.GetString("role")})
	})

	return &testutil.TestEnv{DB: db, Router: router, T: t}
}

func login(t *testing.T, env *testutil.TestEnv, username, password string) (int, map[string]interface{}) {
	t.Helper()
	w := testutil.DoRequest(env.Router, "POST", "/api/auth/login", map[string]interface{}{
		"username": username,
		"password": password,
	}, "")
	return w.Code, testutil.ParseResponse(w)
}

func TestLoginIssuesUsableTokenPair(t *testing.T) {
	env := setupAuthTest(t)
	user := testutil.SeedTestUser(t, env.DB, "alice", "secret123", entity.RoleManager)

	code, resp := login(t, env, "alice", "secret123")
	if code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %v", code, resp)
	}
	data := resp["data"].(map[string]interface{})
	if data["role"] != entity.RoleManager {
		t.Errorf("role = %v, want %s", data["role"], entity.RoleManager)
	}
	access, _ := data["access_token"].(string)
	if access == "" {
		t.Fatal("Expected non-empty access token")
	}

	w := testutil.DoRequest(env.Router, "GET", "/api/whoami", nil, access)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 with issued token, got %d: %s", w.Code, w.Body.String())
	}
	who := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if who["user_id"] != user.ID {
		t.Errorf("user_id = %v, want %s", who["user_id"], user.ID)
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	env := setupAuthTest(t)
	testutil.SeedTestUser(t, env.DB, "alice", "secret123", entity.RoleViewer)

	code, _ := login(t, env, "alice", "wrong")
	if code != http.StatusBadRequest {
		t.Errorf("Expected 400 for bad password, got %d", code)
	}

	code, _ = login(t, env, "nobody", "secret123")
	if code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown user, got %d", code)
	}
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	env := setupAuthTest(t)
	user := testutil.SeedTestUser(t, env.DB, "alice", "secret123", entity.RoleViewer)
	env.DB.Model(&entity.User{}).Where("id = ?", user.ID).Update("active", false)

	code, _ := login(t, env, "alice", "secret123")
	if code != http.StatusBadRequest {
		t.Errorf("Expected 400 for disabled account, got %d", code)
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	env := setupAuthTest(t)
	testutil.SeedTestUser(t, env.DB, "alice", "secret123", entity.RoleViewer)

	_, resp := login(t, env, "alice", "secret123")
	refresh := resp["data"].(map[string]interface{})["refresh_token"].(string)

	w := testutil.DoRequest(env.Router, "POST", "/api/auth/refresh", map[string]interface{}{
		"refresh_token": refresh,
	}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 on first refresh, got %d: %s", w.Code, w.Body.String())
	}
	next := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if next["access_token"] == "" || next["refresh_token"] == refresh {
		t.Error("Refresh should issue a new token pair")
	}

	// The consumed refresh token cannot be replayed
	w2 := testutil.DoRequest(env.Router, "POST", "/api/auth/refresh", map[string]interface{}{
		"refresh_token": refresh,
	}, "")
	if w2.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 replaying a rotated refresh token, got %d", w2.Code)
	}
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	env := setupAuthTest(t)
	testutil.SeedTestUser(t, env.DB, "alice", "secret123", entity.RoleViewer)

	_, resp := login(t, env, "alice", "secret123")
	access := resp["data"].(map[string]interface{})["access_token"].(string)

	w := testutil.DoRequest(env.Router, "POST", "/api/auth/refresh", map[string]interface{}{
		"refresh_token": access,
	}, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 when an access token is presented for refresh, got %d", w.Code)
	}
}

func TestRefreshTokenCannotAccessAPI(t *testing.T) {
	env := setupAuthTest(t)
	testutil.SeedTestUser(t, env.DB, "alice", "secret123", entity.RoleViewer)

	_, resp := login(t, env, "alice", "secret123")
	refresh := resp["data"].(map[string]interface{})["refresh_token"].(string)

	w := testutil.DoRequest(env.Router, "GET", "/api/whoami", nil, refresh)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 using refresh token for access, got %d", w.Code)
	}
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	env := setupAuthTest(t)
	testutil.SeedTestUser(t, env.DB, "alice", "secret123", entity.RoleViewer)

	_, resp := login(t, env, "alice", "secret123")
	refresh := resp["data"].(map[string]interface{})["refresh_token"].(string)

	w := testutil.DoRequest(env.Router, "POST", "/api/auth/logout", map[string]interface{}{
		"refresh_token": refresh,
	}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 on logout, got %d: %s", w.Code, w.Body.String())
	}

	w2 := testutil.DoRequest(env.Router, "POST", "/api/auth/refresh", map[string]interface{}{
		"refresh_token": refresh,
	}, "")
	if w2.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 refreshing after logout, got %d", w2.Code)
	}
}

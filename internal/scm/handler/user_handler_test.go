package handler

import (
	"net/http"
	"testing"

	"github.com/bitfantasy/scm/internal/middleware"
	"github.com/bitfantasy/scm/internal/scm/entity"
	"github.com/bitfantasy/scm/internal/scm/repository"
	"github.com/bitfantasy/scm/internal/scm/service"
	"github.com/bitfantasy/scm/internal/scm/testutil"
	"go.uber.org/zap"
)

func setupUserTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	router := testutil.SetupRouter()

	repos := repository.NewRepositories(db)
	audit := service.NewAuditService(repos.Audit, zap.NewNop())
	svc := service.NewUserService(repos.User, audit)
	handler := NewUserHandler(svc)

	api := testutil.AuthGroup(router, "/api")
	admin := middleware.RequireRoles(entity.RoleAdmin)
	users := api.Group("/users", admin)
	users.GET("", handler.List)
	users.GET("/:id", handler.Get)
	users.PUT("/:id/active", handler.SetActive)
	users.DELETE("/:id", handler.Delete)

	return &testutil.TestEnv{DB: db, Router: router, T: t}
}

func TestUserListHidesPasswordHash(t *testing.T) {
	env := setupUserTest(t)
	token := testutil.AdminToken()
	testutil.SeedTestUser(t, env.DB, "alice", "secret123", entity.RoleViewer)

	w := testutil.DoRequest(env.Router, "GET", "/api/users", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	list := testutil.ParseResponse(w)["data"].([]interface{})
	if len(list) != 1 {
		t.Fatalf("Expected 1 user, got %d", len(list))
	}
	row := list[0].(map[string]interface{})
	if _, leaked := row["password"]; leaked {
		t.Error("Password hash must not appear in API responses")
	}
	if row["username"] != "alice" {
		t.Errorf("username = %v, want alice", row["username"])
	}
}

func TestUserSetActive(t *testing.T) {
	env := setupUserTest(t)
	token := testutil.AdminToken()
	user := testutil.SeedTestUser(t, env.DB, "alice", "secret123", entity.RoleViewer)

	w := testutil.DoRequest(env.Router, "PUT", "/api/users/"+user.ID+"/active", map[string]interface{}{
		"active": false,
	}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["active"] != false {
		t.Errorf("active = %v, want false", data["active"])
	}

	// Missing body field is rejected, not defaulted to false
	w2 := testutil.DoRequest(env.Router, "PUT", "/api/users/"+user.ID+"/active", map[string]interface{}{}, token)
	if w2.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without active field, got %d", w2.Code)
	}
}

func TestUserRoutesAdminOnly(t *testing.T) {
	env := setupUserTest(t)
	testutil.SeedTestUser(t, env.DB, "alice", "secret123", entity.RoleViewer)

	for _, token := range []string{
		testutil.ViewerToken(),
		testutil.GenerateTestToken("test-mgr-001", "testmanager", entity.RoleManager),
	} {
		w := testutil.DoRequest(env.Router, "GET", "/api/users", nil, token)
		if w.Code != http.StatusForbidden {
			t.Errorf("Expected 403 for non-admin, got %d", w.Code)
		}
	}
}

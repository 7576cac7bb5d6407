package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/chronicle-dev/chronicle/db"
	"github.com/chronicle-dev/chronicle/internal/auth"
)

// setupRouter wires the engine against a fresh in-memory database. The
// handlers read the global connection, so the test swaps it in and restores
// it afterwards.
func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)

	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.Migrate(database); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	previous := db.DB
	db.DB = database
	t.Cleanup(func() { db.DB = previous })

	auth.Configure("router-test-secret", time.Hour)

	return NewRouter()
}

func doRequest(t *testing.T, engine *gin.Engine, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, req)

	var parsed map[string]interface{}

	if err := json.Unmarshal(recorder.Body.Bytes(), &parsed); err != nil {
		t.Fatalf("failed to parse response %q: %v", recorder.Body.String(), err)
	}

	return recorder.Code, parsed
}

func login(t *testing.T, engine *gin.Engine, email, password string) string {
	t.Helper()

	status, body := doRequest(t, engine, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    email,
		"password": password,
	})
	if status != http.StatusOK {
		t.Fatalf("login failed with %d: %v", status, body)
	}

	token, ok := body["token"].(string)
	if !ok || token == "" {
		t.Fatalf("expected token in response, got %v", body)
	}

	return token
}

func TestAPILifecycle(t *testing.T) {
	engine := setupRouter(t)

	status, body := doRequest(t, engine, http.MethodGet, "/api/health", "", nil)
	if status != http.StatusOK {
		t.Fatalf("health check failed with %d: %v", status, body)
	}

	// First admin comes from bootstrap; the route then disables itself.
	status, _ = doRequest(t, engine, http.MethodPost, "/api/auth/bootstrap-admin", "", gin.H{
		"name":     "Root Admin",
		"email":    "admin@example.com",
		"password": "admin-secret",
	})
	if status != http.StatusCreated {
		t.Fatalf("bootstrap failed with %d", status)
	}

	status, _ = doRequest(t, engine, http.MethodPost, "/api/auth/bootstrap-admin", "", gin.H{
		"name":     "Second Admin",
		"email":    "admin2@example.com",
		"password": "admin-secret",
	})
	if status != http.StatusForbidden {
		t.Fatalf("expected bootstrap to be disabled, got %d", status)
	}

	status, _ = doRequest(t, engine, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "admin@example.com",
		"password": "wrong",
	})
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad password, got %d", status)
	}

	adminToken := login(t, engine, "admin@example.com", "admin-secret")

	status, _ = doRequest(t, engine, http.MethodGet, "/api/users", "", nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", status)
	}

	for _, user := range []gin.H{
		{"name": "Mina Manager", "email": "mina@example.com", "password": "secret-1", "role": "MANAGER"},
		{"name": "Evan Employee", "email": "evan@example.com", "password": "secret-2", "role": "EMPLOYEE"},
	} {
		status, body = doRequest(t, engine, http.MethodPost, "/api/users", adminToken, user)
		if status != http.StatusCreated {
			t.Fatalf("create user failed with %d: %v", status, body)
		}
	}

	managerToken := login(t, engine, "mina@example.com", "secret-1")
	employeeToken := login(t, engine, "evan@example.com", "secret-2")

	status, _ = doRequest(t, engine, http.MethodGet, "/api/users", employeeToken, nil)
	if status != http.StatusForbidden {
		t.Fatalf("expected role gate to reject employee, got %d", status)
	}

	status, body = doRequest(t, engine, http.MethodGet, "/api/auth/me", employeeToken, nil)
	if status != http.StatusOK {
		t.Fatalf("me failed with %d: %v", status, body)
	}

	// Rates and the project come from the admin.
	status, body = doRequest(t, engine, http.MethodPatch, "/api/users/3/hourly-rate", adminToken, gin.H{
		"hourlyRate": 20,
	})
	if status != http.StatusOK {
		t.Fatalf("hourly rate update failed with %d: %v", status, body)
	}

	status, body = doRequest(t, engine, http.MethodPost, "/api/projects", adminToken, gin.H{
		"name":      "Website Revamp",
		"managerId": 2,
		"budget":    1000,
		"startDate": "2026-02-01",
	})
	if status != http.StatusCreated {
		t.Fatalf("create project failed with %d: %v", status, body)
	}

	status, body = doRequest(t, engine, http.MethodPost, "/api/projects/1/tasks", managerToken, gin.H{
		"title":          "Build login page",
		"assignedTo":     3,
		"estimatedHours": 8,
	})
	if status != http.StatusCreated {
		t.Fatalf("create task failed with %d: %v", status, body)
	}

	// Session protocol: start, duplicate start, list, push, push again.
	status, body = doRequest(t, engine, http.MethodPost, "/api/timesheets/start", employeeToken, gin.H{
		"taskId": 1,
	})
	if status != http.StatusCreated {
		t.Fatalf("start failed with %d: %v", status, body)
	}

	status, _ = doRequest(t, engine, http.MethodPost, "/api/timesheets/start", employeeToken, gin.H{
		"taskId": 1,
	})
	if status != http.StatusConflict {
		t.Fatalf("expected 409 for second start, got %d", status)
	}

	status, _ = doRequest(t, engine, http.MethodPost, "/api/timesheets/start", managerToken, gin.H{
		"taskId": 1,
	})
	if status != http.StatusForbidden {
		t.Fatalf("expected role gate to reject manager start, got %d", status)
	}

	status, body = doRequest(t, engine, http.MethodGet, "/api/timesheets/me", employeeToken, nil)
	if status != http.StatusOK {
		t.Fatalf("list timesheets failed with %d: %v", status, body)
	}
	if entries, ok := body["timesheets"].([]interface{}); !ok || len(entries) != 1 {
		t.Fatalf("expected 1 timesheet, got %v", body["timesheets"])
	}

	status, body = doRequest(t, engine, http.MethodPost, "/api/timesheets/push", employeeToken, gin.H{
		"remarks": "done",
	})
	if status != http.StatusOK {
		t.Fatalf("push failed with %d: %v", status, body)
	}

	status, _ = doRequest(t, engine, http.MethodPost, "/api/timesheets/push", employeeToken, gin.H{})
	if status != http.StatusNotFound {
		t.Fatalf("expected 404 for push without session, got %d", status)
	}

	// Reports honor role scoping end to end.
	status, _ = doRequest(t, engine, http.MethodGet, "/api/reports/project-cost?projectId=1", employeeToken, nil)
	if status != http.StatusForbidden {
		t.Fatalf("expected employee denied on cost report, got %d", status)
	}

	status, body = doRequest(t, engine, http.MethodGet, "/api/reports/project-cost?projectId=1", managerToken, nil)
	if status != http.StatusOK {
		t.Fatalf("cost report failed with %d: %v", status, body)
	}

	status, body = doRequest(t, engine, http.MethodGet, "/api/reports/monthly-summary?month="+time.Now().UTC().Format("2006-01"), adminToken, nil)
	if status != http.StatusOK {
		t.Fatalf("monthly summary failed with %d: %v", status, body)
	}
}

func TestAuthMiddlewareRejections(t *testing.T) {
	engine := setupRouter(t)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "missing header", header: "", want: http.StatusUnauthorized},
		{name: "not bearer", header: "Basic abc", want: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer garbage", want: http.StatusUnauthorized},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			if testCase.header != "" {
				req.Header.Set("Authorization", testCase.header)
			}

			recorder := httptest.NewRecorder()
			engine.ServeHTTP(recorder, req)

			if recorder.Code != testCase.want {
				t.Fatalf("expected %d, got %d", testCase.want, recorder.Code)
			}
		})
	}
}

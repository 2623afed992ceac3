package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"clausevault/config"
	"clausevault/service"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testAuthConfig() *config.AuthConfig {
	return &config.AuthConfig{JWTSecret: "test-secret", TokenExpireHours: 168}
}

func authTestRouter(store *service.MemoryStore) *gin.Engine {
	h := NewAuthHandler(store, testAuthConfig())

	router := gin.New()
	router.POST("/api/auth/register", h.Register)
	router.POST("/api/auth/login", h.Login)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to marshal body: %v", err)
	}

	req := httptest.NewRequest("POST", path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRegisterThenLogin(t *testing.T) {
	router := authTestRouter(service.NewMemoryStore())

	w := postJSON(t, router, "/api/auth/register", gin.H{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "Str0ng-pass",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var registered AuthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &registered); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if registered.Token == "" {
		t.Error("Expected token in register response")
	}
	if registered.User.Email != "alice@example.com" {
		t.Errorf("Expected email alice@example.com, got %s", registered.User.Email)
	}

	w = postJSON(t, router, "/api/auth/login", gin.H{
		"email":    "alice@example.com",
		"password": "Str0ng-pass",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200 on login, got %d: %s", w.Code, w.Body.String())
	}

	var loggedIn AuthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &loggedIn); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if loggedIn.Token == "" {
		t.Error("Expected token in login response")
	}
	if loggedIn.User.ID != registered.User.ID {
		t.Errorf("Expected same user ID, got %s vs %s", loggedIn.User.ID, registered.User.ID)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	router := authTestRouter(service.NewMemoryStore())

	w := postJSON(t, router, "/api/auth/register", gin.H{
		"name": "Alice", "email": "alice@example.com", "password": "Str0ng-pass",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	// Second registration fails regardless of password
	w = postJSON(t, router, "/api/auth/register", gin.H{
		"name": "Imposter", "email": "alice@example.com", "password": "Other-Pass9!",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for duplicate email, got %d", w.Code)
	}

	var response map[string]string
	json.Unmarshal(w.Body.Bytes(), &response)
	if response["error"] != "Email already in use" {
		t.Errorf("Expected duplicate email error, got %q", response["error"])
	}
}

func TestRegisterPasswordPolicy(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"too short", "Ab1!x"},
		{"missing lowercase", "ALLUPPER1!"},
		{"missing uppercase", "alllowercase1!"},
		{"missing digit", "NoDigitsHere!"},
		{"missing symbol", "NoSymbols123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := authTestRouter(service.NewMemoryStore())

			w := postJSON(t, router, "/api/auth/register", gin.H{
				"name": "Alice", "email": "alice@example.com", "password": tt.password,
			})
			if w.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400 for %q, got %d", tt.password, w.Code)
			}
		})
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	router := authTestRouter(service.NewMemoryStore())

	w := postJSON(t, router, "/api/auth/register", gin.H{
		"name": "Alice", "email": "alice@example.com", "password": "Str0ng-pass",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	// Unknown email and wrong password must be indistinguishable
	var bodies []string
	for _, req := range []gin.H{
		{"email": "nobody@example.com", "password": "Str0ng-pass"},
		{"email": "alice@example.com", "password": "Wrong-pass1!"},
	} {
		w := postJSON(t, router, "/api/auth/login", req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
		bodies = append(bodies, w.Body.String())
	}
	if bodies[0] != bodies[1] {
		t.Errorf("Expected identical error bodies, got %s vs %s", bodies[0], bodies[1])
	}
}

func TestRegisterBadRequest(t *testing.T) {
	router := authTestRouter(service.NewMemoryStore())

	tests := []struct {
		name string
		body gin.H
	}{
		{"missing email", gin.H{"name": "Alice", "password": "Str0ng-pass"}},
		{"invalid email", gin.H{"email": "not-an-email", "password": "Str0ng-pass"}},
		{"missing password", gin.H{"email": "alice@example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, router, "/api/auth/register", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d", w.Code)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	if err := validatePassword("Str0ng-pass"); err != nil {
		t.Errorf("Expected valid password, got %v", err)
	}
	if err := validatePassword("weak"); err == nil {
		t.Error("Expected error for weak password")
	}
}

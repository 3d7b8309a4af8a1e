package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/opsportal/models"
)

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t, testConfig())

	// --- Register ---
	w := s.do(t, http.MethodPost, "/register", "", map[string]string{
		"name":     "Test User",
		"email":    "Test@Example.com",
		"password": "password123",
		"role":     "admin",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var registered struct {
		UserID uint `json:"user_id"`
	}
	env := decode(t, w, &registered)
	assert.True(t, env.Status)
	assert.NotZero(t, registered.UserID)

	// same email again, different case
	w = s.do(t, http.MethodPost, "/register", "", map[string]string{
		"name":     "Again",
		"email":    "test@example.com",
		"password": "password123",
		"role":     "staff",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// --- Login ---
	w = s.do(t, http.MethodPost, "/login", "", map[string]string{
		"email":    "test@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var login struct {
		Token    string `json:"token"`
		UserRole string `json:"user_role"`
	}
	decode(t, w, &login)
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, "admin", login.UserRole)

	// --- Profile with the issued token ---
	w = s.do(t, http.MethodGet, "/admin/profile", login.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var profile models.User
	decode(t, w, &profile)
	assert.Equal(t, registered.UserID, profile.ID)
	assert.Equal(t, "test@example.com", profile.Email)
}

func TestLoginWrongPassword(t *testing.T) {
	s := newTestServer(t, testConfig())

	w := s.do(t, http.MethodPost, "/register", "", map[string]string{
		"name": "Staff", "email": "staff@example.com", "password": "password123", "role": "staff",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(t, http.MethodPost, "/login", "", map[string]string{
		"email": "staff@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	env := decode(t, w, nil)
	assert.False(t, env.Status)
	assert.Equal(t, "invalid credentials", env.Message)
}

func TestRegisterValidation(t *testing.T) {
	s := newTestServer(t, testConfig())

	w := s.do(t, http.MethodPost, "/register", "", map[string]string{
		"name": "Short", "email": "short@example.com", "password": "123", "role": "admin",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/register", "", map[string]string{
		"name": "Chef", "email": "chef@example.com", "password": "password123", "role": "chef",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthGuards(t *testing.T) {
	s := newTestServer(t, testConfig())

	tests := []struct {
		name  string
		token string
		path  string
		code  int
	}{
		{"missing token", "", "/admin/employees", http.StatusUnauthorized},
		{"garbage token", "not-a-jwt", "/admin/employees", http.StatusUnauthorized},
		{"staff reads employees", s.tokenFor(t, models.UserRoleStaff), "/admin/employees", http.StatusOK},
		{"staff lists users", s.tokenFor(t, models.UserRoleStaff), "/admin/users", http.StatusForbidden},
		{"admin lists users", s.tokenFor(t, models.UserRoleAdmin), "/admin/users", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodGet, tt.path, tt.token, nil)
			assert.Equal(t, tt.code, w.Code, w.Body.String())
		})
	}
}

func TestAuthRejectsNonBearerHeader(t *testing.T) {
	s := newTestServer(t, testConfig())
	token := s.tokenFor(t, models.UserRoleAdmin)

	req, _ := http.NewRequest(http.MethodGet, "/admin/profile", nil)
	req.Header.Set("Authorization", "Token "+token)
	w := s.serve(req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid token format", decode(t, w, nil).Message)
}

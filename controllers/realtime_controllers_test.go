package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/opsportal/models"
	"github.com/yeremiapane/opsportal/realtime"
)

func wsURL(srv *httptest.Server, path string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + path
}

func TestSubscribeReceivesTaskEvents(t *testing.T) {
	s := newTestServer(t, testConfig())
	admin := s.tokenFor(t, models.UserRoleAdmin)
	s.seedEmployee(t, "EMP050", models.EmployeeRoleOfficeStaff)

	srv := httptest.NewServer(s.router)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws/admin?token="+admin), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return s.hub.Count() == 1 }, 2*time.Second, 10*time.Millisecond)

	body, _ := json.Marshal(map[string]string{"employee_id": "EMP050", "title": "Inspect"})
	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/admin/tasks", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+admin)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg struct {
		Event string          `json:"event"`
		Data  json.RawMessage `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, realtime.EventTaskAssigned, msg.Event)

	var task models.Task
	require.NoError(t, json.Unmarshal(msg.Data, &task))
	assert.Equal(t, "Inspect", task.Title)

	w := s.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var health struct {
		Database string `json:"database"`
		Clients  int    `json:"websocket_clients"`
	}
	decode(t, w, &health)
	assert.Equal(t, "up", health.Database)
	assert.Equal(t, 1, health.Clients)
}

func TestSubscribeChannelGuards(t *testing.T) {
	s := newTestServer(t, testConfig())
	staff := s.tokenFor(t, models.UserRoleStaff)

	srv := httptest.NewServer(s.router)
	defer srv.Close()

	tests := []struct {
		name string
		path string
		code int
	}{
		{"missing token", "/ws/staff", http.StatusUnauthorized},
		{"staff on admin channel", "/ws/admin?token=" + staff, http.StatusForbidden},
		{"unknown channel", "/ws/kitchen?token=" + staff, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, tt.path), nil)
			require.ErrorIs(t, err, websocket.ErrBadHandshake)
			require.NotNil(t, resp)
			assert.Equal(t, tt.code, resp.StatusCode)
		})
	}

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws/staff?token="+staff), nil)
	require.NoError(t, err)
	conn.Close()
}

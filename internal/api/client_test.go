package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestLoginMapsUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/login" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("X-Request-Id") == "" {
			t.Errorf("expected request id header")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"user":{"id":7,"name":"Security Department Admin","email":"security@skvt.org","phone":"+91-9876543211","role":"DepartmentAdmin","departmentId":1,"isActive":true,"createdAt":"2026-01-01T00:00:00Z"}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second, zerolog.Nop())
	user, err := client.Login(context.Background(), "security@skvt.org", "skvt123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user.ID != "7" {
		t.Fatalf("expected id 7, got %q", user.ID)
	}
	if user.Role != RoleDepartmentAdmin {
		t.Fatalf("expected normalized role, got %s", user.Role)
	}
	if user.DepartmentID != "1" {
		t.Fatalf("expected department 1, got %q", user.DepartmentID)
	}
}

func TestBackendErrorCarriesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":"Department already exists"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second, zerolog.Nop())
	_, err := client.CreateDepartment(context.Background(), CreateDepartmentRequest{Name: "Security", AdminID: 1})
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if apiErr.StatusCode != http.StatusConflict || apiErr.Message != "Department already exists" {
		t.Fatalf("unexpected error %+v", apiErr)
	}
	if got := ErrorMessage(err, "Failed to create department"); got != "Department already exists" {
		t.Fatalf("expected verbatim backend message, got %q", got)
	}
}

func TestNetworkErrorIsNotBackendError(t *testing.T) {
	// Server closed before the call: the request fails at the transport layer.
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	client := NewClient(srv.URL, time.Second, zerolog.Nop())
	_, err := client.Stats(context.Background())
	if err == nil {
		t.Fatalf("expected error from closed server")
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		t.Fatalf("transport failure must not map to *Error, got %+v", apiErr)
	}
	if got := ErrorMessage(err, "Failed to fetch stats"); got != "Network error occurred. Please try again." {
		t.Fatalf("expected network message, got %q", got)
	}
}

func TestUserQueryValues(t *testing.T) {
	q := UserQuery{
		Role:         "Employee",
		DepartmentID: "all",
		ShiftID:      "",
		DutyPointID:  "3",
		Status:       "all",
		Name:         "ram",
		Page:         2,
		Limit:        10,
	}
	v := q.Values()
	if v.Get("role") != "Employee" || v.Get("duty_point_id") != "3" || v.Get("name") != "ram" {
		t.Fatalf("expected concrete filters kept, got %v", v)
	}
	if _, ok := v["department_id"]; ok {
		t.Fatalf("'all' filter must be omitted, got %v", v)
	}
	if _, ok := v["shift_id"]; ok {
		t.Fatalf("empty filter must be omitted, got %v", v)
	}
	if v.Get("page") != "2" || v.Get("limit") != "10" {
		t.Fatalf("unexpected paging %v", v)
	}
}

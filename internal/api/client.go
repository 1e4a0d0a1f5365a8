package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Error is a backend-reported failure: a non-2xx status whose body carried an
// {"error": "..."} payload. Transport failures are returned as plain wrapped
// errors instead, so callers can tell the two apart with errors.As.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api: status %d", e.StatusCode)
}

// ErrorMessage converts an error from a client call into the string shown to
// the user: the backend's message verbatim when present, the given fallback
// for message-less backend failures, and the generic network message otherwise.
func ErrorMessage(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return fallback
	}
	return "Network error occurred. Please try again."
}

// Client speaks the backend's JSON contract. No auth header is attached after
// login; the session lives entirely on the client side.
type Client struct {
	baseURL string
	httpc   *http.Client
	log     zerolog.Logger
}

func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: timeout},
		log:     log.With().Str("component", "api").Logger(),
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	User struct {
		ID           json.Number `json:"id"`
		Name         string      `json:"name"`
		Email        string      `json:"email"`
		Phone        string      `json:"phone"`
		Role         string      `json:"role"`
		DepartmentID json.Number `json:"departmentId"`
		IsActive     bool        `json:"isActive"`
		CreatedAt    string      `json:"createdAt"`
	} `json:"user"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	var resp loginResponse
	err := c.do(ctx, http.MethodPost, "/api/login", nil, loginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return nil, err
	}
	return &User{
		ID:           resp.User.ID.String(),
		Name:         resp.User.Name,
		Email:        resp.User.Email,
		Phone:        resp.User.Phone,
		Role:         ParseRole(resp.User.Role),
		DepartmentID: numberOrEmpty(resp.User.DepartmentID),
		IsActive:     resp.User.IsActive,
		CreatedAt:    resp.User.CreatedAt,
	}, nil
}

func numberOrEmpty(n json.Number) string {
	if n.String() == "0" {
		return ""
	}
	return n.String()
}

func (c *Client) ListDepartments(ctx context.Context) ([]Department, error) {
	var out []Department
	if err := c.do(ctx, http.MethodGet, "/api/departments", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetDepartment(ctx context.Context, id int) (*DepartmentDetail, error) {
	var out DepartmentDetail
	if err := c.do(ctx, http.MethodGet, "/api/departments/"+strconv.Itoa(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DepartmentOptions(ctx context.Context) ([]DepartmentOption, error) {
	var out []DepartmentOption
	if err := c.do(ctx, http.MethodGet, "/api/department-details", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListUsers(ctx context.Context, q UserQuery) (*UserPage, error) {
	var out UserPage
	if err := c.do(ctx, http.MethodGet, "/api/users", q.Values(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Stats(ctx context.Context) (*Stats, error) {
	var out Stats
	if err := c.do(ctx, http.MethodGet, "/api/stats", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type messageResponse struct {
	Message string `json:"message"`
}

func (c *Client) CreateDepartment(ctx context.Context, req CreateDepartmentRequest) (string, error) {
	return c.create(ctx, "/api/departments", req)
}

func (c *Client) CreateDutyPoint(ctx context.Context, req CreateDutyPointRequest) (string, error) {
	return c.create(ctx, "/api/duty_points", req)
}

func (c *Client) CreateShift(ctx context.Context, req CreateShiftRequest) (string, error) {
	return c.create(ctx, "/api/shifts", req)
}

func (c *Client) CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (string, error) {
	return c.create(ctx, "/api/users", req)
}

func (c *Client) CreateAssignment(ctx context.Context, req CreateAssignmentRequest) (string, error) {
	return c.create(ctx, "/api/shift_assignments", req)
}

func (c *Client) create(ctx context.Context, path string, body any) (string, error) {
	var resp messageResponse
	if err := c.do(ctx, http.MethodPost, path, nil, body, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

type errorResponse struct {
	Error string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var payload *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s: %w", path, err)
		}
		payload = bytes.NewReader(raw)
	} else {
		payload = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, payload)
	if err != nil {
		return fmt.Errorf("build request %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.httpc.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("path", path).Msg("request failed")
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		c.log.Debug().Int("status", resp.StatusCode).Str("path", path).Str("error", errResp.Error).Msg("backend error")
		return &Error{StatusCode: resp.StatusCode, Message: errResp.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

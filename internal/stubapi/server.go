// Package stubapi is an in-memory stand-in for the staffing backend. It
// serves the same routes and payload shapes the console client consumes, with
// seed fixtures instead of a database.
package stubapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/arabhyaWorks/skvt-mngt-web3/internal/api"
)

const defaultPageLimit = 10

type Server struct {
	store *store
	log   zerolog.Logger
}

func NewServer(log zerolog.Logger) *Server {
	return &Server{
		store: newStore(),
		log:   log.With().Str("component", "stubapi").Logger(),
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestLogger)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", s.handleLogin)

		r.Get("/departments", s.handleListDepartments)
		r.Get("/departments/{departmentID}", s.handleGetDepartment)
		r.Get("/department-details", s.handleDepartmentOptions)
		r.Get("/users", s.handleListUsers)
		r.Get("/stats", s.handleStats)

		r.Post("/departments", s.handleCreateDepartment)
		r.Post("/users", s.handleCreateEmployee)
		r.Post("/duty_points", s.handleCreateDutyPoint)
		r.Post("/shifts", s.handleCreateShift)
		r.Post("/shift_assignments", s.handleCreateAssignment)
	})

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginUser mirrors the backend login payload: camelCase keys, numeric id and
// departmentId serialized as numbers.
type loginUser struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Role         string `json:"role"`
	DepartmentID int    `json:"departmentId,omitempty"`
	IsActive     bool   `json:"isActive"`
	CreatedAt    string `json:"createdAt"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Email = strings.TrimSpace(req.Email)

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	acct := s.store.findAccountByEmail(req.Email)
	if acct == nil || acct.Password != req.Password {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if !acct.Active {
		writeError(w, http.StatusForbidden, "Account is disabled")
		return
	}

	writeJSON(w, http.StatusOK, map[string]loginUser{"user": {
		ID:           acct.ID,
		Name:         acct.Name,
		Email:        acct.Email,
		Phone:        acct.Phone,
		Role:         acct.Role,
		DepartmentID: acct.DepartmentID,
		IsActive:     acct.Active,
		CreatedAt:    acct.CreatedAt,
	}})
}

func (s *Server) handleListDepartments(w http.ResponseWriter, _ *http.Request) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	out := make([]api.Department, 0, len(s.store.departments))
	for _, d := range s.store.departments {
		d.DutyPoints = s.store.departmentDutyPoints(d.DepartmentID)
		d.Shifts = s.store.departmentShifts(d.DepartmentID)
		d.NumEmployees = len(s.store.departmentEmployees(d.DepartmentID))
		out = append(out, d)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetDepartment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "departmentID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid department id")
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	dept := s.store.findDepartment(id)
	if dept == nil {
		writeError(w, http.StatusNotFound, "Department not found")
		return
	}

	detail := api.DepartmentDetail{
		DepartmentID: dept.DepartmentID,
		Name:         dept.Name,
		Description:  dept.Description,
		AdminID:      dept.AdminID,
		AdminName:    dept.AdminName,
		DutyPoints:   s.store.departmentDutyPoints(id),
		Shifts:       s.store.departmentShifts(id),
		Employees:    s.store.departmentEmployees(id),
	}
	if detail.DutyPoints == nil {
		detail.DutyPoints = []api.DutyPoint{}
	}
	if detail.Shifts == nil {
		detail.Shifts = []api.Shift{}
	}
	if detail.Employees == nil {
		detail.Employees = []api.Employee{}
	}
	if cur := currentShift(detail.Shifts, time.Now()); cur != nil {
		detail.CurrentShift = cur
	}
	writeJSON(w, http.StatusOK, detail)
}

// currentShift picks the shift whose window covers now, if any. Overnight
// windows wrap past midnight.
func currentShift(shifts []api.Shift, now time.Time) *api.Shift {
	minutes := now.Hour()*60 + now.Minute()
	for i, sh := range shifts {
		start, err1 := clockMinutes(sh.StartTime)
		end, err2 := clockMinutes(sh.EndTime)
		if err1 != nil || err2 != nil {
			continue
		}
		if start < end {
			if minutes >= start && minutes < end {
				return &shifts[i]
			}
		} else if minutes >= start || minutes < end {
			return &shifts[i]
		}
	}
	return nil
}

func clockMinutes(value string) (int, error) {
	t, err := time.Parse("15:04:05", value)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

func (s *Server) handleDepartmentOptions(w http.ResponseWriter, _ *http.Request) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	out := make([]api.DepartmentOption, 0, len(s.store.departments))
	for _, d := range s.store.departments {
		opt := api.DepartmentOption{
			DepartmentID: d.DepartmentID,
			Name:         d.Name,
			DutyPoints:   s.store.departmentDutyPoints(d.DepartmentID),
			Shifts:       s.store.departmentShifts(d.DepartmentID),
		}
		if opt.DutyPoints == nil {
			opt.DutyPoints = []api.DutyPoint{}
		}
		if opt.Shifts == nil {
			opt.Shifts = []api.Shift{}
		}
		out = append(out, opt)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	var rows []api.Employee
	for _, a := range s.store.accounts {
		e := a.employee()
		if !matchesFilter(q.Get("role"), e.Role) {
			continue
		}
		if !matchesIntFilter(q.Get("department_id"), e.DepartmentID) {
			continue
		}
		if !matchesIntFilter(q.Get("shift_id"), e.ShiftID) {
			continue
		}
		if !matchesIntFilter(q.Get("duty_point_id"), e.DutyPointID) {
			continue
		}
		if !matchesFilter(q.Get("status"), e.Status) {
			continue
		}
		if name := q.Get("name"); name != "" && !strings.Contains(strings.ToLower(e.Name), strings.ToLower(name)) {
			continue
		}
		rows = append(rows, e)
	}

	page := positiveInt(q.Get("page"), 1)
	limit := positiveInt(q.Get("limit"), defaultPageLimit)
	total := len(rows)
	totalPages := (total + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}

	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	data := rows[start:end]
	if data == nil {
		data = []api.Employee{}
	}
	writeJSON(w, http.StatusOK, api.UserPage{
		Data: data,
		Pagination: api.Pagination{
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: totalPages,
		},
	})
}

func matchesFilter(want, got string) bool {
	return want == "" || strings.EqualFold(want, got)
}

func matchesIntFilter(want string, got int) bool {
	if want == "" {
		return true
	}
	n, err := strconv.Atoi(want)
	return err == nil && n == got
}

func positiveInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	var stats api.Stats
	stats.TotalDepartments = len(s.store.departments)
	for _, a := range s.store.accounts {
		if a.Role != "Employee" {
			continue
		}
		stats.TotalEmployees++
		if a.Active {
			stats.ActiveEmployees++
		}
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleCreateDepartment(w http.ResponseWriter, r *http.Request) {
	var req api.CreateDepartmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Department name is required")
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	for _, d := range s.store.departments {
		if strings.EqualFold(d.Name, req.Name) {
			writeError(w, http.StatusConflict, "Department already exists")
			return
		}
	}

	var adminID int
	var adminName string
	switch {
	case req.AdminID != 0:
		acct := s.store.findAccount(req.AdminID)
		if acct == nil {
			writeError(w, http.StatusBadRequest, "Admin user not found")
			return
		}
		adminID = acct.ID
		adminName = acct.Name
	case req.AdminName != "":
		if s.store.findAccountByEmail(req.AdminEmail) != nil {
			writeError(w, http.StatusConflict, "Email already in use")
			return
		}
		adminID = s.store.allocID()
		adminName = req.AdminName
		s.store.accounts = append(s.store.accounts, account{
			ID:        adminID,
			Name:      req.AdminName,
			Email:     req.AdminEmail,
			Phone:     req.AdminPhone,
			Role:      "DepartmentAdmin",
			Password:  req.AdminPassword,
			Active:    true,
			CreatedAt: time.Now().UTC().Format(time.RFC3339),
		})
	default:
		writeError(w, http.StatusBadRequest, "Department admin is required")
		return
	}

	dept := api.Department{
		DepartmentID: s.store.allocID(),
		Name:         req.Name,
		Description:  req.Description,
		AdminID:      adminID,
		AdminName:    adminName,
	}
	s.store.departments = append(s.store.departments, dept)
	if acct := s.store.findAccount(adminID); acct != nil {
		acct.DepartmentID = dept.DepartmentID
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": "Department created successfully"})
}

func (s *Server) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req api.CreateEmployeeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.Phone == "" || req.Designation == "" {
		writeError(w, http.StatusBadRequest, "Name, phone and designation are required")
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if req.DepartmentID != 0 && s.store.findDepartment(req.DepartmentID) == nil {
		writeError(w, http.StatusBadRequest, "Department not found")
		return
	}
	if req.Email != "" && s.store.findAccountByEmail(req.Email) != nil {
		writeError(w, http.StatusConflict, "Email already in use")
		return
	}

	s.store.accounts = append(s.store.accounts, account{
		ID:           s.store.allocID(),
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Role:         "Employee",
		DepartmentID: req.DepartmentID,
		Designation:  req.Designation,
		Password:     req.Password,
		Active:       req.Status != "inactive",
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	})
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Employee added successfully"})
}

func (s *Server) handleCreateDutyPoint(w http.ResponseWriter, r *http.Request) {
	var req api.CreateDutyPointRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.Coordinate == "" || req.DepartmentID == 0 {
		writeError(w, http.StatusBadRequest, "Name, coordinate and department are required")
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if s.store.findDepartment(req.DepartmentID) == nil {
		writeError(w, http.StatusBadRequest, "Department not found")
		return
	}
	for _, p := range s.store.dutyPoints {
		if p.DepartmentID == req.DepartmentID && strings.EqualFold(p.Name, req.Name) {
			writeError(w, http.StatusConflict, "Duty point already exists")
			return
		}
	}

	s.store.dutyPoints = append(s.store.dutyPoints, api.DutyPoint{
		DutyPointID:  s.store.allocID(),
		Name:         req.Name,
		Description:  req.Description,
		Coordinate:   req.Coordinate,
		DepartmentID: req.DepartmentID,
	})
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Duty point created successfully"})
}

func (s *Server) handleCreateShift(w http.ResponseWriter, r *http.Request) {
	var req api.CreateShiftRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.StartTime == "" || req.EndTime == "" || req.DepartmentID == 0 {
		writeError(w, http.StatusBadRequest, "Name, times and department are required")
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if s.store.findDepartment(req.DepartmentID) == nil {
		writeError(w, http.StatusBadRequest, "Department not found")
		return
	}

	s.store.shifts = append(s.store.shifts, api.Shift{
		ShiftID:      s.store.allocID(),
		Name:         req.Name,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Duration:     req.Duration,
		DepartmentID: req.DepartmentID,
	})
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Shift created successfully"})
}

func (s *Server) handleCreateAssignment(w http.ResponseWriter, r *http.Request) {
	var req api.CreateAssignmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UserID == 0 || req.DutyPointID == 0 || req.ShiftID == 0 {
		writeError(w, http.StatusBadRequest, "Employee, duty point and shift are required")
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	acct := s.store.findAccount(req.UserID)
	if acct == nil || acct.Role != "Employee" {
		writeError(w, http.StatusBadRequest, "Employee not found")
		return
	}
	if s.store.findDutyPoint(req.DutyPointID) == nil {
		writeError(w, http.StatusBadRequest, "Duty point not found")
		return
	}
	if s.store.findShift(req.ShiftID) == nil {
		writeError(w, http.StatusBadRequest, "Shift not found")
		return
	}
	if acct.DutyPointID != 0 {
		writeError(w, http.StatusConflict, "Employee already has an active duty assignment")
		return
	}

	s.store.assignments = append(s.store.assignments,
		newAssignment(req.UserID, req.DutyPointID, req.ShiftID, req.StartDate, req.EndDate))
	acct.DutyPointID = req.DutyPointID
	acct.ShiftID = req.ShiftID

	writeJSON(w, http.StatusCreated, map[string]string{"message": "Duty assigned successfully"})
}

func decodeJSON(r *http.Request, out interface{}) error {
	decoder := json.NewDecoder(r.Body)
	return decoder.Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

package api

import (
	"net/url"
	"strconv"
)

// Role is the internal role tag. The backend reports roles in CamelCase
// ("SuperAdmin"); ParseRole normalizes them.
type Role string

const (
	RoleSuperAdmin      Role = "super_admin"
	RoleDepartmentAdmin Role = "department_admin"
	RoleControlRoom     Role = "control_room"
)

func ParseRole(s string) Role {
	switch s {
	case "SuperAdmin", "super_admin":
		return RoleSuperAdmin
	case "DepartmentAdmin", "department_admin":
		return RoleDepartmentAdmin
	case "ControlRoom", "control_room":
		return RoleControlRoom
	}
	return Role(s)
}

// DepartmentScoped reports whether the role only ever sees one department's data.
func (r Role) DepartmentScoped() bool { return r == RoleDepartmentAdmin }

type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Role         Role   `json:"role"`
	DepartmentID string `json:"departmentId,omitempty"`
	IsActive     bool   `json:"isActive"`
	CreatedAt    string `json:"createdAt"`
}

type Department struct {
	DepartmentID int         `json:"department_id"`
	Name         string      `json:"name"`
	Description  string      `json:"description"`
	AdminID      int         `json:"admin_id"`
	AdminName    string      `json:"admin_name"`
	NumEmployees int         `json:"num_employees"`
	DutyPoints   []DutyPoint `json:"duty_points,omitempty"`
	Shifts       []Shift     `json:"shifts,omitempty"`
}

type DutyPoint struct {
	DutyPointID  int    `json:"duty_point_id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Coordinate   string `json:"coordinate"`
	DepartmentID int    `json:"department_id"`
	NumPeople    int    `json:"num_people"`
}

type Shift struct {
	ShiftID      int     `json:"shift_id"`
	Name         string  `json:"name"`
	StartTime    string  `json:"start_time"`
	EndTime      string  `json:"end_time"`
	Duration     float64 `json:"duration"`
	DepartmentID int     `json:"department_id"`
}

// DepartmentDetail is the full projection returned by GET /api/departments/:id.
type DepartmentDetail struct {
	DepartmentID int         `json:"department_id"`
	Name         string      `json:"name"`
	Description  string      `json:"description"`
	AdminID      int         `json:"admin_id"`
	AdminName    string      `json:"admin_name"`
	DutyPoints   []DutyPoint `json:"duty_points"`
	Shifts       []Shift     `json:"shifts"`
	Employees    []Employee  `json:"employees"`
	CurrentShift *Shift      `json:"current_shift,omitempty"`
}

// DepartmentOption carries the dropdown option lists for one department,
// from GET /api/department-details.
type DepartmentOption struct {
	DepartmentID int         `json:"department_id"`
	Name         string      `json:"name"`
	DutyPoints   []DutyPoint `json:"duty_points"`
	Shifts       []Shift     `json:"shifts"`
}

// Employee is a row of the paginated users listing. A zero DutyPointID means
// the employee holds no current assignment.
type Employee struct {
	UserID       int    `json:"user_id"`
	Name         string `json:"name"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone"`
	Role         string `json:"role"`
	DepartmentID int    `json:"department_id"`
	Designation  string `json:"designation"`
	DutyPointID  int    `json:"duty_point_id"`
	ShiftID      int    `json:"shift_id"`
	Status       string `json:"status"`
}

type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

type UserPage struct {
	Data       []Employee `json:"data"`
	Pagination Pagination `json:"pagination"`
}

type Stats struct {
	TotalDepartments int `json:"total_departments"`
	ActiveEmployees  int `json:"active_employees"`
	TotalEmployees   int `json:"total_employees"`
}

// UserQuery holds the filter set for GET /api/users. Empty strings and the
// "all" sentinel are omitted from the query string.
type UserQuery struct {
	Role         string
	DepartmentID string
	ShiftID      string
	DutyPointID  string
	Status       string
	Name         string
	Page         int
	Limit        int
}

func (q UserQuery) Values() url.Values {
	v := url.Values{}
	setFilter(v, "role", q.Role)
	setFilter(v, "department_id", q.DepartmentID)
	setFilter(v, "shift_id", q.ShiftID)
	setFilter(v, "duty_point_id", q.DutyPointID)
	setFilter(v, "status", q.Status)
	setFilter(v, "name", q.Name)
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

func setFilter(v url.Values, key, value string) {
	if value == "" || value == "all" {
		return
	}
	v.Set(key, value)
}

type CreateDepartmentRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	// Either an existing admin...
	AdminID int `json:"admin_id,omitempty"`
	// ...or inline new-admin fields.
	AdminName     string `json:"admin_name,omitempty"`
	AdminEmail    string `json:"admin_email,omitempty"`
	AdminPhone    string `json:"admin_phone,omitempty"`
	AdminPassword string `json:"admin_password,omitempty"`
}

type CreateDutyPointRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Coordinate   string `json:"coordinate"`
	DepartmentID int    `json:"department_id"`
}

type CreateShiftRequest struct {
	Name         string  `json:"name"`
	DepartmentID int     `json:"department_id"`
	StartTime    string  `json:"start_time"`
	EndTime      string  `json:"end_time"`
	Duration     float64 `json:"duration"`
}

type CreateEmployeeRequest struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Email        string `json:"email,omitempty"`
	Designation  string `json:"designation"`
	Password     string `json:"password,omitempty"`
	DepartmentID int    `json:"department_id"`
	Status       string `json:"status"`
}

type CreateAssignmentRequest struct {
	UserID      int    `json:"user_id"`
	DutyPointID int    `json:"duty_point_id"`
	ShiftID     int    `json:"shift_id"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
}

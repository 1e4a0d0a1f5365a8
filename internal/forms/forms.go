// Package forms holds the create-flow field sets, their validation rules and
// the shared submit protocol. Validation always runs locally before any
// network call is made.
package forms

import (
	"strconv"
	"strings"
	"time"

	"github.com/arabhyaWorks/skvt-mngt-web3/internal/api"
)

// DepartmentForm creates a department either with an existing admin id or
// with inline new-admin fields.
type DepartmentForm struct {
	Name        string `validate:"required"`
	Description string
	NewAdmin    bool

	AdminID       string `validate:"required_if=NewAdmin false"`
	AdminName     string `validate:"required_if=NewAdmin true"`
	AdminEmail    string `validate:"required_if=NewAdmin true,omitempty,email"`
	AdminPhone    string `validate:"required_if=NewAdmin true,omitempty,phone"`
	AdminPassword string `validate:"required_if=NewAdmin true,omitempty,min=6"`
}

func (f *DepartmentForm) Validate() Errors {
	f.trim()
	return check(f,
		map[string]string{
			"Name":          "name",
			"AdminID":       "adminId",
			"AdminName":     "adminName",
			"AdminEmail":    "adminEmail",
			"AdminPhone":    "adminPhone",
			"AdminPassword": "adminPassword",
		},
		fieldMessages{
			"Name":       {"": "Department name is required"},
			"AdminID":    {"": "Please select an admin"},
			"AdminName":  {"": "Admin name is required"},
			"AdminEmail": {"required_if": "Admin email is required", "": "Invalid email format"},
			"AdminPhone": {"required_if": "Admin phone is required", "": "Invalid phone number format"},
			"AdminPassword": {
				"required_if": "Admin password is required",
				"":            "Password must be at least 6 characters",
			},
		})
}

func (f *DepartmentForm) trim() {
	f.Name = strings.TrimSpace(f.Name)
	f.AdminID = strings.TrimSpace(f.AdminID)
	f.AdminName = strings.TrimSpace(f.AdminName)
	f.AdminEmail = strings.TrimSpace(f.AdminEmail)
	f.AdminPhone = strings.TrimSpace(f.AdminPhone)
}

func (f *DepartmentForm) Payload() api.CreateDepartmentRequest {
	req := api.CreateDepartmentRequest{
		Name:        f.Name,
		Description: f.Description,
	}
	if f.NewAdmin {
		req.AdminName = f.AdminName
		req.AdminEmail = f.AdminEmail
		req.AdminPhone = f.AdminPhone
		req.AdminPassword = f.AdminPassword
		return req
	}
	req.AdminID, _ = strconv.Atoi(f.AdminID)
	return req
}

type DutyPointForm struct {
	Name        string `validate:"required"`
	Description string
	Coordinate  string `validate:"required,coordinate"`
}

func (f *DutyPointForm) Validate() Errors {
	f.Name = strings.TrimSpace(f.Name)
	f.Coordinate = strings.TrimSpace(f.Coordinate)
	return check(f,
		map[string]string{"Name": "name", "Coordinate": "coordinate"},
		fieldMessages{
			"Name": {"": "Duty point name is required"},
			"Coordinate": {
				"required": "GPS coordinates are required",
				"":         "Please enter valid coordinates in format: latitude,longitude (e.g., 12.34,56.78)",
			},
		})
}

func (f *DutyPointForm) Payload(departmentID int) api.CreateDutyPointRequest {
	return api.CreateDutyPointRequest{
		Name:        f.Name,
		Description: f.Description,
		// The backend stores coordinates without whitespace.
		Coordinate:   stripSpaces(f.Coordinate),
		DepartmentID: departmentID,
	}
}

type ShiftForm struct {
	Name      string `validate:"required"`
	StartTime string `validate:"required,clock"`
	EndTime   string `validate:"required,clock"`
}

func (f *ShiftForm) Validate() Errors {
	f.Name = strings.TrimSpace(f.Name)
	return check(f,
		map[string]string{"Name": "name", "StartTime": "startTime", "EndTime": "endTime"},
		fieldMessages{
			"Name":      {"": "Shift name is required"},
			"StartTime": {"required": "Start time is required", "": "Invalid time format"},
			"EndTime":   {"required": "End time is required", "": "Invalid time format"},
		})
}

// Duration is the shift length in hours derived from the entered times.
func (f *ShiftForm) Duration() float64 {
	return ShiftDuration(f.StartTime, f.EndTime)
}

func (f *ShiftForm) Payload(departmentID int) api.CreateShiftRequest {
	return api.CreateShiftRequest{
		Name:         f.Name,
		DepartmentID: departmentID,
		StartTime:    f.StartTime + ":00",
		EndTime:      f.EndTime + ":00",
		Duration:     f.Duration(),
	}
}

// ShiftDuration computes end − start in hours from "HH:MM" clock times. When
// the result would be non-positive the shift crosses midnight, so a day is
// added to the end time first; the reported duration is always positive.
func ShiftDuration(start, end string) float64 {
	s, err := time.Parse("15:04", start)
	if err != nil {
		return 0
	}
	e, err := time.Parse("15:04", end)
	if err != nil {
		return 0
	}
	d := e.Sub(s)
	if d <= 0 {
		d += 24 * time.Hour
	}
	return d.Hours()
}

type EmployeeForm struct {
	Name        string `validate:"required"`
	Phone       string `validate:"required,phone"`
	Email       string `validate:"omitempty,email"`
	Designation string `validate:"required"`
	Password    string `validate:"omitempty,min=6"`
	Active      bool
}

// Designations is the option list offered when adding an employee.
var Designations = []string{
	"Security Officer",
	"Senior Security Officer",
	"Security Guard",
	"Head Constable",
	"Constable",
	"Sub Inspector",
	"Inspector",
}

func (f *EmployeeForm) Validate() Errors {
	f.Name = strings.TrimSpace(f.Name)
	f.Phone = strings.TrimSpace(f.Phone)
	f.Email = strings.TrimSpace(f.Email)
	f.Designation = strings.TrimSpace(f.Designation)
	return check(f,
		map[string]string{
			"Name":        "name",
			"Phone":       "phone",
			"Email":       "email",
			"Designation": "designation",
			"Password":    "password",
		},
		fieldMessages{
			"Name":        {"": "Employee name is required"},
			"Phone":       {"required": "Phone number is required", "": "Invalid phone number format"},
			"Email":       {"": "Invalid email format"},
			"Designation": {"": "Designation is required"},
			"Password":    {"": "Password must be at least 6 characters"},
		})
}

func (f *EmployeeForm) Payload(departmentID int) api.CreateEmployeeRequest {
	status := "inactive"
	if f.Active {
		status = "active"
	}
	return api.CreateEmployeeRequest{
		Name:         f.Name,
		Phone:        f.Phone,
		Email:        f.Email,
		Designation:  f.Designation,
		Password:     f.Password,
		DepartmentID: departmentID,
		Status:       status,
	}
}

// AssignmentForm binds one employee to a duty point and shift for a date range.
type AssignmentForm struct {
	DutyPointID string `validate:"required"`
	ShiftID     string `validate:"required"`
	EmployeeID  string `validate:"required"`
	StartDate   string `validate:"required,date"`
	EndDate     string `validate:"required,date"`
}

func (f *AssignmentForm) Validate() Errors {
	return f.ValidateAt(time.Now())
}

// ValidateAt runs the field rules plus the date-range checks relative to the
// given "today". Comparisons are date-only; time of day is zeroed.
func (f *AssignmentForm) ValidateAt(today time.Time) Errors {
	errs := check(f,
		map[string]string{
			"DutyPointID": "dutyPointId",
			"ShiftID":     "shiftId",
			"EmployeeID":  "employeeId",
			"StartDate":   "startDate",
			"EndDate":     "endDate",
		},
		fieldMessages{
			"DutyPointID": {"": "Please select a duty point"},
			"ShiftID":     {"": "Please select a shift"},
			"EmployeeID":  {"": "Please select an employee"},
			"StartDate":   {"required": "Start date is required", "": "Invalid date format"},
			"EndDate":     {"required": "End date is required", "": "Invalid date format"},
		})

	start, errStart := time.Parse("2006-01-02", f.StartDate)
	end, errEnd := time.Parse("2006-01-02", f.EndDate)
	if _, bad := errs["startDate"]; !bad && errStart == nil {
		if start.Before(dateOnly(today)) {
			errs["startDate"] = "Start date cannot be in the past"
		}
	}
	if _, bad := errs["endDate"]; !bad && errStart == nil && errEnd == nil {
		if !end.After(start) {
			errs["endDate"] = "End date must be after start date"
		}
	}
	return errs
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (f *AssignmentForm) Payload() api.CreateAssignmentRequest {
	userID, _ := strconv.Atoi(f.EmployeeID)
	dutyPointID, _ := strconv.Atoi(f.DutyPointID)
	shiftID, _ := strconv.Atoi(f.ShiftID)
	return api.CreateAssignmentRequest{
		UserID:      userID,
		DutyPointID: dutyPointID,
		ShiftID:     shiftID,
		StartDate:   f.StartDate,
		EndDate:     f.EndDate,
	}
}

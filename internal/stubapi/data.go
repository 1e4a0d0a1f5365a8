package stubapi

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/arabhyaWorks/skvt-mngt-web3/internal/api"
)

// account is a login-capable user record. Roles are stored the way the real
// backend reports them ("SuperAdmin"); clients normalize on their side.
type account struct {
	ID           int
	Name         string
	Email        string
	Phone        string
	Role         string
	DepartmentID int
	Designation  string
	DutyPointID  int
	ShiftID      int
	Password     string
	Active       bool
	CreatedAt    string
}

type assignment struct {
	Reference   string
	UserID      int
	DutyPointID int
	ShiftID     int
	StartDate   string
	EndDate     string
}

type store struct {
	mu          sync.Mutex
	accounts    []account
	departments []api.Department
	dutyPoints  []api.DutyPoint
	shifts      []api.Shift
	assignments []assignment
	nextID      int
}

func newStore() *store {
	now := time.Now().UTC().Format(time.RFC3339)
	s := &store{nextID: 100}

	s.departments = []api.Department{
		{DepartmentID: 1, Name: "पुलिस आयुक्त, कमिश्नरेट, वाराणसी", Description: "Temple security and law enforcement coordination", AdminID: 2, AdminName: "Security Department Admin"},
		{DepartmentID: 2, Name: "जिलाधिकारी, वाराणसी", Description: "District administration and coordination", AdminID: 4, AdminName: "District Admin"},
		{DepartmentID: 3, Name: "मुख्य चिकित्सा अधिकारी, वाराणसी", Description: "Medical services and health management", AdminID: 5, AdminName: "Medical Admin"},
	}

	s.dutyPoints = []api.DutyPoint{
		{DutyPointID: 1, Name: "YSK1", Description: "Main security checkpoint", Coordinate: "25.3109,83.0107", DepartmentID: 1},
		{DutyPointID: 2, Name: "YSK2", Description: "Secondary security point", Coordinate: "25.3110,83.0108", DepartmentID: 1},
		{DutyPointID: 3, Name: "Gate No. 4", Description: "Entry gate security", Coordinate: "25.3112,83.0110", DepartmentID: 1},
		{DutyPointID: 4, Name: "Trayambkeswar Hall", Description: "Hall security monitoring", Coordinate: "25.3113,83.0111", DepartmentID: 1},
		{DutyPointID: 5, Name: "District Control Post", Description: "Coordination post", Coordinate: "25.3200,83.0000", DepartmentID: 2},
	}

	s.shifts = []api.Shift{
		{ShiftID: 1, Name: "06:00 AM to 02:00 PM", StartTime: "06:00:00", EndTime: "14:00:00", Duration: 8, DepartmentID: 1},
		{ShiftID: 2, Name: "02:00 PM to 10:00 PM", StartTime: "14:00:00", EndTime: "22:00:00", Duration: 8, DepartmentID: 1},
		{ShiftID: 3, Name: "10:00 PM to 06:00 AM", StartTime: "22:00:00", EndTime: "06:00:00", Duration: 8, DepartmentID: 1},
		{ShiftID: 4, Name: "Day Shift", StartTime: "08:00:00", EndTime: "20:00:00", Duration: 12, DepartmentID: 2},
	}

	s.accounts = []account{
		{ID: 1, Name: "SKVT Super Admin", Email: "admin@skvt.org", Phone: "+91-9876543210", Role: "SuperAdmin", Password: "skvt123", Active: true, CreatedAt: now},
		{ID: 2, Name: "Security Department Admin", Email: "security@skvt.org", Phone: "+91-9876543211", Role: "DepartmentAdmin", DepartmentID: 1, Password: "skvt123", Active: true, CreatedAt: now},
		{ID: 3, Name: "Control Room Operator", Email: "control@skvt.org", Phone: "+91-9876543212", Role: "ControlRoom", Password: "skvt123", Active: true, CreatedAt: now},
		{ID: 4, Name: "District Admin", Email: "district@skvt.org", Phone: "+91-9876543213", Role: "DepartmentAdmin", DepartmentID: 2, Password: "skvt123", Active: true, CreatedAt: now},
		{ID: 5, Name: "Medical Admin", Email: "medical@skvt.org", Phone: "+91-9876543214", Role: "DepartmentAdmin", DepartmentID: 3, Password: "skvt123", Active: true, CreatedAt: now},

		{ID: 11, Name: "Ramesh Pathak", Email: "ramesh@skvt.org", Phone: "+91-9280124354", Role: "Employee", DepartmentID: 1, Designation: "Security Officer", DutyPointID: 1, ShiftID: 1, Password: "user@123", Active: true, CreatedAt: now},
		{ID: 12, Name: "Mahesh Kumar", Email: "mahesh@skvt.org", Phone: "+91-9280124355", Role: "Employee", DepartmentID: 1, Designation: "Security Guard", DutyPointID: 2, ShiftID: 1, Password: "user@123", Active: true, CreatedAt: now},
		{ID: 13, Name: "Manoj Singh", Email: "manoj@skvt.org", Phone: "+91-9280124356", Role: "Employee", DepartmentID: 1, Designation: "Senior Security Officer", DutyPointID: 3, ShiftID: 2, Password: "user@123", Active: true, CreatedAt: now},
		{ID: 14, Name: "Rajesh Gupta", Email: "rajesh@skvt.org", Phone: "+91-9280124357", Role: "Employee", DepartmentID: 1, Designation: "Security Guard", Password: "user@123", Active: true, CreatedAt: now},
		{ID: 15, Name: "Vikash Yadav", Email: "vikash@skvt.org", Phone: "+91-9280124358", Role: "Employee", DepartmentID: 1, Designation: "Security Officer", Password: "user@123", Active: true, CreatedAt: now},
		{ID: 16, Name: "Sunil Verma", Email: "sunil@skvt.org", Phone: "+91-9280124359", Role: "Employee", DepartmentID: 2, Designation: "Constable", DutyPointID: 5, ShiftID: 4, Password: "user@123", Active: true, CreatedAt: now},
		{ID: 17, Name: "Anita Devi", Email: "anita@skvt.org", Phone: "+91-9280124360", Role: "Employee", DepartmentID: 2, Designation: "Head Constable", Password: "user@123", Active: false, CreatedAt: now},
	}
	return s
}

func (s *store) allocID() int {
	s.nextID++
	return s.nextID
}

func (s *store) findAccountByEmail(email string) *account {
	for i := range s.accounts {
		if strings.EqualFold(s.accounts[i].Email, email) {
			return &s.accounts[i]
		}
	}
	return nil
}

func (s *store) findAccount(id int) *account {
	for i := range s.accounts {
		if s.accounts[i].ID == id {
			return &s.accounts[i]
		}
	}
	return nil
}

func (s *store) findDepartment(id int) *api.Department {
	for i := range s.departments {
		if s.departments[i].DepartmentID == id {
			return &s.departments[i]
		}
	}
	return nil
}

func (s *store) findDutyPoint(id int) *api.DutyPoint {
	for i := range s.dutyPoints {
		if s.dutyPoints[i].DutyPointID == id {
			return &s.dutyPoints[i]
		}
	}
	return nil
}

func (s *store) findShift(id int) *api.Shift {
	for i := range s.shifts {
		if s.shifts[i].ShiftID == id {
			return &s.shifts[i]
		}
	}
	return nil
}

func (s *store) departmentDutyPoints(id int) []api.DutyPoint {
	var out []api.DutyPoint
	for _, p := range s.dutyPoints {
		if p.DepartmentID == id {
			p.NumPeople = s.dutyPointHeadcount(p.DutyPointID)
			out = append(out, p)
		}
	}
	return out
}

func (s *store) departmentShifts(id int) []api.Shift {
	var out []api.Shift
	for _, sh := range s.shifts {
		if sh.DepartmentID == id {
			out = append(out, sh)
		}
	}
	return out
}

func (s *store) departmentEmployees(id int) []api.Employee {
	var out []api.Employee
	for _, a := range s.accounts {
		if a.Role == "Employee" && a.DepartmentID == id {
			out = append(out, a.employee())
		}
	}
	return out
}

func (s *store) dutyPointHeadcount(id int) int {
	n := 0
	for _, a := range s.accounts {
		if a.Role == "Employee" && a.DutyPointID == id {
			n++
		}
	}
	return n
}

func (a account) employee() api.Employee {
	status := "active"
	if !a.Active {
		status = "inactive"
	}
	return api.Employee{
		UserID:       a.ID,
		Name:         a.Name,
		Email:        a.Email,
		Phone:        a.Phone,
		Role:         a.Role,
		DepartmentID: a.DepartmentID,
		Designation:  a.Designation,
		DutyPointID:  a.DutyPointID,
		ShiftID:      a.ShiftID,
		Status:       status,
	}
}

func newAssignment(userID, dutyPointID, shiftID int, startDate, endDate string) assignment {
	return assignment{
		Reference:   uuid.NewString(),
		UserID:      userID,
		DutyPointID: dutyPointID,
		ShiftID:     shiftID,
		StartDate:   startDate,
		EndDate:     endDate,
	}
}

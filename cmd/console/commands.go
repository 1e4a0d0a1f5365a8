package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/arabhyaWorks/skvt-mngt-web3/internal/access"
	"github.com/arabhyaWorks/skvt-mngt-web3/internal/api"
	"github.com/arabhyaWorks/skvt-mngt-web3/internal/config"
	"github.com/arabhyaWorks/skvt-mngt-web3/internal/forms"
	"github.com/arabhyaWorks/skvt-mngt-web3/internal/roster"
	"github.com/arabhyaWorks/skvt-mngt-web3/internal/session"
)

const listPageSize = 10

var errNotLoggedIn = errors.New("not logged in; run: console login -email ... -password ...")

type app struct {
	cfg      config.Config
	log      zerolog.Logger
	client   *api.Client
	sessions *session.Manager
	submit   *forms.Submitter
	out      io.Writer
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "login":
		return a.cmdLogin(ctx, args)
	case "logout":
		a.sessions.Logout()
		fmt.Fprintln(a.out, "Logged out.")
		return nil
	case "whoami":
		return a.cmdWhoami()
	case "dashboard":
		return a.cmdDashboard(ctx)
	case "departments":
		return a.cmdDepartments(ctx)
	case "department":
		return a.cmdDepartment(ctx, args)
	case "employees":
		return a.cmdEmployees(ctx, args)
	case "duty-points":
		return a.cmdDutyPoints(ctx)
	case "shifts":
		return a.cmdShifts(ctx)
	case "available":
		return a.cmdAvailable(ctx)
	case "assign":
		return a.cmdAssign(ctx, args)
	case "add-department":
		return a.cmdAddDepartment(ctx, args)
	case "add-duty-point":
		return a.cmdAddDutyPoint(ctx, args)
	case "add-shift":
		return a.cmdAddShift(ctx, args)
	case "add-employee":
		return a.cmdAddEmployee(ctx, args)
	case "designations":
		for _, d := range forms.Designations {
			fmt.Fprintln(a.out, d)
		}
		return nil
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

// user returns the authenticated user, or errNotLoggedIn.
func (a *app) user() (*api.User, error) {
	state := a.sessions.State()
	if !state.IsAuthenticated {
		return nil, errNotLoggedIn
	}
	return state.User, nil
}

// require resolves the requested screen against the user's role. Opening a
// screen the role may not see falls back to the dashboard, mirroring the
// web console's redirect.
func (a *app) require(screen access.Screen) (*api.User, error) {
	user, err := a.user()
	if err != nil {
		return nil, err
	}
	if access.Resolve(user.Role, screen) != screen {
		return nil, fmt.Errorf("role %s has no access to %s", user.Role, screen)
	}
	return user, nil
}

// departmentScope returns the department id a department admin is locked to,
// and 0 for unscoped roles.
func departmentScope(user *api.User) int {
	if !user.Role.DepartmentScoped() {
		return 0
	}
	id, _ := strconv.Atoi(user.DepartmentID)
	return id
}

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" || *password == "" {
		return errors.New("login requires -email and -password")
	}

	if !a.sessions.Login(ctx, *email, *password) {
		return errors.New(a.sessions.LoginError())
	}

	user, _ := a.user()
	fmt.Fprintf(a.out, "Welcome, %s (%s)\n", user.Name, user.Role)
	fmt.Fprintf(a.out, "Screens: ")
	for i, s := range access.ScreensFor(user.Role) {
		if i > 0 {
			fmt.Fprint(a.out, ", ")
		}
		fmt.Fprint(a.out, s)
	}
	fmt.Fprintln(a.out)
	return nil
}

func (a *app) cmdWhoami() error {
	user, err := a.user()
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s <%s> role=%s", user.Name, user.Email, user.Role)
	if user.DepartmentID != "" {
		fmt.Fprintf(a.out, " department=%s", user.DepartmentID)
	}
	fmt.Fprintln(a.out)
	return nil
}

func (a *app) cmdDashboard(ctx context.Context) error {
	user, err := a.require(access.ScreenDashboard)
	if err != nil {
		return err
	}

	if dept := departmentScope(user); dept != 0 {
		detail, err := a.client.GetDepartment(ctx, dept)
		if err != nil {
			return errors.New(api.ErrorMessage(err, "Failed to fetch dashboard"))
		}
		renderDepartmentDetail(a.out, detail)
		return nil
	}

	// Stats and the department list are independent; fetch them concurrently.
	var (
		stats       *api.Stats
		departments []api.Department
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats, err = a.client.Stats(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		departments, err = a.client.ListDepartments(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return errors.New(api.ErrorMessage(err, "Failed to fetch dashboard"))
	}

	fmt.Fprintf(a.out, "Departments: %d   Employees: %d (%d active)\n\n",
		stats.TotalDepartments, stats.TotalEmployees, stats.ActiveEmployees)
	renderDepartments(a.out, departments)
	return nil
}

func (a *app) cmdDepartments(ctx context.Context) error {
	if _, err := a.require(access.ScreenDepartments); err != nil {
		return err
	}
	departments, err := a.client.ListDepartments(ctx)
	if err != nil {
		return errors.New(api.ErrorMessage(err, "Failed to fetch departments"))
	}
	renderDepartments(a.out, departments)
	return nil
}

func (a *app) cmdDepartment(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("department", flag.ExitOnError)
	id := fs.Int("id", 0, "department id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, err := a.require(access.ScreenDepartments)
	if err != nil {
		// A department admin sees only their own department.
		user, err = a.require(access.ScreenDutyPoints)
		if err != nil {
			return err
		}
	}
	target := *id
	if scope := departmentScope(user); scope != 0 {
		target = scope
	}
	if target == 0 {
		return errors.New("department requires -id")
	}

	detail, err := a.client.GetDepartment(ctx, target)
	if err != nil {
		return errors.New(api.ErrorMessage(err, "Failed to fetch department"))
	}
	renderDepartmentDetail(a.out, detail)
	return nil
}

func (a *app) cmdEmployees(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("employees", flag.ExitOnError)
	role := fs.String("role", roster.All, "role filter")
	department := fs.String("department", roster.All, "department id filter")
	dutyPoint := fs.String("duty-point", roster.All, "duty point id filter")
	shift := fs.String("shift", roster.All, "shift id filter")
	status := fs.String("status", roster.All, "status filter (active/inactive)")
	name := fs.String("name", "", "name search")
	page := fs.Int("page", 1, "page number")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, err := a.require(access.ScreenEmployees)
	if err != nil {
		return err
	}

	ctl := a.employeesController(user)
	// Department first: changing it cascades the duty point and shift
	// selections, so they must be applied after.
	selections := []struct{ key, value string }{
		{"department_id", *department},
		{"role", *role},
		{"duty_point_id", *dutyPoint},
		{"shift_id", *shift},
		{"status", *status},
		{"name", *name},
	}
	for _, sel := range selections {
		if sel.value != roster.All && sel.value != "" {
			ctl.SetFilter(ctx, sel.key, sel.value)
		}
	}
	if *page > 1 {
		ctl.SetPage(ctx, *page)
	} else {
		ctl.Refresh(ctx)
	}

	snap := ctl.Snapshot()
	if snap.ErrorMessage != "" {
		return errors.New(snap.ErrorMessage)
	}
	renderEmployees(a.out, snap)
	return nil
}

func (a *app) employeesController(user *api.User) *roster.Controller[api.Employee] {
	cfg := roster.Config{
		Name:    "employees",
		Filters: []string{"role", "department_id", "duty_point_id", "shift_id", "status", "name"},
		Cascades: map[string][]string{
			"department_id": {"duty_point_id", "shift_id"},
		},
		PageSize: listPageSize,
	}
	if scope := departmentScope(user); scope != 0 {
		cfg.Scope = map[string]string{"department_id": strconv.Itoa(scope)}
	}
	return roster.NewController(cfg, roster.UsersFetch(a.client, listPageSize), a.log)
}

func (a *app) cmdDutyPoints(ctx context.Context) error {
	user, err := a.require(access.ScreenDutyPoints)
	if err != nil {
		return err
	}
	dept := departmentScope(user)
	if dept == 0 {
		return errors.New("duty-points requires a department-scoped account")
	}
	detail, err := a.client.GetDepartment(ctx, dept)
	if err != nil {
		return errors.New(api.ErrorMessage(err, "Failed to fetch duty points"))
	}
	renderDutyPoints(a.out, detail.DutyPoints)
	return nil
}

func (a *app) cmdShifts(ctx context.Context) error {
	user, err := a.require(access.ScreenShifts)
	if err != nil {
		return err
	}
	dept := departmentScope(user)
	if dept == 0 {
		return errors.New("shifts requires a department-scoped account")
	}
	detail, err := a.client.GetDepartment(ctx, dept)
	if err != nil {
		return errors.New(api.ErrorMessage(err, "Failed to fetch shifts"))
	}
	renderShifts(a.out, detail.Shifts)
	return nil
}

func (a *app) cmdAvailable(ctx context.Context) error {
	user, err := a.require(access.ScreenAssignDuty)
	if err != nil {
		return err
	}

	q := api.UserQuery{Role: "Employee", Limit: listPageSize}
	if scope := departmentScope(user); scope != 0 {
		q.DepartmentID = strconv.Itoa(scope)
	}
	all, err := roster.FetchAllEmployees(ctx, a.client, q)
	if err != nil {
		return errors.New(api.ErrorMessage(err, "Failed to fetch employees"))
	}

	available := roster.Unassigned(all)
	if len(available) == 0 {
		fmt.Fprintln(a.out, "No unassigned employees.")
		return nil
	}
	for _, emp := range available {
		fmt.Fprintf(a.out, "%d\t%s\t%s\n", emp.UserID, emp.Name, emp.Designation)
	}
	return nil
}

func (a *app) cmdAssign(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("assign", flag.ExitOnError)
	employee := fs.String("employee", "", "employee id")
	dutyPoint := fs.String("duty-point", "", "duty point id")
	shift := fs.String("shift", "", "shift id")
	start := fs.String("start", "", "start date (YYYY-MM-DD)")
	end := fs.String("end", "", "end date (YYYY-MM-DD)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if _, err := a.require(access.ScreenAssignDuty); err != nil {
		return err
	}

	form := &forms.AssignmentForm{
		EmployeeID:  *employee,
		DutyPointID: *dutyPoint,
		ShiftID:     *shift,
		StartDate:   *start,
		EndDate:     *end,
	}
	return a.finish(a.submit.Submit(ctx, form,
		func(ctx context.Context) (string, error) {
			return a.client.CreateAssignment(ctx, form.Payload())
		},
		"Duty assigned successfully!", "Failed to assign duty", nil))
}

func (a *app) cmdAddDepartment(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add-department", flag.ExitOnError)
	name := fs.String("name", "", "department name")
	description := fs.String("description", "", "description")
	adminID := fs.String("admin-id", "", "existing admin user id")
	adminName := fs.String("admin-name", "", "new admin name")
	adminEmail := fs.String("admin-email", "", "new admin email")
	adminPhone := fs.String("admin-phone", "", "new admin phone")
	adminPassword := fs.String("admin-password", "", "new admin password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if _, err := a.require(access.ScreenDepartments); err != nil {
		return err
	}

	form := &forms.DepartmentForm{
		Name:          *name,
		Description:   *description,
		NewAdmin:      *adminID == "",
		AdminID:       *adminID,
		AdminName:     *adminName,
		AdminEmail:    *adminEmail,
		AdminPhone:    *adminPhone,
		AdminPassword: *adminPassword,
	}
	return a.finish(a.submit.Submit(ctx, form,
		func(ctx context.Context) (string, error) {
			return a.client.CreateDepartment(ctx, form.Payload())
		},
		"Department created successfully!", "Failed to create department", nil))
}

func (a *app) cmdAddDutyPoint(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add-duty-point", flag.ExitOnError)
	name := fs.String("name", "", "duty point name")
	description := fs.String("description", "", "description")
	coordinate := fs.String("coordinate", "", "GPS coordinates (latitude,longitude)")
	department := fs.Int("department", 0, "department id (defaults to own department)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, err := a.require(access.ScreenDutyPoints)
	if err != nil {
		return err
	}
	dept, err := a.targetDepartment(user, *department)
	if err != nil {
		return err
	}

	form := &forms.DutyPointForm{Name: *name, Description: *description, Coordinate: *coordinate}
	return a.finish(a.submit.Submit(ctx, form,
		func(ctx context.Context) (string, error) {
			return a.client.CreateDutyPoint(ctx, form.Payload(dept))
		},
		"Duty point created successfully!", "Failed to create duty point", nil))
}

func (a *app) cmdAddShift(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add-shift", flag.ExitOnError)
	name := fs.String("name", "", "shift name")
	start := fs.String("start", "", "start time (HH:MM)")
	end := fs.String("end", "", "end time (HH:MM)")
	department := fs.Int("department", 0, "department id (defaults to own department)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, err := a.require(access.ScreenShifts)
	if err != nil {
		return err
	}
	dept, err := a.targetDepartment(user, *department)
	if err != nil {
		return err
	}

	form := &forms.ShiftForm{Name: *name, StartTime: *start, EndTime: *end}
	return a.finish(a.submit.Submit(ctx, form,
		func(ctx context.Context) (string, error) {
			return a.client.CreateShift(ctx, form.Payload(dept))
		},
		"Shift created successfully!", "Failed to create shift", nil))
}

func (a *app) cmdAddEmployee(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add-employee", flag.ExitOnError)
	name := fs.String("name", "", "employee name")
	phone := fs.String("phone", "", "phone number")
	email := fs.String("email", "", "email (optional)")
	designation := fs.String("designation", "", "designation")
	password := fs.String("password", "", "login password (optional)")
	inactive := fs.Bool("inactive", false, "create as inactive")
	department := fs.Int("department", 0, "department id (defaults to own department)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, err := a.require(access.ScreenEmployees)
	if err != nil {
		return err
	}
	dept, err := a.targetDepartment(user, *department)
	if err != nil {
		return err
	}

	form := &forms.EmployeeForm{
		Name:        *name,
		Phone:       *phone,
		Email:       *email,
		Designation: *designation,
		Password:    *password,
		Active:      !*inactive,
	}
	return a.finish(a.submit.Submit(ctx, form,
		func(ctx context.Context) (string, error) {
			return a.client.CreateEmployee(ctx, form.Payload(dept))
		},
		"Employee added successfully!", "Failed to add employee", nil))
}

// targetDepartment picks the department a create lands in: a scoped role
// always uses its own department, everyone else must name one.
func (a *app) targetDepartment(user *api.User, requested int) (int, error) {
	if scope := departmentScope(user); scope != 0 {
		return scope, nil
	}
	if requested == 0 {
		return 0, errors.New("missing -department")
	}
	return requested, nil
}

// finish renders a submit outcome: field errors line by line, or the
// success/failure message.
func (a *app) finish(out forms.Outcome) error {
	if out.Busy {
		return errors.New("another submit is already in flight")
	}
	if len(out.FieldErrors) > 0 {
		for field, msg := range out.FieldErrors {
			fmt.Fprintf(a.out, "%s: %s\n", field, msg)
		}
		return errors.New("validation failed")
	}
	if !out.OK {
		return errors.New(out.Message)
	}
	fmt.Fprintln(a.out, out.Message)
	return nil
}

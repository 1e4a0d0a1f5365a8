// Package access maps a session role to the screens it may open. This is a
// pure lookup; there is no state beyond the rule table.
package access

import "github.com/arabhyaWorks/skvt-mngt-web3/internal/api"

type Screen string

const (
	ScreenDashboard   Screen = "dashboard"
	ScreenDepartments Screen = "departments"
	ScreenEmployees   Screen = "employees"
	ScreenOrders      Screen = "orders"
	ScreenChecklists  Screen = "checklists"
	ScreenSecurity    Screen = "security"
	ScreenDutyPoints  Screen = "duty-points"
	ScreenShifts      Screen = "shifts"
	ScreenAssignDuty  Screen = "assign-duty"
	ScreenMonitor     Screen = "monitor"
	ScreenContacts    Screen = "contacts"
)

// screens lists the permitted destinations per role, beyond the dashboard
// that every role gets.
var screens = map[api.Role][]Screen{
	api.RoleSuperAdmin: {
		ScreenDepartments,
		ScreenEmployees,
		ScreenOrders,
		ScreenChecklists,
		ScreenSecurity,
	},
	api.RoleDepartmentAdmin: {
		ScreenDutyPoints,
		ScreenShifts,
		ScreenEmployees,
		ScreenAssignDuty,
		ScreenOrders,
	},
	api.RoleControlRoom: {
		ScreenDepartments,
		ScreenMonitor,
		ScreenContacts,
	},
}

// ScreensFor returns the navigation entries for a role, dashboard first.
func ScreensFor(role api.Role) []Screen {
	out := []Screen{ScreenDashboard}
	return append(out, screens[role]...)
}

func Allowed(role api.Role, screen Screen) bool {
	if screen == ScreenDashboard {
		return true
	}
	for _, s := range screens[role] {
		if s == screen {
			return true
		}
	}
	return false
}

// Resolve returns the requested screen when the role may open it, and falls
// back to the dashboard otherwise.
func Resolve(role api.Role, requested Screen) Screen {
	if Allowed(role, requested) {
		return requested
	}
	return ScreenDashboard
}

package roster

import (
	"context"

	"github.com/arabhyaWorks/skvt-mngt-web3/internal/api"
)

// UserLister is the slice of the API client the page walk needs.
type UserLister interface {
	ListUsers(ctx context.Context, q api.UserQuery) (*api.UserPage, error)
}

// FetchAllEmployees walks every page of the users listing and concatenates the
// results in page order. The assign-duty flow needs the complete roster before
// the "currently unassigned" filter means anything. The walk stops as soon as
// the next page number exceeds the backend-reported total, so an inconsistent
// page count cannot loop forever.
func FetchAllEmployees(ctx context.Context, client UserLister, q api.UserQuery) ([]api.Employee, error) {
	q.Page = 1
	var all []api.Employee
	for {
		page, err := client.ListUsers(ctx, q)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Data...)
		q.Page++
		if q.Page > page.Pagination.TotalPages {
			return all, nil
		}
	}
}

// Unassigned keeps active employees that hold no current duty assignment.
func Unassigned(employees []api.Employee) []api.Employee {
	var out []api.Employee
	for _, emp := range employees {
		if emp.DutyPointID == 0 && emp.Status != "inactive" {
			out = append(out, emp)
		}
	}
	return out
}

// UsersFetch adapts the users listing endpoint to a list controller fetch.
func UsersFetch(client UserLister, pageSize int) FetchFunc[api.Employee] {
	return func(ctx context.Context, filters map[string]string, page int) (Page[api.Employee], error) {
		resp, err := client.ListUsers(ctx, api.UserQuery{
			Role:         filters["role"],
			DepartmentID: filters["department_id"],
			ShiftID:      filters["shift_id"],
			DutyPointID:  filters["duty_point_id"],
			Status:       filters["status"],
			Name:         filters["name"],
			Page:         page,
			Limit:        pageSize,
		})
		if err != nil {
			return Page[api.Employee]{}, err
		}
		return Page[api.Employee]{
			Items:       resp.Data,
			CurrentPage: resp.Pagination.Page,
			TotalPages:  resp.Pagination.TotalPages,
			TotalCount:  resp.Pagination.Total,
		}, nil
	}
}

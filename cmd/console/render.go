package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/arabhyaWorks/skvt-mngt-web3/internal/api"
	"github.com/arabhyaWorks/skvt-mngt-web3/internal/roster"
)

func renderDepartments(out io.Writer, departments []api.Department) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tADMIN\tDUTY POINTS\tSHIFTS\tEMPLOYEES")
	for _, d := range departments {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%d\n",
			d.DepartmentID, d.Name, d.AdminName, len(d.DutyPoints), len(d.Shifts), d.NumEmployees)
	}
	w.Flush()
}

func renderDepartmentDetail(out io.Writer, detail *api.DepartmentDetail) {
	fmt.Fprintf(out, "%s (#%d)\n", detail.Name, detail.DepartmentID)
	if detail.Description != "" {
		fmt.Fprintln(out, detail.Description)
	}
	fmt.Fprintf(out, "Admin: %s\n", detail.AdminName)
	if detail.CurrentShift != nil {
		fmt.Fprintf(out, "Current shift: %s (%s - %s)\n",
			detail.CurrentShift.Name, clock12(detail.CurrentShift.StartTime), clock12(detail.CurrentShift.EndTime))
	}

	fmt.Fprintln(out, "\nDuty points:")
	renderDutyPoints(out, detail.DutyPoints)
	fmt.Fprintln(out, "\nShifts:")
	renderShifts(out, detail.Shifts)

	fmt.Fprintf(out, "\nEmployees: %d\n", len(detail.Employees))
}

func renderDutyPoints(out io.Writer, points []api.DutyPoint) {
	if len(points) == 0 {
		fmt.Fprintln(out, "  (none)")
		return
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCOORDINATE\tPEOPLE")
	for _, p := range points {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", p.DutyPointID, p.Name, p.Coordinate, p.NumPeople)
	}
	w.Flush()
}

func renderShifts(out io.Writer, shifts []api.Shift) {
	if len(shifts) == 0 {
		fmt.Fprintln(out, "  (none)")
		return
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSTART\tEND\tHOURS")
	for _, s := range shifts {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%g\n", s.ShiftID, s.Name, clock12(s.StartTime), clock12(s.EndTime), s.Duration)
	}
	w.Flush()
}

// clock12 renders a backend "HH:MM:SS" time in 12-hour form. "24:00" is
// treated as midnight. Unparseable values pass through untouched.
func clock12(value string) string {
	if strings.HasPrefix(value, "24:") {
		value = "00:" + value[3:]
	}
	t, err := time.Parse("15:04:05", value)
	if err != nil {
		if t, err = time.Parse("15:04", value); err != nil {
			return value
		}
	}
	return t.Format("03:04 PM")
}

func renderEmployees(out io.Writer, snap roster.Snapshot[api.Employee]) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPHONE\tDESIGNATION\tDUTY POINT\tSHIFT\tSTATUS")
	for _, e := range snap.Items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.UserID, e.Name, e.Phone, e.Designation,
			orDash(e.DutyPointID), orDash(e.ShiftID), e.Status)
	}
	w.Flush()
	fmt.Fprintf(out, "Page %d of %d (%d total)\n", snap.CurrentPage, snap.TotalPages, snap.TotalCount)
}

func orDash(id int) string {
	if id == 0 {
		return "-"
	}
	return fmt.Sprintf("%d", id)
}

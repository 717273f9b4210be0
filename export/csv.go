// Package export renders week planning data as CSV and PDF downloads.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"shiftly/models"
)

// WeekCSV writes the assignments as CSV. Callers set the Content-Type and
// Content-Disposition headers.
func WeekCSV(w io.Writer, assignments []models.Assignment) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Employee", "Shift", "Start", "End", "Duration"}); err != nil {
		return err
	}

	for _, a := range assignments {
		employeeName := ""
		if a.Employee != nil {
			employeeName = a.Employee.FullName
		}
		shiftName := "N/A"
		if a.Shift != nil {
			shiftName = a.Shift.Name
		}
		if err := writer.Write([]string{
			employeeName,
			shiftName,
			a.Start.Format("02/01/2006 15:04"),
			a.End.Format("02/01/2006 15:04"),
			fmt.Sprintf("%.1fh", a.End.Sub(a.Start).Seconds()/3600),
		}); err != nil {
			return err
		}
	}

	return writer.Error()
}

package export

import (
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"shiftly/models"
)

var (
	colorPrimary = &props.Color{Red: 48, Green: 85, Blue: 255}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// WeekPDF renders the week's planning as an A4 landscape table, one line
// per assignment, with a per-employee hours total at the end.
func WeekPDF(title string, weekStart time.Time, assignments []models.Assignment) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		Build()

	m := maroto.New(cfg)

	weekEnd := weekStart.AddDate(0, 0, 6)
	m.AddRows(row.New(12).Add(
		col.New(8).Add(
			text.New(title, props.Text{Style: fontstyle.Bold, Size: 14, Color: colorPrimary}),
		),
		col.New(4).Add(
			text.New(
				fmt.Sprintf("Week %s - %s", weekStart.Format("02/01/2006"), weekEnd.Format("02/01/2006")),
				props.Text{Size: 10, Align: align.Right, Color: colorGray},
			),
		),
	))
	m.AddRows(line.NewRow(2, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	for _, a := range assignments {
		m.AddRows(assignmentRow(&a))
	}

	m.AddRows(line.NewRow(2, props.Line{Color: colorGray, Thickness: 0.3}))
	for _, r := range totalsRows(assignments) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generate document: %w", err)
	}
	return doc.GetBytes(), nil
}

func tableHeaderRow() core.Row {
	header := props.Text{Style: fontstyle.Bold, Size: 9, Color: colorPrimary}
	return row.New(7).Add(
		col.New(3).Add(text.New("Employee", header)),
		col.New(3).Add(text.New("Shift", header)),
		col.New(2).Add(text.New("Date", header)),
		col.New(2).Add(text.New("Hours", header)),
		col.New(2).Add(text.New("Duration", props.Text{
			Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Align: align.Right,
		})),
	)
}

func assignmentRow(a *models.Assignment) core.Row {
	employeeName := ""
	if a.Employee != nil {
		employeeName = a.Employee.FullName
	}
	shiftName := "N/A"
	if a.Shift != nil {
		shiftName = a.Shift.Name
	}

	return row.New(6).Add(
		col.New(3).Add(text.New(employeeName, props.Text{Size: 9})),
		col.New(3).Add(text.New(shiftName, props.Text{Size: 9})),
		col.New(2).Add(text.New(a.Start.Format("02/01/2006"), props.Text{Size: 9})),
		col.New(2).Add(text.New(
			fmt.Sprintf("%s - %s", a.Start.Format("15:04"), a.End.Format("15:04")),
			props.Text{Size: 9},
		)),
		col.New(2).Add(text.New(
			fmt.Sprintf("%.1fh", a.End.Sub(a.Start).Seconds()/3600),
			props.Text{Size: 9, Align: align.Right},
		)),
	)
}

func totalsRows(assignments []models.Assignment) []core.Row {
	totals := make(map[string]float64)
	order := make([]string, 0)
	for _, a := range assignments {
		name := ""
		if a.Employee != nil {
			name = a.Employee.FullName
		}
		if _, seen := totals[name]; !seen {
			order = append(order, name)
		}
		totals[name] += a.End.Sub(a.Start).Seconds() / 3600
	}

	rows := make([]core.Row, 0, len(order))
	for _, name := range order {
		rows = append(rows, row.New(6).Add(
			col.New(10).Add(text.New(name, props.Text{Size: 9, Style: fontstyle.Bold})),
			col.New(2).Add(text.New(
				fmt.Sprintf("%.1fh", totals[name]),
				props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right},
			)),
		))
	}
	return rows
}

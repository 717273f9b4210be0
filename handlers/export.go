package handlers

import (
	"fmt"
	"net/http"
	"time"

	"shiftly/export"
	"shiftly/hours"
	"shiftly/middleware"
	"shiftly/models"
	"shiftly/schedule"
	"shiftly/visibility"

	"github.com/rs/zerolog"
)

type ExportHandler struct {
	schedule *schedule.Service
	resolver *visibility.Resolver
	log      zerolog.Logger
}

func NewExportHandler(sched *schedule.Service, resolver *visibility.Resolver, log zerolog.Logger) *ExportHandler {
	return &ExportHandler{schedule: sched, resolver: resolver, log: log}
}

func (h *ExportHandler) week(r *http.Request) (time.Time, []models.Assignment, error) {
	actor := middleware.GetUserFromContext(r.Context())

	start := time.Now()
	if s := r.URL.Query().Get("start"); s != "" {
		parsed, err := time.Parse("2006-01-02", s)
		if err != nil {
			return time.Time{}, nil, models.ErrValidation
		}
		start = parsed
	}

	weekStart := hours.StartOfWeek(start)

	employees, err := h.resolver.ManageableEmployees(actor)
	if err != nil {
		return time.Time{}, nil, err
	}

	ids := make([]uint, 0, len(employees))
	for _, e := range employees {
		ids = append(ids, e.ID)
	}

	assignments, err := h.schedule.ForEmployees(ids, weekStart, weekStart.AddDate(0, 0, 7))
	if err != nil {
		return time.Time{}, nil, err
	}

	return weekStart, assignments, nil
}

// WeekCSV downloads the current (or ?start=) week's planning as CSV.
func (h *ExportHandler) WeekCSV(w http.ResponseWriter, r *http.Request) {
	weekStart, assignments, err := h.week(r)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	filename := fmt.Sprintf("planning_%s.csv", weekStart.Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := export.WeekCSV(w, assignments); err != nil {
		h.log.Error().Err(err).Msg("csv export failed")
	}
}

// WeekPDF downloads the week's planning as a PDF table.
func (h *ExportHandler) WeekPDF(w http.ResponseWriter, r *http.Request) {
	weekStart, assignments, err := h.week(r)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	doc, err := export.WeekPDF("Week Planning", weekStart, assignments)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	filename := fmt.Sprintf("planning_%s.pdf", weekStart.Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	_, _ = w.Write(doc)
}

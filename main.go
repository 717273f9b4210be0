package main

import (
	"net/http"

	"shiftly/config"
	"shiftly/database"
	"shiftly/handlers"
	"shiftly/hours"
	"shiftly/logger"
	"shiftly/middleware"
	"shiftly/models"
	"shiftly/schedule"
	"shiftly/store"
	"shiftly/visibility"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log := logger.New(cfg.Env, cfg.LogLevel)

	// Initialize JWT secret
	middleware.SetJWTSecret(cfg.JWTSecret)

	// Initialize database
	if err := database.Init(cfg.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}

	db := database.GetDB()
	resolver := visibility.NewResolver(db)
	engine := hours.NewEngine(db)
	scheduleService := schedule.NewService(db, resolver, cfg.ConflictChecks)
	storeService := store.NewService(db, resolver)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(cfg, log)
	employeeHandler := handlers.NewEmployeeHandler(storeService, resolver, engine, log)
	teamHandler := handlers.NewTeamHandler(storeService, resolver, log)
	shiftHandler := handlers.NewShiftHandler(storeService, log)
	assignmentHandler := handlers.NewAssignmentHandler(scheduleService, resolver, log)
	hoursHandler := handlers.NewHoursHandler(engine, resolver, log)
	exportHandler := handlers.NewExportHandler(scheduleService, resolver, log)
	establishmentHandler := handlers.NewEstablishmentHandler(storeService, log)

	// Setup router
	router := chi.NewRouter()
	router.Use(middleware.RequestLogger(log))
	router.Use(chimiddleware.Recoverer)

	// Public routes
	router.Post("/register", authHandler.Register)
	router.Post("/login", authHandler.Login)

	// Protected routes
	router.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware)

		r.Get("/logout", authHandler.Logout)
		r.Post("/settings/password", authHandler.ChangePassword)
		r.Put("/settings/profile", authHandler.UpdateProfile)

		// Own schedule, for any authenticated employee
		r.Get("/api/events", assignmentHandler.Events)

		// Manager and above
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireTier(models.TierManager))

			r.Get("/api/employees", employeeHandler.List)
			r.Post("/api/employees", employeeHandler.Create)
			r.Put("/api/employees/{employeeID}", employeeHandler.Update)
			r.Delete("/api/employees/{employeeID}", employeeHandler.Delete)
			r.Put("/api/employees/{employeeID}/contract", employeeHandler.UpdateContract)
			r.Post("/api/employees/{employeeID}/deactivate", employeeHandler.Deactivate)
			r.Get("/api/employees/{employeeID}/hours", hoursHandler.EmployeeDetail)
			r.Get("/api/unassigned-employees", employeeHandler.Unassigned)

			r.Get("/api/teams", teamHandler.List)
			r.Post("/api/teams", teamHandler.Create)
			r.Put("/api/teams/{teamID}", teamHandler.Update)
			r.Delete("/api/teams/{teamID}", teamHandler.Delete)
			r.Post("/api/teams/{teamID}/assign", teamHandler.AssignMembers)
			r.Post("/api/teams/{teamID}/remove/{employeeID}", teamHandler.RemoveMember)

			r.Get("/api/shifts", shiftHandler.List)
			r.Post("/api/shifts", shiftHandler.Create)
			r.Put("/api/shifts/{shiftID}", shiftHandler.Update)
			r.Delete("/api/shifts/{shiftID}", shiftHandler.Delete)

			r.Get("/api/assignments", assignmentHandler.List)
			r.Post("/api/assignments", assignmentHandler.Create)
			r.Put("/api/assignments/{assignmentID}", assignmentHandler.Update)
			r.Delete("/api/assignments/{assignmentID}", assignmentHandler.Delete)
			r.Post("/api/assignments/{assignmentID}/duplicate", assignmentHandler.Duplicate)
			r.Post("/api/assignments/{assignmentID}/move", assignmentHandler.Move)

			r.Get("/api/gantt-data", assignmentHandler.WeekData)
			r.Get("/api/planning-stats", hoursHandler.PlanningStats)
			r.Get("/api/hours-stats", hoursHandler.Stats)
			r.Get("/api/employees-attention", hoursHandler.Attention)

			r.Get("/export/week", exportHandler.WeekCSV)
			r.Get("/export/week/pdf", exportHandler.WeekPDF)
		})

		// Super-admin only
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireTier(models.TierSuperAdmin))

			r.Get("/api/establishments", establishmentHandler.List)
			r.Post("/api/establishments", establishmentHandler.Create)
			r.Delete("/api/establishments/{establishmentID}", establishmentHandler.Delete)
		})
	})

	log.Info().Str("port", cfg.ServerPort).Msg("server starting")
	if err := http.ListenAndServe(":"+cfg.ServerPort, router); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

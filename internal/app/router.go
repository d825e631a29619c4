package app

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/SoressaKumela/Digital-Examination-System/internal/app/observability"
	"github.com/SoressaKumela/Digital-Examination-System/internal/auth"
	"github.com/SoressaKumela/Digital-Examination-System/internal/exam"
	"github.com/SoressaKumela/Digital-Examination-System/internal/question"
	"github.com/SoressaKumela/Digital-Examination-System/internal/report"
	"github.com/SoressaKumela/Digital-Examination-System/internal/store"
)

func NewRouter(cfg Config, st store.Store, db *sql.DB) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	collector := observability.NewCollector(db)
	r.Use(collector.Middleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	tokens := auth.NewTokenManager(cfg.JWTSecret, time.Duration(cfg.TokenTTLHours)*time.Hour, cfg.LegacyTokens)
	authSvc := auth.NewService(st, tokens)
	authHandler := auth.NewHandler(authSvc, tokens, st)
	adminHandler := auth.NewAdminHandler(auth.NewAdminService(st))

	examHandler := exam.NewHandler(exam.NewService(st, cfg.ResubmissionPolicy))
	questionHandler := question.NewHandler(question.NewService(st))
	reportHandler := report.NewHandler(report.NewService(st))

	authLimiter := NewIPRateLimiter(cfg.AuthRateLimitPerMin, time.Minute)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	r.Route("/api", func(api chi.Router) {
		api.Group(func(public chi.Router) {
			public.Use(RateLimitMiddleware(authLimiter))
			public.Post("/auth/login", authHandler.Login)
			public.Post("/auth/register", authHandler.Register)
		})

		api.Group(func(secure chi.Router) {
			secure.Use(authHandler.RequireAuth)

			secure.Route("/student", func(student chi.Router) {
				student.Use(authHandler.RequireRoles(store.RoleStudent))
				student.Get("/dashboard", examHandler.StudentDashboard)
				student.Get("/exam/{id}", examHandler.ExamDetail)
				student.Get("/exam/{id}/questions", examHandler.ExamQuestions)
				student.Post("/exam/{id}/submit", examHandler.Submit)
				student.Get("/results/{id}", examHandler.ResultDetail)
			})

			secure.Route("/teacher", func(teacher chi.Router) {
				teacher.Use(authHandler.RequireRoles(store.RoleTeacher, store.RoleAdmin))
				teacher.Get("/dashboard", examHandler.TeacherDashboard)
				teacher.Get("/questions", questionHandler.List)
				teacher.Post("/questions", questionHandler.Create)
				teacher.Put("/questions/{id}", questionHandler.Update)
				teacher.Delete("/questions/{id}", questionHandler.Delete)
				teacher.Post("/exams", examHandler.CreateExam)
				teacher.Get("/exams/{id}/results", examHandler.ExamResults)
				teacher.Get("/exams/{id}/results/export", examHandler.ExportExamResults)
				teacher.Get("/exams/{id}/summary", reportHandler.Summary)
			})

			secure.Route("/admin", func(admin chi.Router) {
				admin.Use(authHandler.RequireRoles(store.RoleAdmin))
				admin.Get("/stats", adminHandler.Stats)
				admin.Get("/users", adminHandler.ListUsers)
				admin.Put("/users/{id}", adminHandler.UpdateUser)
				admin.Delete("/users/{id}", adminHandler.DeleteUser)
				admin.Get("/users/export", adminHandler.ExportUsers)
				admin.Get("/metrics", collector.MetricsHandler)
			})
		})
	})

	return r
}

package http

import (
	"net/http"

	"go-therapy-platform/internal/delivery/http/handler"
	"go-therapy-platform/internal/delivery/http/middleware"
	"go-therapy-platform/internal/domain/entity"
	"go-therapy-platform/pkg/metrics"
	"go-therapy-platform/pkg/response"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Handlers groups the HTTP handlers mounted by the router.
type Handlers struct {
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Patient      *handler.PatientHandler
	Session      *handler.SessionHandler
	Message      *handler.MessageHandler
	Report       *handler.ReportHandler
	Notification *handler.NotificationHandler
	Chat         *handler.ChatHandler
	Dashboard    *handler.DashboardHandler
	AuditLog     *handler.AuditLogHandler
}

// Middlewares groups the cross-cutting request filters.
type Middlewares struct {
	Auth         *middleware.AuthMiddleware
	CORS         *middleware.CORSMiddleware
	CSRF         *middleware.CSRFMiddleware
	RateLimiter  *middleware.RateLimiter
	Logger       *middleware.RequestLogger
	AllowedHosts []string
	// Log receives recovered panics.
	Log          *logrus.Logger
}

type Router struct {
	router      *mux.Router
	handlers    Handlers
	middlewares Middlewares
	metrics     *metrics.Metrics
}

func NewRouter(handlers Handlers, middlewares Middlewares, m *metrics.Metrics) *Router {
	return &Router{
		router:      mux.NewRouter(),
		handlers:    handlers,
		middlewares: middlewares,
		metrics:     m,
	}
}

func (r *Router) Setup() http.Handler {
	h := r.handlers
	limited := r.middlewares.RateLimiter.RateLimit
	requireCap := middleware.RequireCapability

	r.router.Use(r.middlewares.Logger.Handle)
	r.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "Resource not found")
	})

	if r.metrics != nil {
		r.router.Handle("/metrics", r.metrics.Handler()).Methods(http.MethodGet)
	}

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", h.Auth.Register).Methods(http.MethodPost)
	auth.Handle("/login", limited(http.HandlerFunc(h.Auth.Login))).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", h.Auth.RefreshToken).Methods(http.MethodPost)
	auth.HandleFunc("/csrf", h.Auth.CSRFToken).Methods(http.MethodGet)

	// Everything below requires a valid access token
	protected := api.NewRoute().Subrouter()
	protected.Use(r.middlewares.Auth.Authenticate)
	protected.Use(r.middlewares.CSRF.Protect)

	protected.HandleFunc("/auth/logout", h.Auth.Logout).Methods(http.MethodPost)
	protected.HandleFunc("/auth/me", h.Auth.GetCurrentUser).Methods(http.MethodGet)

	// Profile
	protected.HandleFunc("/profile", h.User.GetProfile).Methods(http.MethodGet)
	protected.HandleFunc("/profile", h.User.UpdateProfile).Methods(http.MethodPut, http.MethodPatch)
	protected.Handle("/my-therapist", middleware.RequireRole(entity.RolePatient)(http.HandlerFunc(h.User.GetMyTherapist))).Methods(http.MethodGet)

	// Patients
	protected.HandleFunc("/patients", h.Patient.ListPatients).Methods(http.MethodGet)
	protected.Handle("/patients", requireCap(entity.CapManagePatients)(http.HandlerFunc(h.Patient.CreatePatient))).Methods(http.MethodPost)
	protected.Handle("/patients/search", requireCap(entity.CapSearchPatients)(http.HandlerFunc(h.Patient.SearchPatients))).Methods(http.MethodGet)
	protected.HandleFunc("/patients/{id}", h.Patient.GetPatient).Methods(http.MethodGet)
	protected.HandleFunc("/patients/{id}", h.Patient.UpdatePatient).Methods(http.MethodPut, http.MethodPatch)
	protected.HandleFunc("/patients/{id}", h.Patient.DeletePatient).Methods(http.MethodDelete)

	// Sessions
	sessions := protected.PathPrefix("/sessions").Subrouter()
	sessions.Use(requireCap(entity.CapScheduleSession))
	sessions.HandleFunc("", h.Session.ListSessions).Methods(http.MethodGet)
	sessions.HandleFunc("", h.Session.CreateSession).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}", h.Session.GetSession).Methods(http.MethodGet)
	sessions.HandleFunc("/{id}", h.Session.UpdateSession).Methods(http.MethodPut, http.MethodPatch)
	sessions.HandleFunc("/{id}", h.Session.DeleteSession).Methods(http.MethodDelete)

	// Messages
	messages := protected.PathPrefix("/messages").Subrouter()
	messages.Use(requireCap(entity.CapMessage))
	messages.HandleFunc("", h.Message.ListMessages).Methods(http.MethodGet)
	messages.HandleFunc("", h.Message.CreateMessage).Methods(http.MethodPost)
	messages.HandleFunc("/{id}", h.Message.GetMessage).Methods(http.MethodGet)
	messages.HandleFunc("/{id}", h.Message.UpdateMessage).Methods(http.MethodPut, http.MethodPatch)
	messages.HandleFunc("/{id}", h.Message.DeleteMessage).Methods(http.MethodDelete)
	messages.HandleFunc("/{id}/read", h.Message.MarkRead).Methods(http.MethodPost)

	// Reports
	protected.HandleFunc("/reports", h.Report.ListReports).Methods(http.MethodGet)
	protected.Handle("/reports", requireCap(entity.CapWriteReports)(http.HandlerFunc(h.Report.CreateReport))).Methods(http.MethodPost)
	protected.HandleFunc("/reports/{id}", h.Report.GetReport).Methods(http.MethodGet)
	protected.HandleFunc("/reports/{id}", h.Report.UpdateReport).Methods(http.MethodPut, http.MethodPatch)
	protected.HandleFunc("/reports/{id}", h.Report.DeleteReport).Methods(http.MethodDelete)

	// Notifications
	protected.HandleFunc("/notifications", h.Notification.ListNotifications).Methods(http.MethodGet)
	protected.Handle("/notifications", requireCap(entity.CapManageNotifications)(http.HandlerFunc(h.Notification.CreateNotification))).Methods(http.MethodPost)
	protected.HandleFunc("/notifications/read-all", h.Notification.MarkAllRead).Methods(http.MethodPost)
	protected.HandleFunc("/notifications/{id}", h.Notification.GetNotification).Methods(http.MethodGet)
	protected.HandleFunc("/notifications/{id}", h.Notification.UpdateNotification).Methods(http.MethodPut, http.MethodPatch)
	protected.HandleFunc("/notifications/{id}", h.Notification.DeleteNotification).Methods(http.MethodDelete)

	// AI chat
	ai := protected.PathPrefix("/ai").Subrouter()
	ai.Use(requireCap(entity.CapChat))
	ai.Handle("/respond", limited(http.HandlerFunc(h.Chat.Respond))).Methods(http.MethodPost)
	ai.HandleFunc("/history", h.Chat.History).Methods(http.MethodGet)

	// Dashboards
	protected.Handle("/dashboard/therapist", requireCap(entity.CapViewTherapistDashboard)(http.HandlerFunc(h.Dashboard.Therapist))).Methods(http.MethodGet)
	protected.Handle("/dashboard/patient", requireCap(entity.CapViewPatientDashboard)(http.HandlerFunc(h.Dashboard.Patient))).Methods(http.MethodGet)

	// Admin routes
	protected.Handle("/admin/audit-logs", requireCap(entity.CapViewAuditLog)(http.HandlerFunc(h.AuditLog.ListAuditLogs))).Methods(http.MethodGet)

	users := protected.PathPrefix("/users").Subrouter()
	users.Use(requireCap(entity.CapManageUsers))
	users.HandleFunc("", h.User.ListUsers).Methods(http.MethodGet)
	users.HandleFunc("/{id}", h.User.GetUser).Methods(http.MethodGet)
	users.HandleFunc("/{id}/status", h.User.UpdateUserStatus).Methods(http.MethodPatch, http.MethodPut)

	// CORS and host checks must see preflight requests, which never match a route.
	var root http.Handler = r.router
	root = r.middlewares.CORS.Handle(root)
	root = middleware.AllowedHosts(r.middlewares.AllowedHosts)(root)
	root = middleware.Recovery(r.middlewares.Log)(root)
	return root
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

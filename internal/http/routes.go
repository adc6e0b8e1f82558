package httpx

import (
	"log/slog"
	"net/http"

	domainauth "github.com/edupulse/edupulse/internal/domain/auth"
	"github.com/edupulse/edupulse/internal/ports"
	"github.com/edupulse/edupulse/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth      AuthServiceInterface
	Resolver  *service.RoleResolver
	Sessions  ports.SessionStore
	Events    ports.SessionEvents
	Documents *service.DocumentService
	Datasets  *service.DatasetService
	// Optional: enables GET /documents/signed for cookie-less downloads.
	SignedDocs SignedDocumentStore
	// Configuration
	CookieDomain string
	SSOEnabled   bool
	Logger       *slog.Logger
}

// NewRouter creates and configures a new HTTP router.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{
		Svc:      services.Auth,
		Resolver: services.Resolver,
		NewMonitor: func(sessionID string) *service.AuthMonitor {
			return service.NewAuthMonitor(service.AuthMonitorOptions{
				SessionID: sessionID,
				Sessions:  services.Sessions,
				Events:    services.Events,
				Resolver:  services.Resolver,
				Logger:    logger,
			})
		},
		CookieDomain: services.CookieDomain,
		SSOEnabled:   services.SSOEnabled,
		Logger:       logger,
	}
	dashboardHandlers := &DashboardHandlers{Datasets: services.Datasets}
	marketingHandlers := NewMarketingHandlers()
	documentHandlers := &DocumentHandlers{Svc: services.Documents, Signed: services.SignedDocs}

	guard := &Guard{Sessions: services.Auth, Resolver: services.Resolver}

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	registerAuthRoutes(mux, authHandlers)
	registerPublicRoutes(mux, dashboardHandlers, marketingHandlers)
	registerDashboardRoutes(mux, dashboardHandlers, guard)
	registerDocumentRoutes(mux, documentHandlers, guard)

	chain := Logging(logger)(Recover(logger)(BrowserDetection()(mux)))
	return chain
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("POST /api/auth/login", h.Login)
	mux.HandleFunc("POST /api/auth/signup", h.Signup)
	mux.HandleFunc("POST /api/auth/refresh", h.Refresh)
	mux.HandleFunc("POST /auth/logout", h.Logout)
	mux.HandleFunc("GET /auth/status", h.Status)
	mux.HandleFunc("GET /auth/signed-out", h.SignedOut)
	mux.HandleFunc("GET /auth/watch", h.Watch)
	mux.HandleFunc("GET /redirect", h.Redirect)
	if h.SSOEnabled {
		mux.HandleFunc("GET /auth/sso/login", h.SSOLogin)
		mux.HandleFunc("GET /auth/sso/callback", h.SSOCallback)
	}
}

func registerPublicRoutes(mux *http.ServeMux, h *DashboardHandlers, m *MarketingHandlers) {
	mux.HandleFunc("GET /{$}", h.Landing)
	mux.HandleFunc("GET /api/analytics", h.AnalyticsIndex)
	mux.HandleFunc("GET /api/analytics/{dataset}", h.Analytics)
	mux.HandleFunc("GET /api/about", m.About)
	mux.HandleFunc("GET /api/contact", m.Contact)
	mux.HandleFunc("POST /api/contact", m.ContactSubmit)
}

// registerDashboardRoutes wires one guarded route per role dashboard. The
// guard resolves the caller's real role before any payload is written; a
// wrong-role or anonymous browser request is redirected to the login page.
func registerDashboardRoutes(mux *http.ServeMux, h *DashboardHandlers, guard *Guard) {
	dashboards := []struct {
		path string
		role domainauth.Role
	}{
		{StudentPath, domainauth.RoleStudent},
		{TeacherPath, domainauth.RoleTeacher},
		{AdminPath, domainauth.RoleInstitutionAdmin},
		{MinistryPath, domainauth.RoleMinistryAdmin},
	}
	for _, d := range dashboards {
		mux.Handle("GET "+d.path, RequireRole(guard, d.role)(h.Dashboard(d.role)))
	}
}

func registerDocumentRoutes(mux *http.ServeMux, h *DocumentHandlers, guard *Guard) {
	studentOnly := RequireRole(guard, domainauth.RoleStudent)
	mux.Handle("GET /api/documents", studentOnly(http.HandlerFunc(h.List)))
	mux.Handle("POST /api/documents", studentOnly(http.HandlerFunc(h.Upload)))
	mux.Handle("POST /api/documents/sign", studentOnly(http.HandlerFunc(h.SignURL)))
	mux.Handle("GET /api/documents/{name...}", studentOnly(http.HandlerFunc(h.Download)))
	mux.Handle("DELETE /api/documents/{name...}", studentOnly(http.HandlerFunc(h.Delete)))

	// Signed URLs carry their own authorization; no guard here.
	mux.HandleFunc("GET /documents/signed", h.ServeSigned)
}

package httpx

import (
	"errors"
	"net/http"

	domainauth "github.com/edupulse/edupulse/internal/domain/auth"
	"github.com/edupulse/edupulse/internal/domain/profile"
	"github.com/edupulse/edupulse/internal/service"
)

// DashboardHandlers serves role dashboards and the public analytics datasets.
type DashboardHandlers struct {
	Datasets *service.DatasetService
}

// Dashboard returns a handler serving the payload for one role's dashboard.
// The route guard has already resolved and admitted the request, so the role
// here is fixed per route, not read from the request.
func (h *DashboardHandlers) Dashboard(role domainauth.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := h.Datasets.DashboardFor(role)
		if err != nil {
			WriteError(w, ErrorParams{
				Code:    http.StatusInternalServerError,
				ErrCode: "dashboard_failed",
				Err:     err,
			})
			return
		}

		response := map[string]any{"dashboard": payload}
		if session := GetSessionFromContext(r.Context()); session != nil {
			response["user"] = map[string]any{
				"id":    session.UserID,
				"name":  session.Name,
				"email": session.Email,
				"role":  session.Role,
			}
		}
		WriteJSON(w, http.StatusOK, response)
	}
}

// AnalyticsIndex lists the public dataset names.
// GET /api/analytics.
func (h *DashboardHandlers) AnalyticsIndex(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{"datasets": h.Datasets.Names()})
}

// Analytics serves one public dataset, optionally narrowed by a JMESPath
// filter expression.
// GET /api/analytics/{dataset}?filter=<expression>.
func (h *DashboardHandlers) Analytics(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("dataset")
	filter := r.URL.Query().Get("filter")

	data, err := h.Datasets.Query(name, filter)
	if err != nil {
		if errors.Is(err, service.ErrDatasetNotFound) {
			WriteError(w, ErrorParams{
				Code:    http.StatusNotFound,
				ErrCode: "dataset_not_found",
				Err:     err,
			})
			return
		}
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_filter",
			Err:     err,
		})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"dataset": name, "data": data})
}

// Landing serves the public landing-page content: hero copy, headline stats,
// and the login form descriptors for each role.
// GET /.
func (h *DashboardHandlers) Landing(w http.ResponseWriter, _ *http.Request) {
	roles := make([]map[string]string, 0, 4)
	for _, role := range domainauth.Roles() {
		roles = append(roles, map[string]string{
			"role":             string(role),
			"identifier_label": profile.IdentifierLabel(role),
			"dashboard_path":   DashboardPathFor(role),
		})
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"title":    "One Nation. One Education Network.",
		"subtitle": "Unified analytics for students, teachers, institutions, and the ministry.",
		"stats": []map[string]any{
			{"label": "Institutions", "value": 10847},
			{"label": "Active Students", "value": 5200000},
			{"label": "Teachers", "value": 389000},
			{"label": "Datasets Tracked", "value": len(h.Datasets.Names())},
		},
		"roles": roles,
	})
}

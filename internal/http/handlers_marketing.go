package httpx

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// MarketingHandlers serves the public about and contact pages.
type MarketingHandlers struct {
	validate *validator.Validate
}

func NewMarketingHandlers() *MarketingHandlers {
	return &MarketingHandlers{
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// About returns the platform story: the problems the network addresses and
// the technology stack behind it.
// GET /api/about.
func (h *MarketingHandlers) About(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{
		"title":    "About the Platform",
		"subtitle": "A unified national education data network connecting every stakeholder.",
		"problems": []map[string]string{
			{
				"problem":     "Fragmented Data Sources",
				"solution":    "Unified Data Repository",
				"description": "Education data scattered across AISHE, NIRF, NAAC, UGC, and ABC is consolidated into a single queryable repository.",
			},
			{
				"problem":     "Manual Data Processing",
				"solution":    "Automated ETL Pipelines",
				"description": "Scheduled pipelines ingest, clean, and reconcile institutional submissions without manual spreadsheet work.",
			},
			{
				"problem":     "Lack of Real-time Insights",
				"solution":    "AI-Powered Analytics",
				"description": "Dashboards surface enrollment, performance, and infrastructure trends as the data lands.",
			},
			{
				"problem":     "Privacy & Security Concerns",
				"solution":    "Government-Grade Protection",
				"description": "Aadhaar-backed authentication and role-scoped access keep student records visible only to those entitled to them.",
			},
		},
		"layers": []map[string]any{
			{"name": "Data Collection Layer", "technologies": []string{"AISHE", "NIRF", "NAAC", "UGC", "ABC"}},
			{"name": "ETL & Processing Layer", "technologies": []string{"Scheduled pipelines", "Validation", "Deduplication"}},
			{"name": "Data Storage Layer", "technologies": []string{"PostgreSQL", "Redis"}},
			{"name": "Analytics Engine", "technologies": []string{"Dataset queries", "Role dashboards"}},
			{"name": "Security Layer", "technologies": []string{"Aadhaar auth", "Session store", "Signed URLs"}},
			{"name": "Presentation Layer", "technologies": []string{"Role-gated dashboards", "Public analytics"}},
		},
	})
}

// Contact returns the contact-page content and the shape of the inquiry form.
// GET /api/contact.
func (h *MarketingHandlers) Contact(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{
		"title":    "Get in Touch",
		"subtitle": "Have questions or want to join the pilot program? We'd love to hear from you.",
		"email":    []string{"info@edupulse.gov.in", "support@edupulse.gov.in"},
		"form": map[string]any{
			"fields": []string{"name", "email", "institution", "message"},
			"action": "/api/contact",
		},
	})
}

type contactMessage struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Institution string `json:"institution"`
	Message     string `json:"message" validate:"required"`
}

// ContactSubmit accepts an inquiry from the contact form.
// POST /api/contact with {"name", "email", "institution", "message"}.
func (h *MarketingHandlers) ContactSubmit(w http.ResponseWriter, r *http.Request) {
	var msg contactMessage
	if !DecodeJSON(w, r, &msg) {
		return
	}

	if err := h.validate.Struct(msg); err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_message",
			Err:     fmt.Errorf("validate contact message: %w", err),
		})
		return
	}

	WriteJSON(w, http.StatusAccepted, map[string]any{
		"message": "Thank you for your interest. We'll get back to you soon.",
	})
}

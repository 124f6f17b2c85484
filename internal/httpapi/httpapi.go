// Package httpapi is the thin HTTP surface spec.md §6 describes as "out of
// scope for the core" but specifies the contract for: POST /audit and
// GET /health. Ground: teacher's internal/cli wiring style for translating
// core errors into exit/response codes, adapted to net/http handlers since
// the teacher itself has no HTTP surface (it is a CLI-only tool) — this is
// a supplemented feature per SPEC_FULL.md §6.
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/seoauditor/engine/internal/audit"
)

// Server exposes the audit engine over HTTP.
type Server struct {
	engine *audit.Engine
}

func NewServer(engine *audit.Engine) *Server {
	return &Server{engine: engine}
}

func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/audit", s.handleAudit)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type auditRequestBody struct {
	URL           string `json:"url"`
	MaxPages      *int   `json:"max_pages"`
	RespectRobots bool   `json:"respect_robots"`
}

func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var body auditRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_request_body"})
		return
	}

	rep, err := s.engine.Run(r.Context(), audit.Request{
		URL:           body.URL,
		MaxPages:      body.MaxPages,
		RespectRobots: body.RespectRobots,
	})
	if err != nil {
		if verr, ok := err.(*audit.ValidationError); ok {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": verr.Code, "message": verr.Message})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal_failure"})
		return
	}

	writeJSON(w, http.StatusOK, rep)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

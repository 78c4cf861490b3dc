package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"supplychain/internal/actions"
	"supplychain/internal/models"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxFormBytes bounds a form submission
const maxFormBytes = 1 << 20

// handleIndex renders the form page
// GET / - All action forms plus bridge status
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		s.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.renderPage(w, http.StatusOK, nil, nil)
}

// handleHealth returns health status
// GET /health - Reports whether the wallet session and contract binding are up
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"service":   "supplychain-bridge",
		"ready":     s.bridge.Ready() == nil,
	}
	if err := s.bridge.Ready(); err != nil {
		health["error"] = err.Error()
	} else {
		health["account"] = s.bridge.Account().Hex()
		health["contract"] = s.bridge.Address.Hex()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(health)
}

// handleMetrics returns Prometheus metrics
// GET /metrics - Prometheus scraping endpoint
func (s *Server) handleMetrics() http.Handler {
	return promhttp.Handler()
}

// =============================================================================
// ACTION ENDPOINTS
// =============================================================================

// handleAction runs one registered action with the submitted form
// POST /actions/{name} - HTML by default, JSON with Accept: application/json
func (s *Server) handleAction(w http.ResponseWriter, r *http.Request, name string) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		s.sendError(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	slog.Debug("Dispatching action", "request_id", RequestID(r.Context()), "action", name)
	result, err := s.registry.Dispatch(r.Context(), name, s.bridge, actions.FormFromValues(r.PostForm))

	if wantsJSON(r) {
		if err != nil {
			s.sendActionError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
		return
	}

	if err != nil {
		resp := errorResponse(err)
		s.renderPage(w, resp.Code, nil, &resp)
		return
	}
	s.renderPage(w, http.StatusOK, result, nil)
}

// handleGetProduct returns one product as JSON
// GET /products/{id}
func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request, id string) {
	result, err := s.registry.Dispatch(r.Context(), actions.ActionQueryProduct, s.bridge, actions.Form{"productId": id})
	if err != nil {
		s.sendActionError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result.Product)
}

// sendActionError maps an action error to its JSON response
func (s *Server) sendActionError(w http.ResponseWriter, err error) {
	resp := errorResponse(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Code)
	json.NewEncoder(w).Encode(resp)
}

// sendError sends a JSON error response
func (s *Server) sendError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(models.ErrorResponse{
		Error:   http.StatusText(code),
		Message: message,
		Code:    code,
	})
}

func (s *Server) renderPage(w http.ResponseWriter, code int, result *models.ActionResult, errResp *models.ErrorResponse) {
	data := pageData{
		Account:  s.bridge.Account().Hex(),
		Contract: s.bridge.Address.Hex(),
		Roles:    actions.Roles,
		Stages:   models.Stages(),
		Result:   result,
		Error:    errResp,
	}
	if err := s.bridge.Ready(); err != nil {
		data.SetupError = err.Error()
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	if err := pageTemplate.Execute(w, data); err != nil {
		slog.Error("Failed to render page", "error", err)
	}
}

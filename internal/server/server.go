// Package server exposes the presentation intents over a local HTTP JSON
// API. It contains no business logic: every handler decodes a request,
// calls one service operation, and translates the error taxonomy into a
// status code.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/openpos/tillpoint/internal/catalog"
	"github.com/openpos/tillpoint/internal/errs"
	"github.com/openpos/tillpoint/internal/middleware"
	"github.com/openpos/tillpoint/internal/models"
	"github.com/openpos/tillpoint/internal/service"
)

// Server adapts the POS service to HTTP.
type Server struct {
	pos *service.POS
}

// New creates a server over the given POS.
func New(pos *service.POS) *Server {
	return &Server{pos: pos}
}

// Handler returns the routed handler with logging and metrics attached.
// When staticDir is non-empty the bundled UI is served for all non-API
// paths, falling back to index.html for unknown ones.
func (s *Server) Handler(staticDir string) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/products", s.listProducts)
	mux.HandleFunc("POST /api/products", s.addProduct)
	mux.HandleFunc("DELETE /api/products/{index}", s.removeProduct)

	mux.HandleFunc("GET /api/bill", s.getBill)
	mux.HandleFunc("POST /api/bill/lines", s.addBillLine)
	mux.HandleFunc("DELETE /api/bill/lines/{index}", s.removeBillLine)
	mux.HandleFunc("DELETE /api/bill", s.clearBill)
	mux.HandleFunc("POST /api/bill/commit", s.commitBill)

	mux.HandleFunc("GET /api/transactions", s.listTransactions)
	mux.HandleFunc("POST /api/transactions/{index}/print", s.printTransaction)
	mux.HandleFunc("DELETE /api/transactions/{index}", s.deleteTransaction)

	mux.HandleFunc("GET /api/settings", s.getSettings)
	mux.HandleFunc("PUT /api/settings", s.putSettings)

	mux.HandleFunc("GET /api/license", s.getLicense)
	mux.HandleFunc("POST /api/license/activate", s.activateLicense)
	mux.HandleFunc("POST /api/system/reset", s.resetSystem)

	mux.Handle("GET /metrics", middleware.MetricsHandler())

	if staticDir != "" {
		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			urlPath := r.URL.Path
			if urlPath == "/" {
				urlPath = "/index.html"
			}
			filePath := filepath.Join(staticDir, filepath.Clean(urlPath))
			if _, err := os.Stat(filePath); os.IsNotExist(err) {
				http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
				return
			}
			http.ServeFile(w, r, filePath)
		})
	}

	return middleware.Logging(middleware.Metrics(mux))
}

type productRow struct {
	Index int             `json:"index"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type confirmResponse struct {
	ConfirmRequired bool   `json:"confirmRequired"`
	Prompt          string `json:"prompt"`
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	rows := []productRow{}
	for i, p := range s.pos.SearchCatalog(r.URL.Query().Get("q")) {
		rows = append(rows, productRow{Index: i, Name: p.Name, Price: p.Price})
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": rows})
}

func (s *Server) addProduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name             string          `json:"name"`
		Price            decimal.Decimal `json:"price"`
		ConfirmOverwrite bool            `json:"confirmOverwrite"`
	}
	if !decode(w, r, &req) {
		return
	}
	outcome, err := s.pos.AddProduct(r.Context(), req.Name, req.Price, req.ConfirmOverwrite)
	if err != nil {
		writeError(w, err)
		return
	}
	if outcome == catalog.ConfirmOverwrite {
		writeJSON(w, http.StatusOK, confirmResponse{
			ConfirmRequired: true,
			Prompt:          "Update price for \"" + req.Name + "\"?",
		})
		return
	}
	status := http.StatusCreated
	if outcome == catalog.Updated {
		status = http.StatusOK
	}
	writeJSON(w, status, map[string]any{"products": s.pos.Products()})
}

func (s *Server) removeProduct(w http.ResponseWriter, r *http.Request) {
	index, ok := pathIndex(w, r)
	if !ok {
		return
	}
	prompt, err := s.pos.RemoveProduct(r.Context(), index, confirmed(r))
	if err != nil {
		writeError(w, err)
		return
	}
	if prompt != nil {
		writeJSON(w, http.StatusOK, confirmResponse{ConfirmRequired: true, Prompt: prompt.Message})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getBill(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"lines": s.pos.BillLines(),
		"total": s.pos.BillTotal(),
	})
}

func (s *Server) addBillLine(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductIndex int   `json:"productIndex"`
		Quantity     int64 `json:"quantity"`
	}
	if !decode(w, r, &req) {
		return
	}
	if err := s.pos.AddToBill(req.ProductIndex, req.Quantity); err != nil {
		writeError(w, err)
		return
	}
	s.getBill(w, r)
}

func (s *Server) removeBillLine(w http.ResponseWriter, r *http.Request) {
	index, ok := pathIndex(w, r)
	if !ok {
		return
	}
	if err := s.pos.RemoveBillLine(index); err != nil {
		writeError(w, err)
		return
	}
	s.getBill(w, r)
}

func (s *Server) clearBill(w http.ResponseWriter, r *http.Request) {
	s.pos.ClearBill()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) commitBill(w http.ResponseWriter, r *http.Request) {
	tx, err := s.pos.SaveBill(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"transaction": tx})
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	writeJSON(w, http.StatusOK, map[string]any{
		"transactions": s.pos.RecentTransactions(limit),
		"count":        s.pos.LedgerSize(),
	})
}

func (s *Server) printTransaction(w http.ResponseWriter, r *http.Request) {
	index, ok := pathIndex(w, r)
	if !ok {
		return
	}
	doc, err := s.pos.PrintTransaction(index)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"receipt": doc.Render()})
}

func (s *Server) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	index, ok := pathIndex(w, r)
	if !ok {
		return
	}
	prompt, err := s.pos.DeleteTransaction(r.Context(), index, confirmed(r))
	if err != nil {
		writeError(w, err)
		return
	}
	if prompt != nil {
		writeJSON(w, http.StatusOK, confirmResponse{ConfirmRequired: true, Prompt: prompt.Message})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.pos.ViewSettings()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) putSettings(w http.ResponseWriter, r *http.Request) {
	var settings models.Settings
	if !decode(w, r, &settings) {
		return
	}
	if err := s.pos.UpdateSettings(r.Context(), settings); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) getLicense(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"state":            s.pos.LicenseState().String(),
		"remainingSeconds": int64(s.pos.TrialRemaining().Seconds()),
		"resetChallenge":   s.pos.ResetChallenge(),
	})
}

func (s *Server) activateLicense(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Key string `json:"key"`
	}
	if !decode(w, r, &req) {
		return
	}
	if err := s.pos.Activate(r.Context(), req.Key); err != nil {
		writeError(w, err)
		return
	}
	s.getLicense(w, r)
}

func (s *Server) resetSystem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Challenge string `json:"challenge"`
		Confirmed bool   `json:"confirmed"`
	}
	if !decode(w, r, &req) {
		return
	}
	prompt, err := s.pos.ResetSystem(r.Context(), req.Challenge, req.Confirmed)
	if err != nil {
		writeError(w, err)
		return
	}
	if prompt != nil {
		writeJSON(w, http.StatusOK, confirmResponse{ConfirmRequired: true, Prompt: prompt.Message})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- helpers ---

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return false
	}
	return true
}

func pathIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "index must be an integer"})
		return 0, false
	}
	return index, true
}

func confirmed(r *http.Request) bool {
	return r.URL.Query().Get("confirmed") == "true"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError maps the error taxonomy to HTTP status codes. Every domain
// error is a rejected operation, never a 500.
func writeError(w http.ResponseWriter, err error) {
	var (
		verr *errs.ValidationError
		ierr *errs.IndexError
		serr *errs.StateError
		aerr *errs.AuthorizationError
	)
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": verr.Error()})
	case errors.As(err, &ierr):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": ierr.Error()})
	case errors.As(err, &serr):
		writeJSON(w, http.StatusConflict, map[string]string{"error": serr.Error()})
	case errors.As(err, &aerr):
		writeJSON(w, http.StatusForbidden, map[string]string{
			"error": aerr.Error(),
			"state": aerr.State,
		})
	default:
		slog.Error("Unexpected error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

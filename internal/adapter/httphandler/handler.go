package httphandler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/niksmo/solarcomp/internal/core/domain"
	"github.com/niksmo/solarcomp/internal/core/port"
)

// POST v1/evaluations JSON EvaluationRequest (200 OK, 400 Bad request, 404 Not found)
// GET v1/catalog (200 OK)

const maxRequestBody = 1 << 20

type EvaluationsHandler struct {
	submitter port.EvaluationSubmitter
}

func RegisterEvaluations(mux *http.ServeMux, submitter port.EvaluationSubmitter) {
	h := EvaluationsHandler{submitter}
	mux.HandleFunc("POST /v1/evaluations", h.PostEvaluation)
}

func (h EvaluationsHandler) PostEvaluation(w http.ResponseWriter, r *http.Request) {
	const op = "EvaluationsHandler.PostEvaluation"
	log := slog.With("op", op)

	var req EvaluationRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	if req.Product.Name == "" {
		http.Error(w, "product name is required", http.StatusBadRequest)
		return
	}

	report, err := h.submitter.Submit(r.Context(), req.ToDomain())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnknownCatalogEntry):
			http.Error(w, err.Error(), http.StatusNotFound)
			log.Info("unknown catalog entry", "err", err)
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			http.Error(w, "request canceled", http.StatusServiceUnavailable)
			log.Warn("evaluation canceled", "err", err)
		default:
			http.Error(w, "failed to evaluate configuration", http.StatusInternalServerError)
			log.Error("failed to evaluate configuration", "err", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, NewEvaluationReport(report), log)
	log.Info(
		"evaluated",
		"reportID", report.ID,
		"viable", report.Verdict.Viable,
		"nComponents", len(report.Configuration.Components),
	)
}

type CatalogHandler struct {
	browser port.CatalogBrowser
}

func RegisterCatalog(mux *http.ServeMux, browser port.CatalogBrowser) {
	h := CatalogHandler{browser}
	mux.HandleFunc("GET /v1/catalog", h.GetCatalog)
}

func (h CatalogHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetCatalog"
	log := slog.With("op", op)

	products, groups, err := h.browser.Catalog(r.Context())
	if err != nil {
		http.Error(w, "catalog unavailable", http.StatusServiceUnavailable)
		log.Error("failed to read catalog", "err", err)
		return
	}

	writeJSON(w, http.StatusOK, NewCatalog(products, groups), log)
}

func writeJSON(w http.ResponseWriter, status int, v any, log *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to write response body", "err", err)
	}
}

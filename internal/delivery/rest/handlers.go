// Path: internal/delivery/rest/handlers.go
package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"gene-catalog/internal/domain"
)

// dataService defines the interface required by the handlers from the core service.
// This keeps the delivery layer decoupled from the full service implementation.
type dataService interface {
	Mode(ctx context.Context) string
	SearchGenes(ctx context.Context, text string, filters domain.SearchFilters, page, pageSize int) domain.SearchResult
	GetGeneByID(ctx context.Context, id string) *domain.GeneRecord
	GetEnzymeStats(ctx context.Context) []domain.EnzymeStat
	GetDomainStats(ctx context.Context) []domain.DomainStat
	AddGene(ctx context.Context, gene domain.GeneRecord) (*domain.GeneRecord, error)
	UpdateGene(ctx context.Context, id string, update domain.GeneUpdate) (*domain.GeneRecord, error)
	DeleteGene(ctx context.Context, id string) (bool, error)
}

// GeneHandlers holds dependencies for gene-related HTTP handlers.
type GeneHandlers struct {
	service dataService
	log     zerolog.Logger
}

// NewGeneHandlers creates a new handler struct.
func NewGeneHandlers(s dataService, logger zerolog.Logger) *GeneHandlers {
	return &GeneHandlers{service: s, log: logger}
}

// SearchGenes handles a filtered, paginated listing.
// Path: GET /api/genes
func (h *GeneHandlers) SearchGenes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	completeness, err := domain.ParseCompleteness(q.Get("completeness"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	page, err := intParam(q.Get("page"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "page must be an integer")
		return
	}
	pageSize, err := intParam(q.Get("pageSize"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "pageSize must be an integer")
		return
	}

	filters := domain.SearchFilters{
		EnzymeType:     q.Get("enzymeType"),
		Organism:       q.Get("organism"),
		Function:       q.Get("function"),
		SequenceLength: q.Get("sequenceLength"),
		Domain:         q.Get("domain"),
		Completeness:   completeness,
	}

	h.writeJSON(w, http.StatusOK, h.service.SearchGenes(r.Context(), q.Get("q"), filters, page, pageSize))
}

// GetGeneByID handles the request for a single gene.
// Path: GET /api/genes/{id}
func (h *GeneHandlers) GetGeneByID(w http.ResponseWriter, r *http.Request) {
	gene := h.service.GetGeneByID(r.Context(), chi.URLParam(r, "id"))
	if gene == nil {
		h.writeError(w, http.StatusNotFound, "gene not found")
		return
	}
	h.writeJSON(w, http.StatusOK, gene)
}

// EnzymeStats handles GET /api/stats/enzymes.
func (h *GeneHandlers) EnzymeStats(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.service.GetEnzymeStats(r.Context()))
}

// DomainStats handles GET /api/stats/domains.
func (h *GeneHandlers) DomainStats(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.service.GetDomainStats(r.Context()))
}

// CreateGene handles POST /api/genes.
func (h *GeneHandlers) CreateGene(w http.ResponseWriter, r *http.Request) {
	var gene domain.GeneRecord
	if err := json.NewDecoder(r.Body).Decode(&gene); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	created, err := h.service.AddGene(r.Context(), gene)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, created)
}

// UpdateGene handles PUT /api/genes/{id}.
func (h *GeneHandlers) UpdateGene(w http.ResponseWriter, r *http.Request) {
	var update domain.GeneUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	updated, err := h.service.UpdateGene(r.Context(), chi.URLParam(r, "id"), update)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if updated == nil {
		h.writeError(w, http.StatusNotFound, "gene not found")
		return
	}
	h.writeJSON(w, http.StatusOK, updated)
}

// DeleteGene handles DELETE /api/genes/{id}.
func (h *GeneHandlers) DeleteGene(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.service.DeleteGene(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if !deleted {
		h.writeError(w, http.StatusNotFound, "gene not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Health reports which source reads are currently served from.
func (h *GeneHandlers) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "mode": h.service.Mode(r.Context())})
}

func (h *GeneHandlers) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidGene):
		h.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotConfigured), errors.Is(err, domain.ErrRemote):
		h.writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		h.log.Error().Err(err).Msg("Unhandled service error")
		h.writeError(w, http.StatusInternalServerError, "Internal Server Error")
	}
}

func intParam(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func (h *GeneHandlers) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Debug().Err(err).Int("status", status).Msg("Failed to write response body")
	}
}

func (h *GeneHandlers) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}

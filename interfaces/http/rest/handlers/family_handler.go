package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"factsaura-backend/application/commands"
	"factsaura-backend/application/commands/bus"
	"factsaura-backend/application/queries"
	querybus "factsaura-backend/application/queries/bus"
	"factsaura-backend/domain/core/entities"
)

// FamilyHandler handles family-level HTTP requests
type FamilyHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	logger     *zap.Logger
}

// NewFamilyHandler creates a new family handler
func NewFamilyHandler(commandBus *bus.CommandBus, queryBus *querybus.QueryBus, logger *zap.Logger) *FamilyHandler {
	return &FamilyHandler{commandBus: commandBus, queryBus: queryBus, logger: logger}
}

// CreateFamilyRequest is the request body for POST /families
type CreateFamilyRequest struct {
	Content string `json:"content"`
	Source  string `json:"source,omitempty"`
}

// CreateFamily handles POST /families
func (h *FamilyHandler) CreateFamily(w http.ResponseWriter, r *http.Request) {
	var req CreateFamilyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	result, err := h.commandBus.Send(r.Context(), commands.CreateFamilyCommand{
		Content: req.Content,
		Source:  req.Source,
	})
	if err != nil {
		respondMappedError(h.logger, w, err)
		return
	}
	respondJSON(h.logger, w, http.StatusCreated, result)
}

// ListFamilies handles GET /families
func (h *FamilyHandler) ListFamilies(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.ListFamiliesQuery{})
	if err != nil {
		respondMappedError(h.logger, w, err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, map[string]interface{}{"families": result})
}

// GetFamily handles GET /families/{familyID}
func (h *FamilyHandler) GetFamily(w http.ResponseWriter, r *http.Request) {
	familyID := chi.URLParam(r, "familyID")

	result, err := h.queryBus.Ask(r.Context(), queries.GetFamilyTreeQuery{
		FamilyID:       familyID,
		MaxDepth:       queryInt(r, "max_depth", 0),
		IncludeContent: queryBool(r, "include_content", true),
	})
	if err != nil {
		respondMappedError(h.logger, w, err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, result)
}

// AddMutationRequest is the request body for POST /families/{familyID}/mutations
type AddMutationRequest struct {
	ParentNodeID string                       `json:"parent_node_id"`
	Content      string                       `json:"content"`
	Descriptor   *entities.MutationDescriptor `json:"descriptor,omitempty"`
}

// AddMutation handles POST /families/{familyID}/mutations
func (h *FamilyHandler) AddMutation(w http.ResponseWriter, r *http.Request) {
	var req AddMutationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	result, err := h.commandBus.Send(r.Context(), commands.AddMutationCommand{
		FamilyID:     chi.URLParam(r, "familyID"),
		ParentNodeID: req.ParentNodeID,
		Content:      req.Content,
		Descriptor:   req.Descriptor,
	})
	if err != nil {
		respondMappedError(h.logger, w, err)
		return
	}
	respondJSON(h.logger, w, http.StatusCreated, result)
}

// AnalyzePatterns handles GET /families/{familyID}/patterns
func (h *FamilyHandler) AnalyzePatterns(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.AnalyzePatternsQuery{
		FamilyID: chi.URLParam(r, "familyID"),
	})
	if err != nil {
		respondMappedError(h.logger, w, err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, result)
}

// GetVisualization handles GET /families/{familyID}/visualization
func (h *FamilyHandler) GetVisualization(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.GetVisualizationQuery{
		FamilyID: chi.URLParam(r, "familyID"),
	})
	if err != nil {
		respondMappedError(h.logger, w, err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, result)
}

func queryInt(r *http.Request, key string, def int) int {
	if raw := r.URL.Query().Get(key); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			return parsed
		}
	}
	return def
}

func queryBool(r *http.Request, key string, def bool) bool {
	if raw := r.URL.Query().Get(key); raw != "" {
		if parsed, err := strconv.ParseBool(raw); err == nil {
			return parsed
		}
	}
	return def
}

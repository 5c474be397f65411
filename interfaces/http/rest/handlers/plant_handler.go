package handlers

import (
	"encoding/json"
	"net/http"

	"plantdb/application/services"
	"plantdb/domain/plant"
	"plantdb/pkg/common"
	apperrors "plantdb/pkg/errors"
	"plantdb/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// PlantHandler handles plant CRUD and generation requests
type PlantHandler struct {
	service *services.LookupService
	logger  *zap.Logger
}

// NewPlantHandler creates a new plant handler
func NewPlantHandler(service *services.LookupService, logger *zap.Logger) *PlantHandler {
	return &PlantHandler{
		service: service,
		logger:  logger,
	}
}

// GenerateRequest represents the request body for generating a plant record
type GenerateRequest struct {
	Query string `json:"query" validate:"required,min=1,max=200"`
}

// CreatePlant handles POST /plants
func (h *PlantHandler) CreatePlant(w http.ResponseWriter, r *http.Request) {
	var rec plant.Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "Invalid request body: "+err.Error())
		return
	}

	created, err := h.service.Create(r.Context(), &rec)
	if err != nil {
		h.respondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, created)
}

// GetPlant handles GET /plants/{plantID}
func (h *PlantHandler) GetPlant(w http.ResponseWriter, r *http.Request) {
	plantID := chi.URLParam(r, "plantID")

	rec, err := h.service.Get(r.Context(), plantID)
	if err != nil {
		h.respondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, rec)
}

// UpdatePlant handles PUT /plants/{plantID}
func (h *PlantHandler) UpdatePlant(w http.ResponseWriter, r *http.Request) {
	plantID := chi.URLParam(r, "plantID")

	var patch plant.Record
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "Invalid request body: "+err.Error())
		return
	}

	updated, err := h.service.Update(r.Context(), plantID, &patch)
	if err != nil {
		h.respondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, updated)
}

// DeletePlant handles DELETE /plants/{plantID}
func (h *PlantHandler) DeletePlant(w http.ResponseWriter, r *http.Request) {
	plantID := chi.URLParam(r, "plantID")

	removed, err := h.service.Delete(r.Context(), plantID)
	if err != nil {
		h.respondAppError(w, err)
		return
	}
	if !removed {
		common.RespondError(w, http.StatusNotFound, "NOT_FOUND", "plant not found")
		return
	}

	common.RespondNoContent(w)
}

// GeneratePlant handles POST /plants/generate
func (h *PlantHandler) GeneratePlant(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "Validation error: "+err.Error())
		return
	}

	rec, err := h.service.Generate(r.Context(), req.Query)
	if err != nil {
		h.respondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, rec)
}

func (h *PlantHandler) respondAppError(w http.ResponseWriter, err error) {
	if appErr := apperrors.GetAppError(err); appErr != nil {
		common.RespondError(w, appErr.HTTPStatus, string(appErr.Type), appErr.Message)
		return
	}
	h.logger.Error("Unhandled error", zap.Error(err))
	common.RespondError(w, http.StatusInternalServerError, "INTERNAL", "internal server error")
}

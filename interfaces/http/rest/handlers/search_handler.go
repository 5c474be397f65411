package handlers

import (
	"net/http"

	"plantdb/application/services"
	"plantdb/domain/plant"
	"plantdb/pkg/common"
	apperrors "plantdb/pkg/errors"

	"go.uber.org/zap"
)

// SearchHandler handles alias prefix search requests
type SearchHandler struct {
	service *services.LookupService
	logger  *zap.Logger
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(service *services.LookupService, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{
		service: service,
		logger:  logger,
	}
}

// Search handles GET /search?q=<prefix>. Queries below the minimum prefix
// length yield an empty list, not an error.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	cards, err := h.service.Search(r.Context(), query)
	if err != nil {
		if appErr := apperrors.GetAppError(err); appErr != nil {
			common.RespondError(w, appErr.HTTPStatus, string(appErr.Type), appErr.Message)
			return
		}
		h.logger.Error("Search failed", zap.String("query", query), zap.Error(err))
		common.RespondError(w, http.StatusInternalServerError, "INTERNAL", "internal server error")
		return
	}
	if cards == nil {
		cards = []plant.Card{}
	}

	common.RespondJSON(w, http.StatusOK, cards)
}

package api

import (
	"errors"
	"net/http"

	resdto "concert-ticket-api/internal/handler/dto/response"
	"concert-ticket-api/internal/handler/httperr"
	"concert-ticket-api/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ConcertHandler struct {
	tierQueries queries.TierQueries
}

func NewConcertHandler(tierQueries queries.TierQueries) *ConcertHandler {
	return &ConcertHandler{tierQueries: tierQueries}
}

// @Summary List concert tiers
// @Description List the ticket tiers of a concert with an availability snapshot
// @Tags concerts
// @Produce json
// @Param id path string true "Concert ID"
// @Success 200 {array} resdto.TierResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /concerts/{id}/tiers [get]
func (h *ConcertHandler) ListTiers(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "invalid_id", "Invalid concert ID format", nil)
		return
	}

	views, err := h.tierQueries.ListByConcert(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, queries.ErrConcertNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "concert_not_found", "Concert not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "internal", "Internal server error", nil)
		return
	}

	response := make([]*resdto.TierResponse, len(views))
	for i, v := range views {
		response[i] = resdto.FromTierView(v)
	}
	c.JSON(http.StatusOK, response)
}

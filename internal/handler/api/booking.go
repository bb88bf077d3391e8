package api

import (
	"errors"
	"net/http"

	reqdto "concert-ticket-api/internal/handler/dto/request"
	resdto "concert-ticket-api/internal/handler/dto/response"
	"concert-ticket-api/internal/handler/httperr"
	"concert-ticket-api/internal/handler/middleware"
	"concert-ticket-api/internal/usecase/commands"
	"concert-ticket-api/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	bookingCommands commands.BookingCommands
	bookingQueries  queries.BookingQueries
}

func NewBookingHandler(bookingCommands commands.BookingCommands, bookingQueries queries.BookingQueries) *BookingHandler {
	return &BookingHandler{
		bookingCommands: bookingCommands,
		bookingQueries:  bookingQueries,
	}
}

// @Summary Create booking
// @Description Book tickets for a concert with an idempotency key
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string true "Idempotency key for duplicate prevention"
// @Param request body reqdto.CreateBookingRequest true "Booking request"
// @Success 201 {object} resdto.BookingResponse
// @Success 200 {object} resdto.BookingResponse "Idempotent replay"
// @Failure 400 {object} httperr.Response
// @Failure 402 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /bookings [post]
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	requesterID, ok := middleware.GetRequesterID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	idempotencyKey, err := getIdempotencyKey(c)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "invalid_idempotency_key", err.Error(), nil)
		return
	}

	var req reqdto.CreateBookingRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "invalid_request", "Invalid request format", nil)
		return
	}

	result, err := h.bookingCommands.CreateBooking(c.Request.Context(), req.ToParams(requesterID), idempotencyKey)
	if err != nil {
		h.writeCreateError(c, err)
		return
	}

	status := http.StatusCreated
	if result.IsReplayed {
		status = http.StatusOK
	}
	c.JSON(status, resdto.FromBookingView(result.Booking, result.IsReplayed))
}

// writeCreateError maps each taxonomy entry to a status, a stable code,
// and enough structured detail for the client to self-correct.
func (h *BookingHandler) writeCreateError(c *gin.Context, err error) {
	var (
		missing  *commands.TiersMissing
		shortage *commands.InventoryShortage
		mismatch *commands.AmountMismatch
	)

	switch {
	case errors.Is(err, commands.ErrConcertNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "concert_not_found", "Concert not found", nil)

	case errors.Is(err, commands.ErrTierNotFound):
		var detail any
		if errors.As(err, &missing) {
			detail = gin.H{"missingTierIds": missing.TierIDs}
		}
		httperr.AbortWithError(c, http.StatusNotFound, err, "tier_not_found", "One or more tiers not found", detail)

	case errors.Is(err, commands.ErrSoldOut):
		var detail any
		if errors.As(err, &shortage) {
			detail = gin.H{"tierName": shortage.TierName, "requested": shortage.Requested, "available": shortage.Available}
		}
		httperr.AbortWithError(c, http.StatusConflict, err, "sold_out", "Tier is sold out", detail)

	case errors.Is(err, commands.ErrInsufficientInventory):
		var detail any
		if errors.As(err, &shortage) {
			detail = gin.H{"tierName": shortage.TierName, "requested": shortage.Requested, "available": shortage.Available}
		}
		httperr.AbortWithError(c, http.StatusConflict, err, "insufficient_inventory", "Not enough tickets available", detail)

	case errors.Is(err, commands.ErrAmountMismatch):
		var detail any
		if errors.As(err, &mismatch) {
			detail = gin.H{"computedTotalCents": mismatch.ComputedCents, "claimedTotalCents": mismatch.ClaimedCents}
		}
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "amount_mismatch", "Claimed total does not match current prices", detail)

	case errors.Is(err, commands.ErrPaymentFailed):
		httperr.AbortWithError(c, http.StatusPaymentRequired, err, "payment_failed", "Payment was declined", nil)

	case errors.Is(err, commands.ErrBookingConflict):
		httperr.AbortWithError(c, http.StatusConflict, err, "conflict", "Booking conflicted with a concurrent request, retry", nil)

	case errors.Is(err, commands.ErrBookingTimeout):
		httperr.AbortWithError(c, http.StatusServiceUnavailable, err, "timeout", "Booking timed out, retry", nil)

	case errors.Is(err, commands.ErrDomainValidation):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "validation_error", "Invalid booking request", nil)

	default:
		// Internal detail stays server-side.
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "internal", "Internal server error", nil)
	}
}

// @Summary Get booking
// @Description Get booking with items by ID
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /bookings/{id} [get]
func (h *BookingHandler) GetBooking(c *gin.Context) {
	requesterID, ok := middleware.GetRequesterID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "invalid_id", "Invalid booking ID format", nil)
		return
	}

	view, err := h.bookingQueries.GetByID(c.Request.Context(), requesterID, id)
	if err != nil {
		if errors.Is(err, queries.ErrBookingNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "booking_not_found", "Booking not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "internal", "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingView(view, false))
}

func getIdempotencyKey(c *gin.Context) (uuid.UUID, error) {
	keyStr := c.GetHeader("Idempotency-Key")
	if keyStr == "" {
		return uuid.Nil, errors.New("Idempotency-Key header required")
	}

	key, err := uuid.Parse(keyStr)
	if err != nil {
		return uuid.Nil, errors.New("invalid idempotency key format")
	}
	return key, nil
}

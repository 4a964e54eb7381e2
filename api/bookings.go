package api

import (
	"net/http"
	"strings"

	"github.com/Domenick1991/flightbooking/internal/operations"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	exec Executor
}

type createBookingRequest struct {
	FlightID string `json:"flightId"`
}

func NewBookingHandler(exec Executor) *BookingHandler {
	return &BookingHandler{exec: exec}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.POST("", h.create)
	router.DELETE("/:id", h.cancel)
}

// include reads ?include=user,flight.
func include(c *gin.Context) []string {
	raw := c.Query("include")
	if raw == "" {
		return nil
	}
	var fields []string
	for _, f := range strings.Split(raw, ",") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

// list godoc
//
//	@Summary	List my bookings
//	@Tags		bookings
//	@Produce	json
//	@Param		include	query		string	false	"Comma separated nested fields: user, flight"
//	@Success	200		{array}		operations.BookingView
//	@Failure	401		{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/api/v1/bookings [get]
func (h *BookingHandler) list(c *gin.Context) {
	runOperation(c, h.exec, operations.OpBookings, nil, include(c), http.StatusOK)
}

// create godoc
//
//	@Summary	Book a flight
//	@Tags		bookings
//	@Accept		json
//	@Produce	json
//	@Param		booking	body		createBookingRequest	true	"Flight to book"
//	@Param		include	query		string					false	"Nested fields"
//	@Success	201		{object}	operations.BookingView
//	@Failure	401		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/api/v1/bookings [post]
func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	runOperation(c, h.exec, operations.OpBookFlight, operations.BookFlightInput{FlightID: req.FlightID}, include(c), http.StatusCreated)
}

// cancel godoc
//
//	@Summary	Cancel a booking
//	@Tags		bookings
//	@Produce	json
//	@Param		id		path		string	true	"Booking id"
//	@Param		include	query		string	false	"Nested fields"
//	@Success	200		{object}	operations.BookingView
//	@Failure	401		{object}	ErrorResponse
//	@Failure	403		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/api/v1/bookings/{id} [delete]
func (h *BookingHandler) cancel(c *gin.Context) {
	runOperation(c, h.exec, operations.OpCancelBooking, operations.CancelBookingInput{BookingID: c.Param("id")}, include(c), http.StatusOK)
}

package api

import (
	"net/http"

	"github.com/Domenick1991/flightbooking/internal/operations"
	"github.com/Domenick1991/flightbooking/internal/service/flights"
	"github.com/gin-gonic/gin"
)

type FlightHandler struct {
	exec    Executor
	service flights.FlightUseCase
}

func NewFlightHandler(exec Executor, service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{exec: exec, service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.POST("", h.create)
	router.GET("/:id", h.get)
}

// list godoc
//
//	@Summary	List flights
//	@Tags		flights
//	@Produce	json
//	@Success	200	{array}		operations.FlightView
//	@Failure	500	{object}	ErrorResponse
//	@Router		/api/v1/flights [get]
func (h *FlightHandler) list(c *gin.Context) {
	runOperation(c, h.exec, operations.OpFlights, nil, nil, http.StatusOK)
}

// create godoc
//
//	@Summary	Create a flight
//	@Tags		flights
//	@Accept		json
//	@Produce	json
//	@Param		flight	body		flights.CreateFlightInput	true	"Flight"
//	@Success	201		{object}	operations.FlightView
//	@Failure	400		{object}	ErrorResponse
//	@Failure	401		{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/api/v1/flights [post]
func (h *FlightHandler) create(c *gin.Context) {
	var input flights.CreateFlightInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	runOperation(c, h.exec, operations.OpCreateFlight, operations.CreateFlightInput{FlightInput: input}, nil, http.StatusCreated)
}

// get godoc
//
//	@Summary	Get a flight
//	@Tags		flights
//	@Produce	json
//	@Param		id	path		string	true	"Flight id"
//	@Success	200	{object}	operations.FlightView
//	@Failure	404	{object}	ErrorResponse
//	@Router		/api/v1/flights/{id} [get]
func (h *FlightHandler) get(c *gin.Context) {
	flight, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, operations.Classify(err))
		return
	}
	c.JSON(http.StatusOK, operations.NewFlightView(*flight))
}

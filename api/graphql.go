package api

import (
	"net/http"

	"github.com/Domenick1991/flightbooking/internal/operations"
	"github.com/gin-gonic/gin"
)

type OperationHandler struct {
	exec Executor
}

func NewOperationHandler(exec Executor) *OperationHandler {
	return &OperationHandler{exec: exec}
}

func (h *OperationHandler) Register(router gin.IRouter) {
	router.POST("/graphql", h.execute)
}

// execute runs one named operation.
//
//	@Summary		Execute an operation
//	@Description	Runs flights, users, bookings, login, createFlight, createUser, bookFlight or cancelBooking.
//	@Tags			operations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		operations.Request	true	"Operation envelope"
//	@Success		200		{object}	operations.Response
//	@Failure		400		{object}	operations.Response
//	@Failure		401		{object}	operations.Response
//	@Security		BearerAuth
//	@Router			/graphql [post]
func (h *OperationHandler) execute(c *gin.Context) {
	var req operations.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, operations.Response{Errors: []operations.Error{{
			Message: "Request body must be a JSON operation envelope.",
			Code:    operations.KindValidation,
		}}})
		return
	}

	resp, status := h.exec.Respond(c.Request.Context(), req)
	c.JSON(status, resp)
}

package api

import (
	"context"
	"encoding/json"

	"github.com/Domenick1991/flightbooking/internal/operations"
	"github.com/gin-gonic/gin"
)

// Executor runs named operations. *operations.Dispatcher implements it.
type Executor interface {
	Execute(ctx context.Context, req operations.Request) (any, *operations.Error)
	Respond(ctx context.Context, req operations.Request) (operations.Response, int)
}

// ErrorResponse is the body of a failed REST call.
type ErrorResponse struct {
	Error string          `json:"error"`
	Code  operations.Kind `json:"code"`
}

func writeError(c *gin.Context, failure operations.Error) {
	c.JSON(failure.Code.HTTPStatus(), ErrorResponse{Error: failure.Message, Code: failure.Code})
}

func badRequest(c *gin.Context, err error) {
	writeError(c, operations.Error{Message: err.Error(), Code: operations.KindValidation})
}

// runOperation executes op with vars and writes the bare result with status.
func runOperation(c *gin.Context, exec Executor, op string, vars any, fields []string, status int) {
	req := operations.Request{Operation: op, Fields: fields}
	if vars != nil {
		raw, err := json.Marshal(vars)
		if err != nil {
			writeError(c, operations.Error{Message: operations.MsgInternal, Code: operations.KindInternal})
			return
		}
		req.Variables = raw
	}

	result, failure := exec.Execute(c.Request.Context(), req)
	if failure != nil {
		writeError(c, *failure)
		return
	}
	c.JSON(status, result)
}

var _ Executor = (*operations.Dispatcher)(nil)

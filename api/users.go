package api

import (
	"net/http"

	"github.com/Domenick1991/flightbooking/internal/operations"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	exec Executor
}

func NewUserHandler(exec Executor) *UserHandler {
	return &UserHandler{exec: exec}
}

func (h *UserHandler) Register(users, authGroup *gin.RouterGroup) {
	users.POST("", h.create)
	users.GET("", h.list)
	authGroup.POST("/login", h.login)
}

// create godoc
//
//	@Summary	Register a user
//	@Tags		users
//	@Accept		json
//	@Produce	json
//	@Param		user	body		operations.UserInput	true	"Credentials"
//	@Success	201		{object}	operations.UserView
//	@Failure	400		{object}	ErrorResponse
//	@Failure	409		{object}	ErrorResponse
//	@Router		/api/v1/users [post]
func (h *UserHandler) create(c *gin.Context) {
	var input operations.UserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	runOperation(c, h.exec, operations.OpCreateUser, operations.CreateUserInput{UserInput: input}, nil, http.StatusCreated)
}

// list godoc
//
//	@Summary	List users
//	@Tags		users
//	@Produce	json
//	@Success	200	{array}		operations.UserView
//	@Failure	401	{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/api/v1/users [get]
func (h *UserHandler) list(c *gin.Context) {
	runOperation(c, h.exec, operations.OpUsers, nil, nil, http.StatusOK)
}

// login godoc
//
//	@Summary	Log in
//	@Tags		users
//	@Accept		json
//	@Produce	json
//	@Param		credentials	body		operations.LoginInput	true	"Credentials"
//	@Success	200			{object}	operations.AuthDataView
//	@Failure	401			{object}	ErrorResponse
//	@Router		/api/v1/auth/login [post]
func (h *UserHandler) login(c *gin.Context) {
	var input operations.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	runOperation(c, h.exec, operations.OpLogin, input, nil, http.StatusOK)
}

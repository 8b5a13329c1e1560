package user

import (
	"errors"
	"net/http"

	"gymbook/internal/api"
	"gymbook/internal/logger"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{
		service: service,
	}
}

// Authenticate godoc
// @Summary      Authenticate user
// @Description  Checks email and password. The response never carries the password hash.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request  body      AuthenticateRequest  true  "User credentials"
// @Success      200      {object}  AuthenticateResponse
// @Failure      400      {object}  api.ErrorResponse
// @Failure      401      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Failure      500      {object}  api.ErrorResponse
// @Router       /user [post]
func (h *Handler) Authenticate(c *gin.Context) {
	var req AuthenticateRequest
	if !api.BindJSON(c, &req) {
		return
	}

	user, err := h.service.AuthenticateUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "User not found"})
		case errors.Is(err, ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Invalid email or password"})
		default:
			logger.WithError(err).Error("authenticate user failed")
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to authenticate user"})
		}
		return
	}

	c.JSON(http.StatusOK, AuthenticateResponse{
		Message: "Login successful",
		User:    user,
	})
}

// CreateUser godoc
// @Summary      Register new user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request  body      CreateUserRequest  true  "User registration data"
// @Success      201      {object}  CreateUserResponse
// @Failure      400      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Failure      500      {object}  api.ErrorResponse
// @Router       /users [post]
func (h *Handler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if !api.BindJSON(c, &req) {
		return
	}

	id, err := h.service.CreateUser(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailExists):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Email already registered"})
		case errors.Is(err, ErrPasswordTooLong):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Password too long"})
		default:
			logger.WithError(err).Error("create user failed")
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to create user"})
		}
		return
	}

	c.JSON(http.StatusCreated, CreateUserResponse{
		Message: "User created",
		UserID:  id,
	})
}

// DeleteUser godoc
// @Summary      Delete user
// @Description  Removes the user and frees every class seat they held. Missing ids report zero affected rows.
// @Tags         users
// @Produce      json
// @Param        id   query     int  true  "User ID"
// @Success      200  {object}  api.DeleteResult
// @Failure      400  {object}  api.ErrorResponse
// @Failure      500  {object}  api.ErrorResponse
// @Router       /users [delete]
func (h *Handler) DeleteUser(c *gin.Context) {
	id, err := api.QueryID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid user ID"})
		return
	}

	result, err := h.service.DeleteUser(c.Request.Context(), id)
	if err != nil {
		logger.WithError(err).Errorw("delete user failed", "user_id", id)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to delete user"})
		return
	}

	c.JSON(http.StatusOK, result)
}

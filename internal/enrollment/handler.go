package enrollment

import (
	"errors"
	"net/http"

	"gymbook/internal/api"
	"gymbook/internal/logger"
	"gymbook/internal/user"

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

// AddUser godoc
// @Summary      Enroll a user in a class
// @Tags         enrollment
// @Accept       json
// @Produce      json
// @Param        id       path      int                true  "Class ID"
// @Param        request  body      EnrollmentRequest  true  "User to enroll"
// @Success      200      {object}  JoinResponse
// @Failure      400      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Failure      500      {object}  api.ErrorResponse
// @Router       /classes/{id}/add-user [post]
func (h *Handler) AddUser(c *gin.Context) {
	classID, req, ok := bindEnrollment(c)
	if !ok {
		return
	}

	enrollment, err := h.service.Join(c.Request.Context(), classID, req.UserID)
	if err != nil {
		switch {
		case errors.Is(err, ErrClassNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Class not found"})
		case errors.Is(err, user.ErrUserNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "User not found"})
		case errors.Is(err, ErrClassFull):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Class is full"})
		case errors.Is(err, ErrAlreadyEnrolled):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "User already enrolled in this class"})
		default:
			logger.WithError(err).Errorw("join class failed", "class_id", classID, "user_id", req.UserID)
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to add user to class"})
		}
		return
	}

	c.JSON(http.StatusOK, JoinResponse{
		Message:      "User added to class",
		InsertResult: api.Inserted(enrollment.ID),
	})
}

// CheckUser godoc
// @Summary      Check whether a user holds a seat
// @Tags         enrollment
// @Accept       json
// @Produce      json
// @Param        id       path      int                true  "Class ID"
// @Param        request  body      EnrollmentRequest  true  "User to check"
// @Success      200      {object}  CheckResponse
// @Failure      400      {object}  api.ErrorResponse
// @Failure      500      {object}  api.ErrorResponse
// @Router       /classes/{id}/check-user [post]
func (h *Handler) CheckUser(c *gin.Context) {
	classID, req, ok := bindEnrollment(c)
	if !ok {
		return
	}

	enrolled, err := h.service.CheckEnrolled(c.Request.Context(), classID, req.UserID)
	if err != nil {
		logger.WithError(err).Errorw("check enrollment failed", "class_id", classID, "user_id", req.UserID)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to check enrollment"})
		return
	}

	c.JSON(http.StatusOK, CheckResponse{Reserved: enrolled})
}

// RemoveUser godoc
// @Summary      Remove a user from a class
// @Tags         enrollment
// @Accept       json
// @Produce      json
// @Param        id       path      int                true  "Class ID"
// @Param        request  body      EnrollmentRequest  true  "User to remove"
// @Success      200      {object}  LeaveResponse
// @Failure      400      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Failure      500      {object}  api.ErrorResponse
// @Router       /classes/{id}/remove-user [delete]
func (h *Handler) RemoveUser(c *gin.Context) {
	classID, req, ok := bindEnrollment(c)
	if !ok {
		return
	}

	if err := h.service.Leave(c.Request.Context(), classID, req.UserID); err != nil {
		switch {
		case errors.Is(err, ErrClassNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Class not found"})
		case errors.Is(err, ErrNotEnrolled):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "User is not enrolled in this class"})
		default:
			logger.WithError(err).Errorw("leave class failed", "class_id", classID, "user_id", req.UserID)
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to remove user from class"})
		}
		return
	}

	c.JSON(http.StatusOK, LeaveResponse{
		Message:      "User removed from class",
		DeleteResult: &api.DeleteResult{AffectedRows: 1},
	})
}

// ListUsers godoc
// @Summary      List class attendees
// @Tags         enrollment
// @Produce      json
// @Param        id   path      int  true  "Class ID"
// @Success      200  {object}  AttendeeList
// @Failure      400  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Failure      500  {object}  api.ErrorResponse
// @Router       /classes/{id}/users [get]
func (h *Handler) ListUsers(c *gin.Context) {
	classID, err := api.ParamID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid class ID"})
		return
	}

	list, err := h.service.ListAttendees(c.Request.Context(), classID)
	if err != nil {
		if errors.Is(err, ErrClassNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Class not found"})
			return
		}
		logger.WithError(err).Errorw("list attendees failed", "class_id", classID)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch class users"})
		return
	}

	c.JSON(http.StatusOK, list)
}

func bindEnrollment(c *gin.Context) (int, EnrollmentRequest, bool) {
	var req EnrollmentRequest

	classID, err := api.ParamID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid class ID"})
		return 0, req, false
	}

	if !api.BindJSON(c, &req) {
		return 0, req, false
	}

	return classID, req, true
}

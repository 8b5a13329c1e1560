package gym

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

// @Summary      List gyms
// @Tags         gyms
// @Produce      json
// @Success      200 {array} gym.Gym
// @Failure      500 {object} api.ErrorResponse
// @Router       / [get]
func (h *Handler) ListGyms(c *gin.Context) {
	gyms, err := h.service.ListGyms(c.Request.Context())
	if err != nil {
		logger.WithError(err).Error("list gyms failed")
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch gyms"})
		return
	}

	c.JSON(http.StatusOK, gyms)
}

// @Summary      Create a gym
// @Tags         gyms
// @Accept       json
// @Produce      json
// @Param        request body gym.CreateGymRequest true "Gym payload"
// @Success      201 {object} api.InsertResult
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /gym [post]
func (h *Handler) CreateGym(c *gin.Context) {
	var req CreateGymRequest
	if !api.BindJSON(c, &req) {
		return
	}

	result, err := h.service.CreateGym(c.Request.Context(), req)
	if err != nil {
		logger.WithError(err).Error("create gym failed")
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to create gym"})
		return
	}

	c.JSON(http.StatusCreated, result)
}

// @Summary      Delete a gym
// @Description  Deletes the gym with its classes and their enrollments. Missing ids report zero affected rows.
// @Tags         gyms
// @Produce      json
// @Param        id query int true "Gym ID"
// @Success      200 {object} api.DeleteResult
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /gym [delete]
func (h *Handler) DeleteGym(c *gin.Context) {
	id, err := api.QueryID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid gym ID"})
		return
	}

	result, err := h.service.DeleteGym(c.Request.Context(), id)
	if err != nil {
		logger.WithError(err).Errorw("delete gym failed", "gym_id", id)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to delete gym"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// @Summary      Get gym schedule
// @Tags         gyms
// @Produce      json
// @Param        id path int true "Gym ID"
// @Success      200 {object} gym.ScheduleResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /schedule/{id} [get]
func (h *Handler) GetSchedule(c *gin.Context) {
	id, err := api.ParamID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid gym ID"})
		return
	}

	schedule, err := h.service.GetSchedule(c.Request.Context(), id)
	if err != nil {
		h.gymError(c, err, "Failed to fetch schedule")
		return
	}

	c.JSON(http.StatusOK, ScheduleResponse{Schedule: schedule})
}

// @Summary      Replace gym schedule
// @Tags         gyms
// @Accept       json
// @Produce      json
// @Param        id path int true "Gym ID"
// @Param        request body gym.UpdateScheduleRequest true "Schedule payload"
// @Success      200 {object} api.MessageResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /schedule/{id} [put]
func (h *Handler) UpdateSchedule(c *gin.Context) {
	id, err := api.ParamID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid gym ID"})
		return
	}

	var req UpdateScheduleRequest
	if !api.BindJSON(c, &req) {
		return
	}

	if err := h.service.UpdateSchedule(c.Request.Context(), id, req.Schedule); err != nil {
		h.gymError(c, err, "Failed to update schedule")
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Schedule updated"})
}

// @Summary      List classes of a gym
// @Tags         classes
// @Accept       json
// @Produce      json
// @Param        request body gym.ListClassesRequest true "Gym selector"
// @Success      200 {array} gym.ClassWithAvailability
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /classes [post]
func (h *Handler) ListClasses(c *gin.Context) {
	var req ListClassesRequest
	if !api.BindJSON(c, &req) {
		return
	}

	classes, err := h.service.ListClassesByGym(c.Request.Context(), req.GymID)
	if err != nil {
		logger.WithError(err).Errorw("list classes failed", "gym_id", req.GymID)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch classes"})
		return
	}

	c.JSON(http.StatusOK, classes)
}

// @Summary      Get a class
// @Tags         classes
// @Produce      json
// @Param        id path int true "Class ID"
// @Success      200 {object} gym.Class
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /classes/{id} [get]
func (h *Handler) GetClass(c *gin.Context) {
	id, err := api.ParamID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid class ID"})
		return
	}

	class, err := h.service.GetClass(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrClassNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Class not found"})
			return
		}
		logger.WithError(err).Errorw("get class failed", "class_id", id)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch class"})
		return
	}

	c.JSON(http.StatusOK, class)
}

// @Summary      Create a class
// @Description  Creates a class in a gym. The users field is ignored; new classes start with no attendees.
// @Tags         classes
// @Accept       json
// @Produce      json
// @Param        request body gym.CreateClassRequest true "Class payload"
// @Success      201 {object} api.InsertResult
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /class [post]
func (h *Handler) CreateClass(c *gin.Context) {
	var req CreateClassRequest
	if !api.BindJSON(c, &req) {
		return
	}

	result, err := h.service.CreateClass(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrClassInvalid):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid class data"})
		default:
			h.gymError(c, err, "Failed to create class")
		}
		return
	}

	c.JSON(http.StatusCreated, result)
}

// @Summary      Delete a class
// @Description  Deletes the class and its enrollments. Missing ids report zero affected rows.
// @Tags         classes
// @Produce      json
// @Param        id query int true "Class ID"
// @Success      200 {object} api.DeleteResult
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /class [delete]
func (h *Handler) DeleteClass(c *gin.Context) {
	id, err := api.QueryID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid class ID"})
		return
	}

	result, err := h.service.DeleteClass(c.Request.Context(), id)
	if err != nil {
		logger.WithError(err).Errorw("delete class failed", "class_id", id)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to delete class"})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) gymError(c *gin.Context, err error, fallback string) {
	if errors.Is(err, ErrGymNotFound) {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Gym not found"})
		return
	}
	logger.WithError(err).Error(fallback)
	c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: fallback})
}

package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Domenick1991/airlines/internal/domain"
	"github.com/Domenick1991/airlines/internal/logger"
	"github.com/Domenick1991/airlines/internal/service/users"
)

type UserHandler struct {
	service users.UserUseCase
	log     logger.Logger
}

type userResponse struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	DateJoined string `json:"date_joined"`
}

func NewUserHandler(service users.UserUseCase, log logger.Logger) *UserHandler {
	return &UserHandler{service: service, log: log}
}

func (h *UserHandler) Register(router gin.IRoutes) {
	router.GET("/:user_id/", h.get)
	router.PUT("/:user_id/", h.update)
	router.PATCH("/:user_id/", h.patch)
	router.DELETE("/:user_id/", h.delete)
}

func (h *UserHandler) get(c *gin.Context) {
	u, err := h.service.Get(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		sendError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(*u))
}

func (h *UserHandler) update(c *gin.Context) {
	h.write(c, false)
}

func (h *UserHandler) patch(c *gin.Context) {
	h.write(c, true)
}

func (h *UserHandler) write(c *gin.Context, partial bool) {
	var req users.UpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	u, err := h.service.Update(c.Request.Context(), c.Param("user_id"), req, partial)
	if err != nil {
		sendError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(*u))
}

func (h *UserHandler) delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("user_id")); err != nil {
		sendError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func toUserResponse(u domain.User) userResponse {
	return userResponse{
		ID:         u.ID,
		Username:   u.Username,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Email:      u.Email,
		DateJoined: u.DateJoined.Format(time.RFC3339),
	}
}

package v1

import (
	"net/http"
	"strconv"

	"go-hiring-backend/internal/delivery/http/response"
	"go-hiring-backend/internal/domain"
	"go-hiring-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationUC domain.NotificationUsecase
}

// NewNotificationHandler registers notification routes
func NewNotificationHandler(r *gin.RouterGroup, notificationUC domain.NotificationUsecase) {
	handler := &NotificationHandler{notificationUC: notificationUC}

	notifications := r.Group("/notifications")
	{
		notifications.GET("", handler.ListMine)
		notifications.PATCH("/:id/read", handler.MarkRead)
	}
}

// ListMine godoc
// @Summary      List my notifications
// @Tags         notifications
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Notification}
// @Failure      401  {object}  response.Response
// @Router       /notifications [get]
// @Security     BearerAuth
func (h *NotificationHandler) ListMine(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	notifications, err := h.notificationUC.ListMine(c, userID, limit, offset)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Notifications retrieved", notifications)
}

// MarkRead godoc
// @Summary      Mark a notification as read
// @Tags         notifications
// @Produce      json
// @Param        id  path      int  true  "Notification ID"
// @Success      200 {object}  response.Response
// @Failure      404 {object}  response.Response
// @Router       /notifications/{id}/read [patch]
// @Security     BearerAuth
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(apperror.BadRequest("Invalid notification ID"))
		return
	}

	if err := h.notificationUC.MarkRead(c, userID, id); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Notification marked as read", nil)
}

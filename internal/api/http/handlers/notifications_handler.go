package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/grievance-hub/complaint-service/internal/api/dto"
	"github.com/grievance-hub/complaint-service/internal/auth"
	"github.com/grievance-hub/complaint-service/internal/domain"
	"github.com/grievance-hub/complaint-service/internal/service"
	apperrors "github.com/grievance-hub/complaint-service/pkg/util/errorutil"
)

// NotificationsHandler serves the in-app inbox endpoints.
type NotificationsHandler struct {
	service *service.NotificationService
}

// NewNotificationsHandler constructs handler.
func NewNotificationsHandler(notificationService *service.NotificationService) *NotificationsHandler {
	return &NotificationsHandler{service: notificationService}
}

// List GET /notifications.
func (h *NotificationsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	limit := parseIntQuery(c.Query("limit"), 20)
	notifications, err := h.service.List(c.Context(), principal.User.ID, limit)
	if err != nil {
		return err
	}
	items := make([]dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		items = append(items, notificationResponse(&notifications[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// UnreadCount GET /notifications/unread-count.
func (h *NotificationsHandler) UnreadCount(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	count, err := h.service.UnreadCount(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.UnreadCountResponse{Count: count}})
}

// MarkRead PATCH /notifications/:id/read.
func (h *NotificationsHandler) MarkRead(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.service.MarkRead(c.Context(), c.Params("id"), principal.User.ID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"marked": true}})
}

// MarkAllRead PATCH /notifications/read-all.
func (h *NotificationsHandler) MarkAllRead(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.service.MarkAllRead(c.Context(), principal.User.ID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"marked": true}})
}

func notificationResponse(notification *domain.Notification) dto.NotificationResponse {
	return dto.NotificationResponse{
		ID:          notification.ID,
		ComplaintID: notification.ComplaintID,
		Title:       notification.Title,
		Body:        notification.Body,
		Read:        notification.Read,
		CreatedAt:   notification.CreatedAt,
	}
}

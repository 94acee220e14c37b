package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/grievance-hub/complaint-service/internal/api/http/handlers"
	"github.com/grievance-hub/complaint-service/internal/auth"
	"github.com/grievance-hub/complaint-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Complaints     *handlers.ComplaintsHandler
	Notifications  *handlers.NotificationsHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)

	users := app.Group("/users", cfg.AuthMiddleware.Handle)
	users.Get("/staff", auth.RequireRole(domain.RoleAdmin), cfg.Users.ListStaff)
	users.Get("/analytics", auth.RequireRole(domain.RoleAdmin), cfg.Users.Analytics)

	complaints := app.Group("/complaints", cfg.AuthMiddleware.Handle)
	complaints.Post("/", auth.RequireRole(domain.RoleUser), cfg.Complaints.Create)
	complaints.Get("/my", auth.RequireRole(domain.RoleUser), cfg.Complaints.ListMine)
	complaints.Get("/assigned", auth.RequireRole(domain.RoleStaff), cfg.Complaints.ListAssigned)
	complaints.Get("/all", auth.RequireRole(domain.RoleAdmin), cfg.Complaints.ListAll)
	complaints.Get("/:id", auth.RequireRole(), cfg.Complaints.Get)
	complaints.Patch("/:id/assign", auth.RequireRole(domain.RoleAdmin), cfg.Complaints.Assign)
	complaints.Patch("/:id/status", auth.RequireRole(domain.RoleStaff), cfg.Complaints.UpdateStatus)
	complaints.Post("/:id/feedback", auth.RequireRole(domain.RoleUser), cfg.Complaints.SubmitFeedback)

	notifications := app.Group("/notifications", cfg.AuthMiddleware.Handle, auth.RequireRole())
	notifications.Get("/", cfg.Notifications.List)
	notifications.Get("/unread-count", cfg.Notifications.UnreadCount)
	notifications.Patch("/read-all", cfg.Notifications.MarkAllRead)
	notifications.Patch("/:id/read", cfg.Notifications.MarkRead)
}

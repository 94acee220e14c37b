package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/grievance-hub/complaint-service/internal/api/dto"
	"github.com/grievance-hub/complaint-service/internal/domain"
	"github.com/grievance-hub/complaint-service/internal/repository"
	"github.com/grievance-hub/complaint-service/internal/service"
	apperrors "github.com/grievance-hub/complaint-service/pkg/util/errorutil"
)

// UsersHandler serves registration, login and the admin directory endpoints.
type UsersHandler struct {
	authService      *service.AuthService
	complaintService *service.ComplaintService
	users            repository.UserRepository
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService, complaintService *service.ComplaintService, users repository.UserRepository) *UsersHandler {
	return &UsersHandler{authService: authService, complaintService: complaintService, users: users}
}

// Register POST /auth/register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	result, err := h.authService.Register(c.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Phone:    req.Phone,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": authResponse(result)})
}

// Login POST /auth/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	result, err := h.authService.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": authResponse(result)})
}

// ListStaff GET /users/staff.
func (h *UsersHandler) ListStaff(c *fiber.Ctx) error {
	staff, err := h.users.ListByRole(c.Context(), domain.RoleStaff)
	if err != nil {
		return apperrors.MapError(err)
	}
	items := make([]dto.UserResponse, 0, len(staff))
	for i := range staff {
		items = append(items, userResponse(&staff[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Analytics GET /users/analytics.
func (h *UsersHandler) Analytics(c *fiber.Ctx) error {
	analytics, err := h.complaintService.GetAnalytics(c.Context())
	if err != nil {
		return err
	}
	resp := dto.AnalyticsResponse{
		StatusCounts:   make(map[string]int64, len(analytics.StatusCounts)),
		CategoryCounts: make(map[string]int64, len(analytics.CategoryCounts)),
		RoleCounts:     make(map[string]int64, len(analytics.RoleCounts)),
	}
	for _, row := range analytics.StatusCounts {
		resp.StatusCounts[string(row.Status)] = row.Count
	}
	for _, row := range analytics.CategoryCounts {
		resp.CategoryCounts[string(row.Category)] = row.Count
	}
	for _, row := range analytics.RoleCounts {
		resp.RoleCounts[string(row.Role)] = row.Count
	}
	return c.JSON(fiber.Map{"data": resp})
}

func authResponse(result *service.AuthResult) dto.AuthResponse {
	return dto.AuthResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User:      userResponse(result.User),
	}
}

func userResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		Phone:     user.Phone,
		CreatedAt: user.CreatedAt,
	}
}

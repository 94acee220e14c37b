package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/grievance-hub/complaint-service/internal/api/dto"
	"github.com/grievance-hub/complaint-service/internal/auth"
	"github.com/grievance-hub/complaint-service/internal/domain"
	"github.com/grievance-hub/complaint-service/internal/service"
	apperrors "github.com/grievance-hub/complaint-service/pkg/util/errorutil"
)

// ComplaintsHandler manages complaint endpoints.
type ComplaintsHandler struct {
	service *service.ComplaintService
}

// NewComplaintsHandler constructs handler.
func NewComplaintsHandler(complaintService *service.ComplaintService) *ComplaintsHandler {
	return &ComplaintsHandler{service: complaintService}
}

// Create POST /complaints.
func (h *ComplaintsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	complaint, err := h.service.Create(c.Context(), principal.User.ID, service.ComplaintCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": complaintResponse(complaint)})
}

// ListMine GET /complaints/my.
func (h *ComplaintsHandler) ListMine(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	limit, offset := parsePagination(c)
	complaints, err := h.service.ListForSubmitter(c.Context(), principal.User.ID, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintResponses(complaints)})
}

// ListAssigned GET /complaints/assigned.
func (h *ComplaintsHandler) ListAssigned(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("staff required")
	}
	limit, offset := parsePagination(c)
	complaints, err := h.service.ListForAssignee(c.Context(), principal.User.ID, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintResponses(complaints)})
}

// ListAll GET /complaints/all.
func (h *ComplaintsHandler) ListAll(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)
	complaints, err := h.service.ListAll(c.Context(), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintResponses(complaints)})
}

// Get GET /complaints/:id.
func (h *ComplaintsHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	complaint, err := h.service.GetForActor(c.Context(), principal.Actor(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintResponse(complaint)})
}

// Assign PATCH /complaints/:id/assign.
func (h *ComplaintsHandler) Assign(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("admin required")
	}
	var req dto.AssignComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.StaffID == "" {
		return apperrors.NewValidationError("staff_id required", nil)
	}

	complaint, err := h.service.Transition(c.Context(), c.Params("id"), principal.Actor(),
		domain.StatusAssigned, service.TransitionExtras{AssigneeID: &req.StaffID})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintResponse(complaint)})
}

// UpdateStatus PATCH /complaints/:id/status.
func (h *ComplaintsHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("staff required")
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Status == "" {
		return apperrors.NewValidationError("status required", nil)
	}

	complaint, err := h.service.Transition(c.Context(), c.Params("id"), principal.Actor(),
		req.Status, service.TransitionExtras{ResolutionNotes: req.ResolutionNotes})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintResponse(complaint)})
}

// SubmitFeedback POST /complaints/:id/feedback.
func (h *ComplaintsHandler) SubmitFeedback(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.SubmitFeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	complaint, err := h.service.SubmitFeedback(c.Context(), c.Params("id"), principal.User.ID, req.Rating, req.Comment)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintResponse(complaint)})
}

func parsePagination(c *fiber.Ctx) (limit, offset int) {
	page := parseIntQuery(c.Query("page"), 1)
	pageSize := parseIntQuery(c.Query("page_size"), 20)
	return pageSize, (page - 1) * pageSize
}

func parseIntQuery(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func complaintResponse(complaint *domain.Complaint) dto.ComplaintResponse {
	return dto.ComplaintResponse{
		ID:              complaint.ID,
		ExternalKey:     complaint.ExternalKey,
		SubmitterID:     complaint.SubmitterID,
		AssigneeID:      complaint.AssigneeID,
		Title:           complaint.Title,
		Description:     complaint.Description,
		Category:        complaint.Category,
		Status:          complaint.Status,
		ResolutionNotes: complaint.ResolutionNotes,
		FeedbackRating:  complaint.FeedbackRating,
		FeedbackComment: complaint.FeedbackComment,
		CreatedAt:       complaint.CreatedAt,
		UpdatedAt:       complaint.UpdatedAt,
	}
}

func complaintResponses(complaints []domain.Complaint) []dto.ComplaintResponse {
	items := make([]dto.ComplaintResponse, 0, len(complaints))
	for i := range complaints {
		items = append(items, complaintResponse(&complaints[i]))
	}
	return items
}

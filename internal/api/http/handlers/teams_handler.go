package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/convodocs/internal/api/dto"
	"github.com/spec-kit/convodocs/internal/service"
	apperrors "github.com/spec-kit/convodocs/pkg/util/errorutil"
)

// TeamsHandler serves team and member endpoints.
type TeamsHandler struct {
	service *service.TeamService
}

// NewTeamsHandler constructs handler.
func NewTeamsHandler(teamService *service.TeamService) *TeamsHandler {
	return &TeamsHandler{service: teamService}
}

// ListTeams GET /teams.
func (h *TeamsHandler) ListTeams(c *fiber.Ctx) error {
	teams, err := h.service.ListTeams(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.TeamResponse, 0, len(teams))
	for i := range teams {
		items = append(items, dto.NewTeamResponse(&teams[i]))
	}
	return c.JSON(items)
}

// GetTeam GET /teams/:id.
func (h *TeamsHandler) GetTeam(c *fiber.Ctx) error {
	team, err := h.service.GetTeam(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTeamResponse(team))
}

// CreateTeam POST /teams.
func (h *TeamsHandler) CreateTeam(c *fiber.Ctx) error {
	var req dto.TeamRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	team, err := h.service.CreateTeam(c.UserContext(), service.TeamInput{Name: req.Name, Description: req.Description})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewTeamResponse(team))
}

// UpdateTeam PUT /teams/:id.
func (h *TeamsHandler) UpdateTeam(c *fiber.Ctx) error {
	var req dto.TeamRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	team, err := h.service.UpdateTeam(c.UserContext(), c.Params("id"), service.TeamInput{Name: req.Name, Description: req.Description})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTeamResponse(team))
}

// DeleteTeam DELETE /teams/:id.
func (h *TeamsHandler) DeleteTeam(c *fiber.Ctx) error {
	if err := h.service.DeleteTeam(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ListMembers GET /teams/:id/members.
func (h *TeamsHandler) ListMembers(c *fiber.Ctx) error {
	members, err := h.service.ListMembers(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.MemberResponse, 0, len(members))
	for i := range members {
		items = append(items, dto.NewMemberResponse(&members[i]))
	}
	return c.JSON(items)
}

// AddMember POST /teams/:id/members.
func (h *TeamsHandler) AddMember(c *fiber.Ctx) error {
	var req dto.MemberRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	member, err := h.service.AddMember(c.UserContext(), c.Params("id"), memberInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewMemberResponse(member))
}

// UpdateMember PUT /teams/:id/members/:memberId.
func (h *TeamsHandler) UpdateMember(c *fiber.Ctx) error {
	var req dto.MemberRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	member, err := h.service.UpdateMember(c.UserContext(), c.Params("id"), c.Params("memberId"), memberInput(req))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewMemberResponse(member))
}

// DeleteMember DELETE /teams/:id/members/:memberId.
func (h *TeamsHandler) DeleteMember(c *fiber.Ctx) error {
	if err := h.service.DeleteMember(c.UserContext(), c.Params("id"), c.Params("memberId")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func memberInput(req dto.MemberRequest) service.MemberInput {
	return service.MemberInput{Name: req.Name, Email: req.Email, Role: req.Role}
}

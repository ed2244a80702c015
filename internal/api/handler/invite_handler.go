package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/collabsphere/collabsphere-api/internal/core/ports"
)

type acceptInviteRequest struct {
	Code string `json:"code" validate:"required"`
}

// InviteHandler creates and redeems team invite codes. Creation is
// manager-only (enforced by the RBAC middleware on the route).
type InviteHandler struct {
	inviteService ports.InviteService
}

func NewInviteHandler(inviteService ports.InviteService) *InviteHandler {
	return &InviteHandler{inviteService: inviteService}
}

// Create handles POST /api/invites.
func (h *InviteHandler) Create(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	invite, err := h.inviteService.Create(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, invite)
}

// Accept handles POST /api/invites/accept.
func (h *InviteHandler) Accept(c echo.Context) error {
	if _, _, err := ctxIdentity(c); err != nil {
		return err
	}

	var req acceptInviteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	inviterID, err := h.inviteService.Accept(c.Request().Context(), req.Code)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"inviter_id": inviterID})
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/talentbase/backend/internal/models"
	"github.com/talentbase/backend/internal/repositories"
	"github.com/talentbase/backend/internal/services"
)

// SkillHandler handles skill CRUD HTTP requests
type SkillHandler struct {
	skillService *services.SkillService
}

// NewSkillHandler creates a new SkillHandler
func NewSkillHandler(skillService *services.SkillService) *SkillHandler {
	return &SkillHandler{skillService: skillService}
}

// RegisterSkillRoutes registers skill-related routes
func (h *SkillHandler) RegisterSkillRoutes(g *echo.Group) {
	g.POST("/skills", h.AddSkill)
	g.PUT("/skills/:id", h.UpdateSkill)
	g.GET("/users/:id/skills", h.GetUserSkills)
}

// AddSkill creates a skill on the caller's profile. Followers are notified
// as a side effect.
func (h *SkillHandler) AddSkill(c echo.Context) error {
	currentUserID := currentUserID(c)
	if currentUserID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.AddSkillRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	skill, err := h.skillService.AddSkill(c.Request().Context(), currentUserID, req)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"data":    echo.Map{"skill": skill},
	})
}

// UpdateSkill applies the non-zero fields of the request to the caller's
// skill. Attaching new video links notifies followers.
func (h *SkillHandler) UpdateSkill(c echo.Context) error {
	currentUserID := currentUserID(c)
	if currentUserID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.UpdateSkillRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	skill, err := h.skillService.UpdateSkill(c.Request().Context(), currentUserID, c.Param("id"), req)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Skill not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"skill": skill},
	})
}

// GetUserSkills returns the skills of the given user, newest first
func (h *SkillHandler) GetUserSkills(c echo.Context) error {
	if currentUserID(c) == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	skills, err := h.skillService.ListUserSkills(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"skills": skills},
	})
}

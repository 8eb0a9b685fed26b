package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/postcraft/infrastructure/logger"
	"github.com/jonesrussell/postcraft/internal/models"
	"github.com/jonesrussell/postcraft/internal/planner"
	"github.com/jonesrussell/postcraft/internal/repository"
)

type PlanHandler struct {
	profiles ProfileStore
	plans    PlanStore
	log      logger.Logger
	now      func() time.Time
}

func NewPlanHandler(profiles ProfileStore, plans PlanStore, log logger.Logger) *PlanHandler {
	return &PlanHandler{profiles: profiles, plans: plans, log: log, now: time.Now}
}

// Weekly synthesizes this week's plan. target_audience in the query
// overrides the profile's audience.
func (h *PlanHandler) Weekly(c *gin.Context) {
	audience := strings.TrimSpace(c.Query("target_audience"))
	if audience == "" {
		profile, ok := callerProfile(c, h.profiles)
		if !ok {
			return
		}
		audience = profile.TargetAudience
	}

	c.JSON(http.StatusOK, gin.H{
		"week_start_date": models.WeekStart(h.now()).Format(time.DateOnly),
		"posts":           planner.WeeklyPlan(audience),
	})
}

// Save stores this week's plan for the caller's profile.
func (h *PlanHandler) Save(c *gin.Context) {
	profile, ok := callerProfile(c, h.profiles)
	if !ok {
		return
	}

	plan := &models.ContentPlan{
		ProfileID:     profile.ID,
		WeekStartDate: h.now(),
		Posts:         planner.WeeklyPlan(profile.TargetAudience),
	}
	if err := h.plans.Save(c.Request.Context(), plan); err != nil {
		requestLogger(c).Error("Failed to save plan", logger.ProfileID(profile.ID), logger.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to save plan")
		return
	}

	h.log.Info("Content plan saved",
		logger.ProfileID(profile.ID),
		logger.String("week_start_date", plan.WeekStartDate.Format(time.DateOnly)),
	)
	c.JSON(http.StatusCreated, plan)
}

func (h *PlanHandler) List(c *gin.Context) {
	profile, ok := callerProfile(c, h.profiles)
	if !ok {
		return
	}

	plans, err := h.plans.List(c.Request.Context(), profile.ID)
	if err != nil {
		requestLogger(c).Error("Failed to list plans", logger.ProfileID(profile.ID), logger.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to list plans")
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": plans, "count": len(plans)})
}

type planStatusRequest struct {
	Status string `binding:"required" json:"status"`
}

func (h *PlanHandler) UpdateStatus(c *gin.Context) {
	profile, ok := callerProfile(c, h.profiles)
	if !ok {
		return
	}

	var req planStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "status is required")
		return
	}
	status, err := models.ParsePlanStatus(req.Status)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	id := c.Param("id")
	if err = h.plans.UpdateStatus(c.Request.Context(), profile.ID, id, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(c, http.StatusNotFound, "plan not found")
			return
		}
		requestLogger(c).Error("Failed to update plan", logger.String("plan_id", id), logger.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to update plan")
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "status": status})
}

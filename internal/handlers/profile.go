package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/postcraft/infrastructure/logger"
	"github.com/jonesrussell/postcraft/internal/models"
	"github.com/jonesrussell/postcraft/internal/repository"
)

type ProfileHandler struct {
	profiles ProfileStore
	log      logger.Logger
}

func NewProfileHandler(profiles ProfileStore, log logger.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, log: log}
}

type createProfileRequest struct {
	BusinessName   string                `json:"business_name"`
	Industry       string                `json:"industry"`
	TargetAudience string                `json:"target_audience"`
	BrandVoice     string                `json:"brand_voice"`
	LogoURL        *string               `json:"logo_url"`
	WebsiteURL     *string               `json:"website_url"`
	MembershipTier models.MembershipTier `json:"membership_tier"`
}

// Create completes onboarding. Each user gets one profile.
func (h *ProfileHandler) Create(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req createProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	p := &models.BusinessProfile{
		UserID:         uid,
		BusinessName:   req.BusinessName,
		Industry:       req.Industry,
		TargetAudience: req.TargetAudience,
		BrandVoice:     req.BrandVoice,
		LogoURL:        emptyToNil(req.LogoURL),
		WebsiteURL:     emptyToNil(req.WebsiteURL),
		MembershipTier: req.MembershipTier,
	}
	if p.MembershipTier == "" {
		p.MembershipTier = models.TierFree
	}
	if err := p.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.profiles.Create(c.Request.Context(), p); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			respondError(c, http.StatusConflict, "profile already exists")
			return
		}
		requestLogger(c).Error("Failed to create profile", logger.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to create profile")
		return
	}

	h.log.Info("Business profile created",
		logger.UserID(uid),
		logger.ProfileID(p.ID),
		logger.String("industry", p.Industry),
	)
	c.JSON(http.StatusCreated, p)
}

func (h *ProfileHandler) Get(c *gin.Context) {
	p, ok := callerProfile(c, h.profiles)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProfileHandler) Update(c *gin.Context) {
	p, ok := callerProfile(c, h.profiles)
	if !ok {
		return
	}

	var upd models.ProfileUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	changed := upd.Apply(p)
	if len(changed) == 0 {
		c.JSON(http.StatusOK, p)
		return
	}
	if err := p.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.profiles.Update(c.Request.Context(), p); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(c, http.StatusNotFound, errProfileRequired)
			return
		}
		requestLogger(c).Error("Failed to update profile", logger.ProfileID(p.ID), logger.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to update profile")
		return
	}

	h.log.Info("Business profile updated",
		logger.ProfileID(p.ID),
		logger.Strings("changed_fields", changed),
	)
	c.JSON(http.StatusOK, p)
}

// Options lists the onboarding choices.
func (h *ProfileHandler) Options(c *gin.Context) {
	tiers := make([]gin.H, 0, 3)
	for _, t := range []models.MembershipTier{models.TierFree, models.TierPro, models.TierEnterprise} {
		tiers = append(tiers, gin.H{"tier": t, "monthly_price_usd": t.MonthlyPriceUSD()})
	}
	c.JSON(http.StatusOK, gin.H{
		"industries":   models.Industries,
		"brand_voices": models.BrandVoices,
		"platforms":    models.Platforms,
		"tiers":        tiers,
	})
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

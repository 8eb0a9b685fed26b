package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	infraerrors "github.com/jonesrussell/postcraft/infrastructure/errors"
	infrajwt "github.com/jonesrussell/postcraft/infrastructure/jwt"
	"github.com/jonesrussell/postcraft/infrastructure/logger"
	"github.com/jonesrussell/postcraft/internal/identity"
)

type AuthHandler struct {
	identity IdentityProvider
	log      logger.Logger
}

func NewAuthHandler(idp IdentityProvider, log logger.Logger) *AuthHandler {
	return &AuthHandler{identity: idp, log: log}
}

type credentialsRequest struct {
	Email    string `binding:"required,email" json:"email"`
	Password string `binding:"required,min=6" json:"password"`
}

type resetRequest struct {
	Email string `binding:"required,email" json:"email"`
}

func (h *AuthHandler) SignUp(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "email and a password of at least 6 characters are required")
		return
	}

	res, err := h.identity.SignUp(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.identityError(c, "sign up", err)
		return
	}

	h.log.Info("User signed up", logger.UserID(res.User.ID))
	c.JSON(http.StatusCreated, res)
}

func (h *AuthHandler) SignIn(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "email and password are required")
		return
	}

	session, err := h.identity.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.identityError(c, "sign in", err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "a valid email is required")
		return
	}

	if err := h.identity.ResetPassword(c.Request.Context(), req.Email); err != nil {
		h.identityError(c, "reset password", err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "if the address exists, a reset link has been sent"})
}

func (h *AuthHandler) SignOut(c *gin.Context) {
	if err := h.identity.SignOut(c.Request.Context(), infrajwt.GetToken(c)); err != nil {
		h.identityError(c, "sign out", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.identity.CurrentUser(c.Request.Context(), infrajwt.GetToken(c))
	if err != nil {
		h.identityError(c, "current user", err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) identityError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, identity.ErrNotConfigured):
		respondError(c, http.StatusServiceUnavailable, "authentication is not configured")
	case errors.Is(err, identity.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, identity.ErrUnauthorized):
		respondError(c, http.StatusUnauthorized, "session expired")
	default:
		if httpErr, ok := infraerrors.AsHTTPError(err); ok && httpErr.StatusCode < http.StatusInternalServerError {
			respondError(c, http.StatusBadRequest, httpErr.Message)
			return
		}
		requestLogger(c).Error("Identity provider call failed", logger.String("op", op), logger.Error(err))
		respondError(c, http.StatusBadGateway, "authentication service unavailable")
	}
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cardwise/cardwise-api/internal/models"
	"github.com/cardwise/cardwise-api/internal/service"
	"github.com/cardwise/cardwise-api/internal/session"
	appErrors "github.com/cardwise/cardwise-api/pkg/errors"
	"github.com/cardwise/cardwise-api/pkg/response"
)

// AuthHandler wires the login, registration and logout endpoints.
type AuthHandler struct {
	service *service.AuthService
	store   *session.Store
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc *service.AuthService, store *session.Store) *AuthHandler {
	return &AuthHandler{service: svc, store: store}
}

// Login godoc
// @Summary Authenticate user
// @Description Authenticate a contributor by email and password; sets the session cookie
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}
	req.IP = c.ClientIP()
	req.UserAgent = c.GetHeader("User-Agent")

	user, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.store.Create(c, user.ID); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session"))
		return
	}

	response.JSON(c, http.StatusOK, models.LoginResponse{
		Message: "login successful",
		User: &models.UserInfo{
			ID:             user.ID,
			Username:       user.Username,
			Email:          user.Email,
			QuestionsAdded: user.QuestionsAdded,
		},
	}, nil)
}

// AdminLogin godoc
// @Summary Authenticate administrator
// @Description Authenticate against the configured administrator credentials
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/admin/login [post]
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}
	req.IP = c.ClientIP()
	req.UserAgent = c.GetHeader("User-Agent")

	if err := h.service.AdminLogin(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}

	if err := h.store.Create(c, session.AdminSubject); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session"))
		return
	}

	response.JSON(c, http.StatusOK, models.LoginResponse{Message: "login successful"}, nil)
}

// Register godoc
// @Summary Register a new contributor
// @Description Create an account when registrations are open
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.RegisterRequest true "Registration payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid registration payload"))
		return
	}
	req.IP = c.ClientIP()
	req.UserAgent = c.GetHeader("User-Agent")

	user, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, models.UserInfo{
		ID:             user.ID,
		Username:       user.Username,
		Email:          user.Email,
		QuestionsAdded: user.QuestionsAdded,
	})
}

// Logout godoc
// @Summary Logout current session
// @Description Revoke the session token and clear the cookie
// @Tags Authentication
// @Produce json
// @Success 204 "No Content"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if claims := h.store.Read(c); claims != nil {
		h.service.RecordLogout(claims.SubjectID, c.ClientIP(), c.GetHeader("User-Agent"))
	}
	h.store.Destroy(c)
	response.NoContent(c)
}

// ChangePassword godoc
// @Summary Change own password
// @Description Verify the current password, store a new hash and end the session
// @Tags Profile
// @Accept json
// @Produce json
// @Param payload body models.ChangePasswordRequest true "Password payload"
// @Success 204 "No Content"
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /profile/change-password [post]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	identity := identityFromContext(c)
	if identity == nil || identity.User == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid password payload"))
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), identity.User.ID, req); err != nil {
		response.Error(c, err)
		return
	}

	// Password changes end every session the account holds, not just the
	// one presenting the request; the user signs back in everywhere.
	h.store.RevokeSubject(c, identity.User.ID)
	h.store.Destroy(c)
	response.NoContent(c)
}

package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"todoapi/internal/auth"
	"todoapi/internal/dto"
	"todoapi/internal/service"

	"github.com/gin-gonic/gin"
)

// UserHandler handles registration, login, logout and the current user.
type UserHandler struct {
	users *service.UserService
	log   *slog.Logger
}

// NewUserHandler returns a new UserHandler.
func NewUserHandler(users *service.UserService, log *slog.Logger) *UserHandler {
	return &UserHandler{users: users, log: log}
}

// Register godoc
// @Summary      Register
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CredentialsRequest  true  "Credentials"
// @Success      200   {object}  dto.UserResponse
// @Header       200   {string}  x-auth  "Session token"
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /users [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err.Error())
		return
	}
	user, err := h.users.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	token, err := h.users.IssueSession(c.Request.Context(), user)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Header(auth.HeaderName, token)
	c.JSON(http.StatusOK, dto.Redact(user))
}

// Login godoc
// @Summary      Login
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CredentialsRequest  true  "Credentials"
// @Success      200   {object}  dto.UserResponse
// @Header       200   {string}  x-auth  "Session token"
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /users/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err.Error())
		return
	}
	user, err := h.users.FindByCredentials(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	token, err := h.users.IssueSession(c.Request.Context(), user)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Header(auth.HeaderName, token)
	c.JSON(http.StatusOK, dto.Redact(user))
}

// Me godoc
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Security     TokenAuth
// @Success      200  {object}  dto.UserResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /users/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	user, ok := auth.UserFromContext(c)
	if !ok {
		respondError(c, h.log, service.ErrInvalidToken)
		return
	}
	c.JSON(http.StatusOK, dto.Redact(user))
}

// Logout godoc
// @Summary      Logout (revoke the presented token)
// @Tags         users
// @Security     TokenAuth
// @Success      200
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /users/me/token [delete]
func (h *UserHandler) Logout(c *gin.Context) {
	user, ok := auth.UserFromContext(c)
	if !ok {
		respondError(c, h.log, service.ErrInvalidToken)
		return
	}
	if err := h.users.RemoveToken(c.Request.Context(), user, auth.TokenFromContext(c)); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusOK)
}

// ChangePassword godoc
// @Summary      Change password
// @Tags         users
// @Accept       json
// @Security     TokenAuth
// @Param        body  body  dto.ChangePasswordRequest  true  "Current and new password"
// @Success      200
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /users/me/password [patch]
func (h *UserHandler) ChangePassword(c *gin.Context) {
	user, ok := auth.UserFromContext(c)
	if !ok {
		respondError(c, h.log, service.ErrInvalidToken)
		return
	}
	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err.Error())
		return
	}
	if err := h.users.ChangePassword(c.Request.Context(), user, req.CurrentPassword, req.Password); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusOK)
}

package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pigfarm-manager/internal/auth"
	"pigfarm-manager/internal/identity"
	"pigfarm-manager/internal/middleware"
)

type credentialsForm struct {
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

func (h *Handler) SignIn(c *gin.Context) {
	var form credentialsForm
	if err := c.ShouldBind(&form); err != nil {
		fail(c, http.StatusBadRequest, "email and password are required")
		return
	}
	email := strings.TrimSpace(form.Email)
	ctx := c.Request.Context()

	id, err := h.Provider.SignIn(ctx, email, form.Password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			fail(c, http.StatusUnauthorized, "invalid email or password")
			return
		}
		h.Log.Error("identity provider sign-in failed", zap.String("email", email), zap.Error(err))
		fail(c, http.StatusBadGateway, "identity provider unavailable")
		return
	}

	role, err := h.Resolver.ResolveOrCreateRole(ctx, id.Email)
	if err != nil {
		// сессию у провайдера закрываем, локальная не создаётся
		if id.Token != "" {
			if serr := h.Provider.SignOut(ctx, id.Token); serr != nil {
				h.Log.Warn("provider sign-out failed", zap.String("email", id.Email), zap.Error(serr))
			}
		}
		if errors.Is(err, auth.ErrAccountDeactivated) {
			fail(c, http.StatusForbidden, "account deactivated")
			return
		}
		h.Log.Error("role resolution failed", zap.String("email", id.Email), zap.Error(err))
		fail(c, http.StatusInternalServerError, "could not resolve role")
		return
	}

	if prev := middleware.CurrentSession(c); prev != nil {
		h.Sessions.End(prev.ID)
	}
	st := h.Sessions.Begin(id.Email, role, id.Token)

	sess := sessions.Default(c)
	sess.Set(middleware.SessionIDKey, st.ID)
	if err := sess.Save(); err != nil {
		h.Sessions.End(st.ID)
		fail(c, http.StatusInternalServerError, "could not save session")
		return
	}

	respond(c, http.StatusOK, "signed in", gin.H{"email": st.Email, "role": st.Role})
}

func (h *Handler) SignUp(c *gin.Context) {
	var form credentialsForm
	if err := c.ShouldBind(&form); err != nil {
		fail(c, http.StatusBadRequest, "email and password are required")
		return
	}
	email := strings.TrimSpace(form.Email)

	if err := h.Provider.SignUp(c.Request.Context(), email, form.Password); err != nil {
		switch {
		case errors.Is(err, identity.ErrAlreadyRegistered):
			fail(c, http.StatusConflict, "user already registered")
		case errors.Is(err, identity.ErrInvalidCredentials):
			fail(c, http.StatusBadRequest, "invalid email or password")
		default:
			h.Log.Error("identity provider sign-up failed", zap.String("email", email), zap.Error(err))
			fail(c, http.StatusBadGateway, "identity provider unavailable")
		}
		return
	}
	respond(c, http.StatusCreated, "account created, confirm your email if required", gin.H{"email": email})
}

// SignOut закрывает сессию у провайдера и локально. Неотправленная очередь теряется.
func (h *Handler) SignOut(c *gin.Context) {
	if st := middleware.CurrentSession(c); st != nil {
		if err := h.Provider.SignOut(c.Request.Context(), st.ProviderToken); err != nil {
			h.Log.Warn("provider sign-out failed", zap.String("email", st.Email), zap.Error(err))
		}
		h.Sessions.End(st.ID)
	}

	sess := sessions.Default(c)
	sess.Clear()
	sess.Options(sessions.Options{Path: "/", MaxAge: -1})
	_ = sess.Save()

	respond(c, http.StatusOK, "signed out", nil)
}

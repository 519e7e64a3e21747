package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pigfarm-manager/internal/admin"
	"pigfarm-manager/internal/middleware"
	"pigfarm-manager/internal/models"
)

type addUserForm struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
	Role     string `json:"role" form:"role"`
	Active   *bool  `json:"active" form:"active"`
}

type passwordForm struct {
	Password string `json:"password" form:"password"`
}

type roleForm struct {
	Role string `json:"role" form:"role"`
}

type activeForm struct {
	Active *bool `json:"active" form:"active"`
}

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.Admin.ListUsers(c.Request.Context())
	if err != nil {
		h.adminError(c, err)
		return
	}
	respond(c, http.StatusOK, "", users)
}

func (h *Handler) AddUser(c *gin.Context) {
	var form addUserForm
	if err := c.ShouldBind(&form); err != nil {
		fail(c, http.StatusBadRequest, "malformed request")
		return
	}
	active := true
	if form.Active != nil {
		active = *form.Active
	}

	created, err := h.Admin.AddUser(c.Request.Context(), form.Username, form.Password, models.UserRole(form.Role), active)
	if err != nil {
		h.adminError(c, err)
		return
	}
	if !created {
		respond(c, http.StatusOK, "user already exists, nothing changed", gin.H{"created": false})
		return
	}

	h.audit(c, form.Username, "create", "role="+form.Role+" active="+strconv.FormatBool(active))
	respond(c, http.StatusCreated, "user created", gin.H{"created": true})
}

func (h *Handler) ChangePassword(c *gin.Context) {
	var form passwordForm
	if err := c.ShouldBind(&form); err != nil {
		fail(c, http.StatusBadRequest, "malformed request")
		return
	}
	username := c.Param("username")
	rows, err := h.Admin.ChangePassword(c.Request.Context(), username, form.Password)
	h.afterUpdate(c, username, "change_password", "", rows, err)
}

func (h *Handler) SetRole(c *gin.Context) {
	var form roleForm
	if err := c.ShouldBind(&form); err != nil {
		fail(c, http.StatusBadRequest, "malformed request")
		return
	}
	username := c.Param("username")
	rows, err := h.Admin.SetRole(c.Request.Context(), username, models.UserRole(form.Role))
	h.afterUpdate(c, username, "set_role", "role="+form.Role, rows, err)
}

func (h *Handler) SetActive(c *gin.Context) {
	var form activeForm
	if err := c.ShouldBind(&form); err != nil || form.Active == nil {
		fail(c, http.StatusBadRequest, "active flag is required")
		return
	}
	username := c.Param("username")
	rows, err := h.Admin.SetActive(c.Request.Context(), username, *form.Active)
	h.afterUpdate(c, username, "set_active", "active="+strconv.FormatBool(*form.Active), rows, err)
}

// afterUpdate: 0 затронутых строк — пользователя нет, это 404, а не ошибка сервера.
func (h *Handler) afterUpdate(c *gin.Context, username, action, details string, rows int64, err error) {
	if err != nil {
		h.adminError(c, err)
		return
	}
	if rows == 0 {
		fail(c, http.StatusNotFound, "user not found")
		return
	}
	h.audit(c, username, action, details)
	respond(c, http.StatusOK, "updated", gin.H{"rows": rows})
}

func (h *Handler) adminError(c *gin.Context, err error) {
	if errors.Is(err, admin.ErrValidation) {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	h.Log.Error("admin operation failed",
		zap.String("request_id", middleware.GetRequestID(c)), zap.Error(err))
	fail(c, http.StatusInternalServerError, "database error")
}

func (h *Handler) audit(c *gin.Context, subject, action, details string) {
	actor := ""
	if st := middleware.CurrentSession(c); st != nil {
		actor = st.Email
	}
	h.Audit.Record(c.Request.Context(), actor, "user", subject, action, details)
}

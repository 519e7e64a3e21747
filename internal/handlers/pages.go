package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pigfarm-manager/internal/middleware"
)

func (h *Handler) Me(c *gin.Context) {
	st := middleware.CurrentSession(c)
	respond(c, http.StatusOK, "", gin.H{
		"email":          st.Email,
		"role":           st.Role,
		"pendingOffline": st.Queue.Len(),
		"signedInAt":     st.CreatedAt,
	})
}

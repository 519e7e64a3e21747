package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *Handler) ListAuditLogs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "200"))

	logs, err := h.Audit.Latest(c.Request.Context(), limit)
	if err != nil {
		h.Log.Error("audit log query failed", zap.Error(err))
		fail(c, http.StatusInternalServerError, "could not load audit log")
		return
	}
	respond(c, http.StatusOK, "", logs)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pigfarm-manager/internal/middleware"
	"pigfarm-manager/internal/offline"
)

// WriteRecord пишет строку в таблицу. Если запись не удалась (или передан defer=1),
// мутация попадает в offline-очередь сессии и ответ — 202.
func (h *Handler) WriteRecord(c *gin.Context) {
	table := c.Param("table")
	if !h.Records.Allowed(table) {
		fail(c, http.StatusNotFound, "unknown table")
		return
	}

	action := offline.Action(c.DefaultQuery("action", string(offline.ActionInsert)))
	if action != offline.ActionInsert && action != offline.ActionUpsert {
		fail(c, http.StatusBadRequest, "action must be insert or upsert")
		return
	}

	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil || len(payload) == 0 {
		fail(c, http.StatusBadRequest, "payload must be a non-empty JSON object")
		return
	}

	st := middleware.CurrentSession(c)

	if c.Query("defer") == "1" {
		m := st.Queue.Enqueue(action, table, payload)
		respond(c, http.StatusAccepted, "queued offline", gin.H{"mutation": m, "pending": st.Queue.Len()})
		return
	}

	var err error
	if action == offline.ActionUpsert {
		err = h.Records.Upsert(c.Request.Context(), table, payload)
	} else {
		err = h.Records.Insert(c.Request.Context(), table, payload)
	}
	if err != nil {
		h.Log.Warn("record write failed, queued offline",
			zap.String("email", st.Email), zap.String("table", table), zap.Error(err))
		m := st.Queue.Enqueue(action, table, payload)
		respond(c, http.StatusAccepted, "queued offline", gin.H{
			"mutation": m,
			"pending":  st.Queue.Len(),
			"error":    err.Error(),
		})
		return
	}

	respond(c, http.StatusCreated, "saved", nil)
}

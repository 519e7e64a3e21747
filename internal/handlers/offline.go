package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pigfarm-manager/internal/middleware"
)

func (h *Handler) ListOffline(c *gin.Context) {
	st := middleware.CurrentSession(c)
	items := st.Queue.Items()
	respond(c, http.StatusOK, "", gin.H{"items": items, "count": len(items)})
}

func (h *Handler) FlushOffline(c *gin.Context) {
	st := middleware.CurrentSession(c)
	if st.Queue.Len() == 0 {
		respond(c, http.StatusOK, "nothing to flush", gin.H{"sent": 0, "remaining": 0, "dropped": 0})
		return
	}

	res := st.Queue.Flush(c.Request.Context(), h.Records)
	h.Audit.Record(c.Request.Context(), st.Email, "offline_queue", st.Email, "flush",
		fmt.Sprintf("sent=%d remaining=%d dropped=%d", res.Sent, res.Remaining, res.Dropped))

	msg := "all pending writes sent"
	if res.Remaining > 0 {
		msg = fmt.Sprintf("%d writes still pending", res.Remaining)
	}
	respond(c, http.StatusOK, msg, res)
}

func (h *Handler) DiscardOffline(c *gin.Context) {
	pos, err := strconv.Atoi(c.Param("pos"))
	if err != nil {
		fail(c, http.StatusBadRequest, "bad position")
		return
	}
	st := middleware.CurrentSession(c)
	m, ok := st.Queue.Discard(pos)
	if !ok {
		fail(c, http.StatusNotFound, "no pending write at this position")
		return
	}
	h.Audit.Record(c.Request.Context(), st.Email, "offline_queue", m.Target, "discard", string(m.Action))
	respond(c, http.StatusOK, "discarded", m)
}

func (h *Handler) ClearOffline(c *gin.Context) {
	st := middleware.CurrentSession(c)
	n := st.Queue.Clear()
	if n > 0 {
		h.Audit.Record(c.Request.Context(), st.Email, "offline_queue", st.Email, "clear", fmt.Sprintf("discarded=%d", n))
	}
	respond(c, http.StatusOK, "cleared", gin.H{"discarded": n})
}

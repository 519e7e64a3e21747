package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"pigfarm-manager/internal/session"
)

const (
	SessionIDKey  = "sid"
	ctxSessionKey = "CurrentSession"
)

// InjectSession находит состояние сессии по ID из cookie и кладёт его в контекст.
// Если ID в cookie есть, а сессии уже нет (истекла, рестарт процесса), cookie чистится.
func InjectSession(manager *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)

		if sid, ok := sess.Get(SessionIDKey).(string); ok && sid != "" {
			if st, ok := manager.Get(sid); ok {
				c.Set(ctxSessionKey, st)
			} else {
				sess.Delete(SessionIDKey)
				_ = sess.Save()
			}
		}

		c.Next()
	}
}

// CurrentSession возвращает состояние сессии или nil, если пользователь не вошёл.
func CurrentSession(c *gin.Context) *session.State {
	v, ok := c.Get(ctxSessionKey)
	if !ok {
		return nil
	}
	st, _ := v.(*session.State)
	return st
}

package session

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"pigfarm-manager/internal/models"
	"pigfarm-manager/internal/offline"
)

func TestManager_Lifecycle(t *testing.T) {
	m := NewManager(time.Hour, zap.NewNop())

	st := m.Begin("anna@farm.test", models.RoleManager, "tok")
	if st.ID == "" || st.Queue == nil || st.Queue.Len() != 0 {
		t.Fatalf("bad initial state: %+v", st)
	}

	got, ok := m.Get(st.ID)
	if !ok || got != st {
		t.Fatalf("Get returned %+v %v", got, ok)
	}

	st.Queue.Enqueue(offline.ActionInsert, "pigs", map[string]any{"tag": "P-1"})

	if ended := m.End(st.ID); ended != st {
		t.Fatalf("End returned %+v", ended)
	}
	if _, ok := m.Get(st.ID); ok {
		t.Fatalf("session still present after End")
	}

	// новая сессия того же пользователя начинается с пустой очередью
	st2 := m.Begin("anna@farm.test", models.RoleManager, "tok")
	if st2.ID == st.ID || st2.Queue.Len() != 0 {
		t.Fatalf("new session reused old state")
	}
}

func TestManager_IdleExpiry(t *testing.T) {
	m := NewManager(time.Minute, zap.NewNop())
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	a := m.Begin("a@farm.test", models.RoleWorker, "")
	b := m.Begin("b@farm.test", models.RoleWorker, "")

	now = now.Add(50 * time.Second)
	if _, ok := m.Get(b.ID); !ok {
		t.Fatalf("b expired too early")
	}

	now = now.Add(30 * time.Second)
	if _, ok := m.Get(a.ID); ok {
		t.Fatalf("a should have expired")
	}
	if n := m.Sweep(); n != 0 {
		t.Fatalf("sweep removed %d, want 0", n)
	}

	now = now.Add(2 * time.Minute)
	if n := m.Sweep(); n != 1 || m.Len() != 0 {
		t.Fatalf("sweep removed %d, len=%d", n, m.Len())
	}
}

func TestManager_GetUnknown(t *testing.T) {
	m := NewManager(0, nil)
	if _, ok := m.Get(""); ok {
		t.Fatalf("empty id resolved")
	}
	if _, ok := m.Get("nope"); ok {
		t.Fatalf("unknown id resolved")
	}
	if m.End("nope") != nil {
		t.Fatalf("End of unknown id returned state")
	}
}

func TestManager_QueueNotifier(t *testing.T) {
	var seen []string
	m := NewManager(time.Hour, nil, WithQueueNotifier(func(email string) offline.Notifier {
		return offline.NotifierFunc(func(mu offline.Mutation) {
			seen = append(seen, email+":"+mu.Target)
		})
	}))

	st := m.Begin("ivan@farm.test", models.RoleWorker, "")
	st.Queue.Enqueue(offline.ActionUpsert, "feed_logs", map[string]any{"pig_tag": "P-2"})

	if len(seen) != 1 || seen[0] != "ivan@farm.test:feed_logs" {
		t.Fatalf("notifications = %v", seen)
	}
}

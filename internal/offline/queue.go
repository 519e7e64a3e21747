// Package offline буферизует записи, которые не удалось отправить в БД,
// и повторяет их по явному запросу (Flush). Очередь живёт в рамках одной сессии.
package offline

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

type Action string

const (
	ActionInsert Action = "insert"
	ActionUpsert Action = "upsert"
)

// Mutation — отложенное намерение записи.
// Attempts и LastError — только для диагностики, на порядок повтора не влияют.
type Mutation struct {
	Action    Action         `json:"action"`
	Target    string         `json:"target"`
	Payload   map[string]any `json:"payload"`
	QueuedAt  time.Time      `json:"queuedAt"`
	Attempts  int            `json:"attempts"`
	LastError string         `json:"lastError,omitempty"`
}

// Store — то, во что очередь умеет повторять записи.
// Любая ошибка означает «оставить в очереди до следующего Flush».
type Store interface {
	Insert(ctx context.Context, table string, payload map[string]any) error
	Upsert(ctx context.Context, table string, payload map[string]any) error
}

// Notifier сообщает пользователю, что запись отложена.
type Notifier interface {
	Deferred(m Mutation)
}

type NotifierFunc func(m Mutation)

func (f NotifierFunc) Deferred(m Mutation) { f(m) }

type FlushResult struct {
	Sent      int `json:"sent"`
	Remaining int `json:"remaining"`
	Dropped   int `json:"dropped"`
}

// Queue — FIFO отложенных записей одной сессии. Операции сериализуются мьютексом;
// Flush держит его весь проход, поэтому параллельный Enqueue дождётся его окончания.
type Queue struct {
	mu       sync.Mutex
	items    []Mutation
	notifier Notifier
	log      *zap.Logger
	now      func() time.Time
}

type Option func(*Queue)

func WithNotifier(n Notifier) Option {
	return func(q *Queue) { q.notifier = n }
}

func WithLogger(l *zap.Logger) Option {
	return func(q *Queue) { q.log = l }
}

func NewQueue(opts ...Option) *Queue {
	q := &Queue{
		log: zap.NewNop(),
		now: time.Now,
	}
	for _, o := range opts {
		o(q)
	}
	return q
}

// Enqueue добавляет запись в хвост очереди. Не падает.
func (q *Queue) Enqueue(action Action, target string, payload map[string]any) Mutation {
	m := Mutation{
		Action:   action,
		Target:   target,
		Payload:  payload,
		QueuedAt: q.now(),
	}

	q.mu.Lock()
	q.items = append(q.items, m)
	q.mu.Unlock()

	enqueuedTotal.WithLabelValues(target).Inc()
	q.log.Info("queued offline", zap.String("action", string(action)), zap.String("target", target))
	if q.notifier != nil {
		q.notifier.Deferred(m)
	}
	return m
}

// Flush один раз проходит очередь в порядке добавления.
// Успешные записи удаляются, неуспешные остаются в исходном относительном порядке,
// записи с неизвестным action выбрасываются без повтора. Ошибка одной записи
// не прерывает обработку остальных.
func (q *Queue) Flush(ctx context.Context, store Store) FlushResult {
	q.mu.Lock()
	defer q.mu.Unlock()

	var res FlushResult
	remaining := make([]Mutation, 0, len(q.items))

	for _, m := range q.items {
		var err error
		switch m.Action {
		case ActionInsert:
			err = store.Insert(ctx, m.Target, m.Payload)
		case ActionUpsert:
			err = store.Upsert(ctx, m.Target, m.Payload)
		default:
			res.Dropped++
			droppedTotal.WithLabelValues(m.Target).Inc()
			q.log.Warn("dropping queued mutation with unknown action",
				zap.String("action", string(m.Action)), zap.String("target", m.Target))
			continue
		}

		if err != nil {
			m.Attempts++
			m.LastError = err.Error()
			remaining = append(remaining, m)
			failedTotal.WithLabelValues(m.Target).Inc()
			q.log.Debug("replay failed, keeping mutation",
				zap.String("target", m.Target), zap.Int("attempts", m.Attempts), zap.Error(err))
			continue
		}

		res.Sent++
		sentTotal.WithLabelValues(m.Target).Inc()
	}

	q.items = remaining
	res.Remaining = len(remaining)
	return res
}

// Items возвращает копию очереди.
func (q *Queue) Items() []Mutation {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Mutation, len(q.items))
	copy(out, q.items)
	return out
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Discard убирает запись по позиции (например, «ядовитую», которая никогда не пройдёт).
func (q *Queue) Discard(pos int) (Mutation, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if pos < 0 || pos >= len(q.items) {
		return Mutation{}, false
	}
	m := q.items[pos]
	q.items = append(q.items[:pos:pos], q.items[pos+1:]...)
	return m, true
}

func (q *Queue) Clear() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := len(q.items)
	q.items = nil
	return n
}

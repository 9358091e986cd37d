// Package events はユーザーごとの変更通知をプロセス内で配信します。
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindPlan Kind = "plan"
	KindDay  Kind = "day"
)

// Event はプランまたは日次記録が変わったことを表します。
// 中身は持たず、購読側は通知を受けて最新の状態を取り直す
type Event struct {
	TenantID uuid.UUID `json:"-"`
	Kind     Kind      `json:"kind"`
	Date     string    `json:"date,omitempty"`
	At       time.Time `json:"at"`
}

const defaultBuffer = 16

type subscriber struct {
	ch chan Event
}

// Broker はテナント単位の購読を管理します。
// Publish はブロックしない。バッファが一杯の購読者への通知は捨てる
type Broker struct {
	mu     sync.RWMutex
	subs   map[uuid.UUID]map[*subscriber]struct{}
	buffer int
}

func NewBroker(buffer int) *Broker {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Broker{
		subs:   make(map[uuid.UUID]map[*subscriber]struct{}),
		buffer: buffer,
	}
}

// Subscribe はテナントの通知チャネルと解除関数を返します。
// 解除関数は何度呼んでもよく、呼ぶとチャネルは閉じられる
func (b *Broker) Subscribe(tenantID uuid.UUID) (<-chan Event, func()) {
	sub := &subscriber{ch: make(chan Event, b.buffer)}

	b.mu.Lock()
	if b.subs[tenantID] == nil {
		b.subs[tenantID] = make(map[*subscriber]struct{})
	}
	b.subs[tenantID][sub] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs[tenantID], sub)
			if len(b.subs[tenantID]) == 0 {
				delete(b.subs, tenantID)
			}
			b.mu.Unlock()
			close(sub.ch)
		})
	}
	return sub.ch, cancel
}

// Publish は同じテナントの全購読者に通知し、届けた数を返します
func (b *Broker) Publish(ev Event) int {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	delivered := 0
	for sub := range b.subs[ev.TenantID] {
		select {
		case sub.ch <- ev:
			delivered++
		default:
		}
	}
	return delivered
}

// Subscribers は購読者数 (テスト・ヘルスチェック用)
func (b *Broker) Subscribers(tenantID uuid.UUID) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[tenantID])
}

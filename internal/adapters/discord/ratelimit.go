package discord

import (
	"sync"
	"time"
)

// alertLimiter deja pasar una alerta por clave cada win.
type alertLimiter struct {
	mu   sync.Mutex
	next map[string]time.Time
	win  time.Duration
	now  func() time.Time
}

func newAlertLimiter(window time.Duration) *alertLimiter {
	return &alertLimiter{next: map[string]time.Time{}, win: window, now: time.Now}
}

func (l *alertLimiter) Allow(key string) bool {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	if until, ok := l.next[key]; ok && now.Before(until) {
		return false
	}
	l.next[key] = now.Add(l.win)
	return true
}

package service

import (
	"context"
	"time"

	"github.com/jose-valero/signals-janitor/internal/domain"
)

// Lo implementa internal/infra/storage.SignalRepo
type SignalStore interface {
	// DeleteEvictable borra en una sola sentencia y devuelve los ids realmente borrados.
	DeleteEvictable(ctx context.Context, policy domain.Policy, cutoff time.Time) ([]string, error)
	Count(ctx context.Context) (int64, error)
}

// Lo implementa internal/adapters/discord.Notifier (opcional)
type FailureNotifier interface {
	NotifyFailure(ctx context.Context, runID string, err error) error
}

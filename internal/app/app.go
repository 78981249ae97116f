package app

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jose-valero/signals-janitor/internal/adapters/discord"
	"github.com/jose-valero/signals-janitor/internal/app/service"
	"github.com/jose-valero/signals-janitor/internal/infra/config"
	"github.com/jose-valero/signals-janitor/internal/infra/storage"
)

// Build arma pool + repo + servicio a partir de la config. source identifica
// el binario en las alertas (cleanup | janitor | sweeperd).
func Build(ctx context.Context, cfg config.Config, source string, extra ...service.Option) (*service.SweepService, *pgxpool.Pool, error) {
	pool, err := storage.Open(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		return nil, nil, err
	}

	opts := []service.Option{service.WithCounts(cfg.CountRows)}
	if cfg.DiscordEnabled() {
		n, err := discord.NewNotifier(cfg.DiscordWebhookID, cfg.DiscordWebhookToken, source)
		if err != nil {
			log.Printf("[%s] discord notifier disabled: %v", source, err)
		} else {
			opts = append(opts, service.WithNotifier(n))
		}
	}
	opts = append(opts, extra...)

	repo := storage.NewSignalRepo(pool, cfg.SignalsTable)
	svc := service.NewSweepService(repo, cfg.Policy, opts...)
	log.Printf("[%s] ready table=%s policy=%s counts=%v", source, cfg.SignalsTable, svc.Policy(), cfg.CountRows)
	return svc, pool, nil
}

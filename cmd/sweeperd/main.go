package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jose-valero/signals-janitor/internal/adapters/httpsweep"
	"github.com/jose-valero/signals-janitor/internal/app"
	"github.com/jose-valero/signals-janitor/internal/app/service"
	"github.com/jose-valero/signals-janitor/internal/infra/config"
	"github.com/jose-valero/signals-janitor/internal/infra/metrics"
	"github.com/jose-valero/signals-janitor/internal/infra/storage"
	"github.com/jose-valero/signals-janitor/internal/scheduler"
)

func main() {
	_ = godotenv.Load()
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Métricas
	m := metrics.New(prometheus.DefaultRegisterer)

	// DB + servicio
	svc, pool, err := app.Build(ctx, cfg, "sweeperd", service.WithRecorder(m))
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	if cfg.AutoMigrate {
		if err := storage.Migrate(pool); err != nil {
			log.Fatal("migrate:", err)
		}
		log.Println("✅ DB migrada")
	}

	// Cron
	sched := scheduler.New(svc, cfg.SweepSchedule)
	if err := sched.Start(ctx); err != nil {
		log.Fatal(err)
	}
	if next := sched.NextRun(); next != nil {
		log.Printf("[sweeperd] next sweep at %s", next.Format(time.RFC3339))
	}

	// HTTP on-demand + /metrics
	srv := httpsweep.NewServer(cfg.HTTPAddr, httpsweep.NewHandler(svc), prometheus.DefaultGatherer)
	go func() {
		if err := srv.Start(); err != nil {
			log.Fatalf("http server: %v", err)
		}
	}()

	// Esperar señal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Println("[sweeperd] shutting down")

	sctx, scancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer scancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Printf("[sweeperd] http shutdown: %v", err)
	}
	sched.Stop()
	cancel()
}

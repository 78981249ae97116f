package app

import (
	"context"
	"sync"
	"time"

	"github.com/jose-valero/signals-janitor/internal/app/service"
	"github.com/jose-valero/signals-janitor/internal/infra/config"
)

// BuildFunc arma el servicio (config + pool). Lo llama LazySweeper.
type BuildFunc func(ctx context.Context) (*service.SweepService, error)

// LazySweeper construye el servicio en la primera invocación y lo cachea solo
// si salió bien; si la DB no respondía, la próxima invocación vuelve a intentar.
type LazySweeper struct {
	mu    sync.Mutex
	build BuildFunc
	svc   *service.SweepService
}

func NewLazySweeper(build BuildFunc) *LazySweeper {
	return &LazySweeper{build: build}
}

func (l *LazySweeper) Get(ctx context.Context) (*service.SweepService, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.svc != nil {
		return l.svc, nil
	}
	svc, err := l.build(ctx)
	if err != nil {
		return nil, err
	}
	l.svc = svc
	return svc, nil
}

// Run implementa httpsweep.Sweeper.
func (l *LazySweeper) Run(ctx context.Context) (service.Result, error) {
	svc, err := l.Get(ctx)
	if err != nil {
		return service.Result{}, err
	}
	return svc.Run(ctx)
}

func (l *LazySweeper) Now() time.Time {
	l.mu.Lock()
	svc := l.svc
	l.mu.Unlock()
	if svc == nil {
		return time.Now()
	}
	return svc.Now()
}

// FromEnv es el BuildFunc de las lambdas: lee config y arma pool + servicio.
func FromEnv(source string) BuildFunc {
	return func(ctx context.Context) (*service.SweepService, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		svc, _, err := Build(ctx, cfg, source)
		return svc, err
	}
}

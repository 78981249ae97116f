package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/jose-valero/signals-janitor/internal/domain"
)

// Recorder recibe el resultado de cada sweep (lo implementa internal/infra/metrics).
type Recorder interface {
	ObserveSweep(deleted int, took time.Duration, err error)
}

type Result struct {
	RunID      string
	Policy     domain.Policy
	Threshold  time.Time
	DeletedIDs []string
	Deleted    int    // siempre len(DeletedIDs), también en error si el DELETE ya corrió
	Before     *int64 // nil si no se contó
	After      *int64
	StartedAt  time.Time
	FinishedAt time.Time
}

type SweepService struct {
	store    SignalStore
	policy   domain.Policy
	counts   bool
	notifier FailureNotifier
	recorder Recorder
	now      func() time.Time
	runID    func() string
}

func NewSweepService(store SignalStore, policy domain.Policy, opts ...Option) *SweepService {
	s := &SweepService{
		store:  store,
		policy: policy,
		now:    time.Now,
		runID:  func() string { return uuid.NewString() },
	}
	for _, o := range opts {
		o(s)
	}
	if s.policy == "" {
		s.policy = domain.PolicyAge
	}
	return s
}

func (s *SweepService) Policy() domain.Policy { return s.policy }

// Now expone el reloj del servicio; los handlers lo usan para el timestamp de la respuesta.
func (s *SweepService) Now() time.Time { return s.now() }

// Run es el punto de entrada de los triggers: toma "now" del reloj y barre.
func (s *SweepService) Run(ctx context.Context) (Result, error) {
	return s.Sweep(ctx, s.now())
}

// Sweep borra las señales que cumplen la política respecto a un único cutoff
// calculado desde now. Cualquier error del store corta el sweep sin reintentos;
// lo ya borrado por el DELETE no se revierte.
func (s *SweepService) Sweep(ctx context.Context, now time.Time) (Result, error) {
	res := Result{
		RunID:     s.runID(),
		Policy:    s.policy,
		Threshold: domain.Cutoff(now).UTC(),
		StartedAt: now.UTC(),
	}
	log.Printf("[cleanup] run=%s policy=%s threshold=%s", res.RunID, res.Policy, res.Threshold.Format(time.RFC3339Nano))

	start := time.Now()
	err := s.sweep(ctx, &res)
	took := time.Since(start)
	res.FinishedAt = s.now().UTC()
	if s.recorder != nil {
		s.recorder.ObserveSweep(res.Deleted, took, err)
	}
	if err != nil {
		// si el DELETE ya corrió, lo borrado se reporta igual
		log.Printf("[cleanup] run=%s deleted=%d error: %v", res.RunID, res.Deleted, err)
		s.notify(ctx, res.RunID, err)
		return res, err
	}
	if res.Before != nil && res.After != nil {
		log.Printf("[cleanup] run=%s deleted=%d before=%d after=%d took=%s", res.RunID, res.Deleted, *res.Before, *res.After, took)
	} else {
		log.Printf("[cleanup] run=%s deleted=%d took=%s", res.RunID, res.Deleted, took)
	}
	return res, nil
}

func (s *SweepService) sweep(ctx context.Context, res *Result) error {
	if s.counts {
		n, err := s.store.Count(ctx)
		if err != nil {
			return &StoreError{Op: "count", Err: err}
		}
		res.Before = &n
	}

	ids, err := s.store.DeleteEvictable(ctx, s.policy, res.Threshold)
	if err != nil {
		return &StoreError{Op: "delete", Err: err}
	}
	if ids == nil {
		ids = []string{}
	}
	res.DeletedIDs = ids
	res.Deleted = len(ids)

	if s.counts {
		n, err := s.store.Count(ctx)
		if err != nil {
			return &StoreError{Op: "count", Err: err}
		}
		res.After = &n
	}
	return nil
}

// notify nunca cambia el resultado del sweep.
func (s *SweepService) notify(ctx context.Context, runID string, err error) {
	if s.notifier == nil {
		return
	}
	if nerr := s.notifier.NotifyFailure(ctx, runID, err); nerr != nil {
		log.Printf("[cleanup] run=%s notify failure: %v", runID, nerr)
	}
}

// Package scheduler corre sweeps periódicos dentro de sweeperd.
//
// Cada tick es independiente: no hay lock entre ticks ni con el trigger
// HTTP. Si un sweep tarda más que el intervalo, el siguiente puede solaparse;
// es seguro porque borrar es idempotente.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jose-valero/signals-janitor/internal/app/service"
)

// DefaultSchedule: cada 20 minutos, igual que el cron de producción.
const DefaultSchedule = "*/20 * * * *"

// Lo implementa service.SweepService
type Sweeper interface {
	Run(ctx context.Context) (service.Result, error)
}

type Scheduler struct {
	sweeper  Sweeper
	schedule string
	cron     *cron.Cron
	mu       sync.Mutex
	running  bool
}

func New(sweeper Sweeper, schedule string) *Scheduler {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	return &Scheduler{
		sweeper:  sweeper,
		schedule: schedule,
		cron:     cron.New(),
	}
}

// Start valida el cron y arranca. ctx se pasa a cada sweep.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}
	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.schedule, err)
	}
	if _, err := s.cron.AddFunc(s.schedule, func() { s.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("schedule sweep: %w", err)
	}

	s.cron.Start()
	s.running = true
	log.Printf("[scheduler] started schedule=%q", s.schedule)
	return nil
}

// RunOnce ejecuta un sweep y loguea; el error ya lo reporta el servicio.
func (s *Scheduler) RunOnce(ctx context.Context) {
	res, err := s.sweeper.Run(ctx)
	if err != nil {
		log.Printf("[scheduler] sweep failed: %v", err)
		return
	}
	log.Printf("[scheduler] sweep ok run=%s deleted=%d", res.RunID, res.Deleted)
}

// Stop frena el cron y espera al sweep en curso.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	<-s.cron.Stop().Done()
	s.running = false
	log.Printf("[scheduler] stopped")
}

func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// NextRun devuelve nil si no está corriendo.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}

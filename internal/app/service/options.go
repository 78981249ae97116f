package service

import "time"

type Option func(*SweepService)

// WithCounts activa los COUNT antes/después. Solo enriquecen la respuesta.
func WithCounts(on bool) Option {
	return func(s *SweepService) { s.counts = on }
}

func WithNotifier(n FailureNotifier) Option {
	return func(s *SweepService) { s.notifier = n }
}

func WithRecorder(r Recorder) Option {
	return func(s *SweepService) { s.recorder = r }
}

// WithClock es para tests.
func WithClock(now func() time.Time) Option {
	return func(s *SweepService) { s.now = now }
}

func WithRunID(gen func() string) Option {
	return func(s *SweepService) { s.runID = gen }
}

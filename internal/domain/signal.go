package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// RetentionWindow es la edad mínima de una señal activa antes de poder borrarla.
// Menos de eso puede ser una llamada en curso (offer/answer/ICE).
const RetentionWindow = 2 * time.Minute

type Status string

const (
	StatusActive    Status = "active"
	StatusProcessed Status = "processed"
)

// Signal es una fila de la tabla de señalización. El payload no se inspecciona.
type Signal struct {
	ID        string
	RoomID    string
	SenderID  string
	TargetID  string
	Type      string // offer | answer | ice
	Payload   json.RawMessage
	Status    Status // vacío si la tabla no usa status
	CreatedAt time.Time
}

// Policy decide qué señales son borrables.
type Policy string

const (
	// PolicyAge: created_at < cutoff. Es la política por defecto.
	PolicyAge Policy = "age"
	// PolicyStatus: processed siempre; active solo si created_at < cutoff.
	PolicyStatus Policy = "status"
)

var ErrInvalidPolicy = errors.New("invalid policy")

func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyAge:
		return PolicyAge, nil
	case PolicyStatus:
		return PolicyStatus, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPolicy, s)
}

// UnmarshalText permite usar Policy directo en el struct de config.
func (p *Policy) UnmarshalText(b []byte) error {
	v, err := ParsePolicy(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Cutoff calcula el umbral una sola vez por sweep.
func Cutoff(now time.Time) time.Time {
	return now.Add(-RetentionWindow)
}

// Evicts es el predicado de borrado. Lo usa el fake en memoria de los tests
// y tiene que coincidir con el WHERE de storage.SignalRepo.
func (p Policy) Evicts(s Signal, cutoff time.Time) bool {
	old := s.CreatedAt.Before(cutoff)
	switch p {
	case PolicyStatus:
		return s.Status == StatusProcessed || (s.Status == StatusActive && old)
	default:
		return old
	}
}

package httpsweep

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/jose-valero/signals-janitor/internal/app/service"
)

// isoMillis imita Date.toISOString (UTC, milisegundos, sufijo Z).
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

var corsHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Headers": "authorization, x-client-info, apikey, content-type",
}

// Lo implementa service.SweepService
type Sweeper interface {
	Run(ctx context.Context) (service.Result, error)
	Now() time.Time
}

type successBody struct {
	Success   bool   `json:"success"`
	Deleted   int    `json:"deleted"`
	Before    *int64 `json:"before,omitempty"`
	After     *int64 `json:"after,omitempty"`
	Threshold string `json:"threshold"`
	Policy    string `json:"policy"`
	RunID     string `json:"runId"`
	Timestamp string `json:"timestamp"`
}

type failureBody struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Deleted   int    `json:"deleted,omitempty"` // solo si el DELETE corrió antes del fallo
	Timestamp string `json:"timestamp"`
}

// Response es la respuesta independiente del transporte.
type Response struct {
	Status  int
	Headers map[string]string
	Body    string
}

type Handler struct {
	svc Sweeper
}

func NewHandler(svc Sweeper) *Handler { return &Handler{svc: svc} }

// Handle: OPTIONS responde el preflight; cualquier otro método corre el sweep.
func (h *Handler) Handle(ctx context.Context, method string) (resp Response) {
	if method == http.MethodOptions {
		return Response{Status: http.StatusOK, Headers: headers(false), Body: "ok"}
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("[cleanup] unexpected error: %v\n%s", r, debug.Stack())
			resp = h.failure(fmt.Sprintf("unexpected error: %v", r), 0)
		}
	}()

	res, err := h.svc.Run(ctx)
	if err != nil {
		log.Printf("[cleanup] fatal error: %v", err)
		return h.failure(err.Error(), res.Deleted)
	}

	body, err := json.Marshal(successBody{
		Success:   true,
		Deleted:   res.Deleted,
		Before:    res.Before,
		After:     res.After,
		Threshold: iso(res.Threshold),
		Policy:    string(res.Policy),
		RunID:     res.RunID,
		Timestamp: iso(finishedAt(res, h.svc)),
	})
	if err != nil {
		log.Printf("[cleanup] marshal response: %v", err)
		return h.failure("failed to encode response", res.Deleted)
	}
	return Response{Status: http.StatusOK, Headers: headers(true), Body: string(body)}
}

func (h *Handler) failure(msg string, deleted int) Response {
	if msg == "" {
		msg = "Unknown error"
	}
	body, err := json.Marshal(failureBody{Success: false, Error: msg, Deleted: deleted, Timestamp: iso(h.svc.Now())})
	if err != nil {
		body = []byte(`{"success":false,"error":"Unknown error"}`)
	}
	return Response{Status: http.StatusInternalServerError, Headers: headers(true), Body: string(body)}
}

func headers(jsonBody bool) map[string]string {
	h := make(map[string]string, len(corsHeaders)+1)
	for k, v := range corsHeaders {
		h[k] = v
	}
	if jsonBody {
		h["Content-Type"] = "application/json"
	}
	return h
}

func iso(t time.Time) string { return t.UTC().Format(isoMillis) }

func finishedAt(res service.Result, svc Sweeper) time.Time {
	if res.FinishedAt.IsZero() {
		return svc.Now()
	}
	return res.FinishedAt
}

package httpsweep

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jose-valero/signals-janitor/internal/app/service"
	"github.com/jose-valero/signals-janitor/internal/domain"
)

type stubSweeper struct {
	res   service.Result
	err   error
	panic bool
	calls int
}

func (s *stubSweeper) Run(ctx context.Context) (service.Result, error) {
	s.calls++
	if s.panic {
		panic("nil map write")
	}
	return s.res, s.err
}

func (s *stubSweeper) Now() time.Time {
	return time.Date(2026, 3, 1, 10, 0, 1, 500_000_000, time.UTC)
}

func okResult() service.Result {
	before, after := int64(5), int64(3)
	return service.Result{
		RunID:      "run-1",
		Policy:     domain.PolicyAge,
		Threshold:  time.Date(2026, 3, 1, 9, 58, 0, 0, time.UTC),
		DeletedIDs: []string{"a", "b"},
		Deleted:    2,
		Before:     &before,
		After:      &after,
		FinishedAt: time.Date(2026, 3, 1, 10, 0, 2, 250_000_000, time.UTC),
	}
}

func decode(t *testing.T, body string) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(body), &m); err != nil {
		t.Fatalf("invalid json %q: %v", body, err)
	}
	return m
}

func TestHandle_Options(t *testing.T) {
	sw := &stubSweeper{}
	resp := NewHandler(sw).Handle(context.Background(), http.MethodOptions)

	if resp.Status != http.StatusOK || resp.Body != "ok" {
		t.Errorf("OPTIONS = %d %q, want 200 ok", resp.Status, resp.Body)
	}
	if resp.Headers["Access-Control-Allow-Origin"] != "*" {
		t.Errorf("missing allow-origin header: %v", resp.Headers)
	}
	if sw.calls != 0 {
		t.Errorf("OPTIONS ran the sweep")
	}
}

func TestHandle_Success(t *testing.T) {
	for _, method := range []string{http.MethodPost, http.MethodGet, ""} {
		sw := &stubSweeper{res: okResult()}
		resp := NewHandler(sw).Handle(context.Background(), method)

		if resp.Status != http.StatusOK {
			t.Fatalf("%q: status = %d, want 200", method, resp.Status)
		}
		if resp.Headers["Content-Type"] != "application/json" {
			t.Errorf("%q: content-type = %q", method, resp.Headers["Content-Type"])
		}
		m := decode(t, resp.Body)
		if m["success"] != true || m["deleted"] != float64(2) {
			t.Errorf("%q: body = %v", method, m)
		}
		if m["before"] != float64(5) || m["after"] != float64(3) {
			t.Errorf("%q: before/after = %v/%v", method, m["before"], m["after"])
		}
		if m["threshold"] != "2026-03-01T09:58:00.000Z" {
			t.Errorf("%q: threshold = %v", method, m["threshold"])
		}
		if m["timestamp"] != "2026-03-01T10:00:02.250Z" {
			t.Errorf("%q: timestamp = %v", method, m["timestamp"])
		}
		if m["policy"] != "age" || m["runId"] != "run-1" {
			t.Errorf("%q: policy/runId = %v/%v", method, m["policy"], m["runId"])
		}
	}
}

func TestHandle_SuccessWithoutCounts(t *testing.T) {
	res := okResult()
	res.Before, res.After = nil, nil
	res.FinishedAt = time.Time{}
	resp := NewHandler(&stubSweeper{res: res}).Handle(context.Background(), http.MethodPost)
	m := decode(t, resp.Body)
	if _, ok := m["before"]; ok {
		t.Errorf("before should be omitted: %v", m)
	}
	if _, ok := m["after"]; ok {
		t.Errorf("after should be omitted: %v", m)
	}
	if m["timestamp"] != "2026-03-01T10:00:01.500Z" {
		t.Errorf("timestamp = %v, want the service clock", m["timestamp"])
	}
}

func TestHandle_StoreFailure(t *testing.T) {
	sw := &stubSweeper{err: &service.StoreError{Op: "delete", Err: errors.New("connection refused")}}
	resp := NewHandler(sw).Handle(context.Background(), http.MethodPost)

	if resp.Status != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.Status)
	}
	m := decode(t, resp.Body)
	if m["success"] != false {
		t.Errorf("success = %v, want false", m["success"])
	}
	msg, _ := m["error"].(string)
	if !strings.Contains(msg, "connection refused") {
		t.Errorf("error = %q", msg)
	}
	if _, ok := m["deleted"]; ok {
		t.Errorf("failure body must not report deletions: %v", m)
	}
	if m["timestamp"] != "2026-03-01T10:00:01.500Z" {
		t.Errorf("timestamp = %v, want the service clock", m["timestamp"])
	}
	if resp.Headers["Access-Control-Allow-Origin"] != "*" {
		t.Errorf("failure without CORS headers")
	}
}

func TestHandle_PanicBecomesUnexpectedError(t *testing.T) {
	resp := NewHandler(&stubSweeper{panic: true}).Handle(context.Background(), http.MethodPost)
	if resp.Status != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.Status)
	}
	m := decode(t, resp.Body)
	if m["success"] != false || !strings.Contains(m["error"].(string), "nil map write") {
		t.Errorf("body = %v", m)
	}
}

func TestHandle_FailureAfterDeleteReportsDeleted(t *testing.T) {
	sw := &stubSweeper{
		res: service.Result{RunID: "run-2", DeletedIDs: []string{"a", "b", "c"}, Deleted: 3},
		err: &service.StoreError{Op: "count", Err: errors.New("count timeout")},
	}
	resp := NewHandler(sw).Handle(context.Background(), http.MethodPost)

	if resp.Status != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.Status)
	}
	m := decode(t, resp.Body)
	if m["success"] != false || m["deleted"] != float64(3) {
		t.Errorf("body = %v, want success=false deleted=3", m)
	}
}

func TestLambda(t *testing.T) {
	h := NewHandler(&stubSweeper{res: okResult()})

	req := events.APIGatewayV2HTTPRequest{RawPath: "/cleanup"}
	req.RequestContext.HTTP.Method = http.MethodOptions
	resp, err := h.Lambda(context.Background(), req)
	if err != nil || resp.StatusCode != http.StatusOK || resp.Body != "ok" {
		t.Fatalf("OPTIONS = %d %q %v", resp.StatusCode, resp.Body, err)
	}

	req.RequestContext.HTTP.Method = http.MethodPost
	resp, err = h.Lambda(context.Background(), req)
	if err != nil {
		t.Fatalf("Lambda() error = %v", err)
	}
	if resp.StatusCode != http.StatusOK || decode(t, resp.Body)["deleted"] != float64(2) {
		t.Errorf("POST = %d %s", resp.StatusCode, resp.Body)
	}

	fail := NewHandler(&stubSweeper{err: errors.New("x")})
	resp, err = fail.Lambda(context.Background(), req)
	if err != nil {
		t.Fatalf("Lambda() must not return errors, got %v", err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", resp.StatusCode)
	}
}

func TestServer_Routes(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{Name: "canary_total", Help: "canary"}))
	srv := NewServer(":0", NewHandler(&stubSweeper{res: okResult()}), reg)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/cleanup", "application/json", nil)
	if err != nil {
		t.Fatalf("POST /cleanup: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || decode(t, string(body))["success"] != true {
		t.Errorf("/cleanup = %d %s", resp.StatusCode, body)
	}

	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/cleanup", nil)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("OPTIONS /cleanup: %v", err)
	}
	resp.Body.Close()
	if resp.Header.Get("Access-Control-Allow-Headers") == "" {
		t.Errorf("preflight without allow-headers")
	}

	resp, err = http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), "canary_total") {
		t.Errorf("/metrics missing registered collector")
	}

	resp, err = http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("/healthz = %d", resp.StatusCode)
	}
}

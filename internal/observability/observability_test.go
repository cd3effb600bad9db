package observability

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/ircbot/ircclient/ircprotocol"
)

func TestRegisterMetricsIsIdempotent(t *testing.T) {
	RegisterMetrics()
	RegisterMetrics()
	NewMetrics()
}

func TestMetricsObserverCounts(t *testing.T) {
	m := NewMetrics()

	bytesBefore := testutil.ToFloat64(transportBytes)
	motdBefore := testutil.ToFloat64(eventsTotal.WithLabelValues("MOTD"))
	carryBefore := testutil.ToFloat64(carryDiscarded)

	m.ChunkReceived(42)
	m.EventClassified(ircprotocol.Classify(":srv 001 bob :Welcome"))
	m.EventClassified(ircprotocol.Classify(":srv 375 bob :- MOTD -"))
	m.CarryDiscarded(7)

	if got := testutil.ToFloat64(transportBytes) - bytesBefore; got != 42 {
		t.Errorf("transport bytes delta = %v", got)
	}
	if got := testutil.ToFloat64(eventsTotal.WithLabelValues("MOTD")) - motdBefore; got != 2 {
		t.Errorf("MOTD events delta = %v", got)
	}
	if got := testutil.ToFloat64(carryDiscarded) - carryBefore; got != 7 {
		t.Errorf("carry discarded delta = %v", got)
	}
}

func TestRecordSinkError(t *testing.T) {
	before := testutil.ToFloat64(sinkErrors.WithLabelValues("redis"))
	RecordSinkError("redis")
	if got := testutil.ToFloat64(sinkErrors.WithLabelValues("redis")) - before; got != 1 {
		t.Errorf("sink errors delta = %v", got)
	}
}

func TestRouterServesMetricsAndHealth(t *testing.T) {
	NewMetrics().ChunkReceived(1)
	r := NewRouter(zerolog.Nop(), nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("/metrics status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ircclient_transport_bytes_total") {
		t.Errorf("/metrics body missing transport counter")
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("/health = %d %s", rec.Code, rec.Body.String())
	}
}

func TestRouterCORS(t *testing.T) {
	r := NewRouter(zerolog.Nop(), []string{"http://dash.local"})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://dash.local")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://dash.local" {
		t.Errorf("allow origin = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.local")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("disallowed origin status = %d", rec.Code)
	}
}

func TestServeStopsOnContextCancel(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := l.Addr().String()
	l.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, addr, nil, zerolog.Nop()) }()

	deadline := time.Now().Add(2 * time.Second)
	for {
		resp, err := http.Get("http://" + addr + "/health")
		if err == nil {
			resp.Body.Close()
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("metrics listener never came up: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

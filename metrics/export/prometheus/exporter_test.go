package prometheus

import (
	"net/http/httptest"
	"strings"
	"testing"

	logiscore "github.com/logiscore/logiscore-go"
)

type fakeSource struct {
	snapshot logiscore.MetricsSnapshot
	dropped  uint64
}

func (f *fakeSource) MetricsSnapshot() logiscore.MetricsSnapshot { return f.snapshot }
func (f *fakeSource) AuditDropped() uint64                       { return f.dropped }

func TestRenderCountersInFixedOrder(t *testing.T) {
	src := &fakeSource{
		snapshot: logiscore.MetricsSnapshot{Counters: map[logiscore.MetricID]uint64{
			logiscore.MetricLoginSuccess:  3,
			logiscore.MetricRefreshFailure: 1,
		}},
		dropped: 2,
	}

	out := NewExporterFromSource(src).Render()

	if !strings.Contains(out, "logiscore_login_success_total 3\n") {
		t.Fatalf("missing login counter in output:\n%s", out)
	}
	if !strings.Contains(out, "logiscore_refresh_failure_total 1\n") {
		t.Fatalf("missing refresh failure counter in output:\n%s", out)
	}
	if !strings.Contains(out, "logiscore_audit_dropped_total 2\n") {
		t.Fatalf("missing dropped counter in output:\n%s", out)
	}
	if !strings.Contains(out, "# TYPE logiscore_logout_total counter") {
		t.Fatalf("missing TYPE line for zero-valued counter:\n%s", out)
	}

	login := strings.Index(out, "logiscore_login_success_total")
	logout := strings.Index(out, "logiscore_logout_total")
	if login == -1 || logout == -1 || login > logout {
		t.Fatal("counters not rendered in definition order")
	}
}

func TestHandlerServesExposition(t *testing.T) {
	src := &fakeSource{snapshot: logiscore.MetricsSnapshot{Counters: map[logiscore.MetricID]uint64{}}}
	srv := httptest.NewServer(NewExporterFromSource(src).Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("scrape failed: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("unexpected content type %q", ct)
	}
}

func TestNilExporterRendersEmpty(t *testing.T) {
	var e *Exporter
	if e.Render() != "" {
		t.Fatal("nil exporter must render empty output")
	}
}

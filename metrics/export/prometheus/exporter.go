package prometheus

import (
	"net/http"
	"strconv"
	"strings"

	logiscore "github.com/logiscore/logiscore-go"
)

type metricsSource interface {
	MetricsSnapshot() logiscore.MetricsSnapshot
	AuditDropped() uint64
}

type counterDef struct {
	ID   logiscore.MetricID
	Name string
	Help string
}

// counterDefs fixes the exposition order so scrapes are diffable.
var counterDefs = []counterDef{
	{logiscore.MetricLoginSuccess, "logiscore_login_success_total", "Successful password and code sign-ins."},
	{logiscore.MetricLoginFailure, "logiscore_login_failure_total", "Rejected sign-in attempts."},
	{logiscore.MetricSignupSuccess, "logiscore_signup_success_total", "Successful registrations."},
	{logiscore.MetricSignupFailure, "logiscore_signup_failure_total", "Rejected registrations."},
	{logiscore.MetricCodeRequested, "logiscore_code_requested_total", "One-time email code requests."},
	{logiscore.MetricCodeVerifyFailure, "logiscore_code_verify_failure_total", "Rejected one-time code exchanges."},
	{logiscore.MetricRefreshSuccess, "logiscore_refresh_success_total", "Successful token refreshes."},
	{logiscore.MetricRefreshFailure, "logiscore_refresh_failure_total", "Failed token refreshes."},
	{logiscore.MetricCurrentUserSuccess, "logiscore_current_user_success_total", "Successful identity fetches."},
	{logiscore.MetricCurrentUserFailure, "logiscore_current_user_failure_total", "Identity fetches that cleared the session."},
	{logiscore.MetricNetworkPreserved, "logiscore_network_preserved_total", "Sessions preserved across transport failures."},
	{logiscore.MetricHydrateSuccess, "logiscore_hydrate_success_total", "Sessions recovered from durable storage."},
	{logiscore.MetricHydrateFailure, "logiscore_hydrate_failure_total", "Stored sessions that could not be recovered."},
	{logiscore.MetricIdlePromptShown, "logiscore_idle_prompt_shown_total", "Inactivity prompts shown."},
	{logiscore.MetricIdleTimeout, "logiscore_idle_timeout_total", "Sessions ended by an unanswered inactivity prompt."},
	{logiscore.MetricSessionExtended, "logiscore_session_extended_total", "Inactivity prompts answered with an extension."},
	{logiscore.MetricSweepRefresh, "logiscore_sweep_refresh_total", "Token refreshes triggered by the background sweep."},
	{logiscore.MetricLogout, "logiscore_logout_total", "Logouts, explicit or forced."},
}

// Exporter renders session metrics in Prometheus text exposition format.
type Exporter struct {
	source metricsSource
}

// NewExporter creates an Exporter reading from the given [logiscore.Manager].
func NewExporter(manager *logiscore.Manager) *Exporter {
	return &Exporter{source: manager}
}

// NewExporterFromSource creates an Exporter from a custom metrics source.
func NewExporterFromSource(source metricsSource) *Exporter {
	return &Exporter{source: source}
}

// Handler returns an http.Handler that serves the current metrics.
func (e *Exporter) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		_, _ = w.Write([]byte(e.Render()))
	})
}

// Render writes the current counters in Prometheus text exposition format.
func (e *Exporter) Render() string {
	if e == nil || e.source == nil {
		return ""
	}

	snapshot := e.source.MetricsSnapshot()

	var b strings.Builder
	b.Grow(4096)

	for _, def := range counterDefs {
		writeCounter(&b, def.Name, def.Help, snapshot.Counters[def.ID])
	}
	writeCounter(&b, "logiscore_audit_dropped_total",
		"Dropped audit events due to dispatcher backpressure.", e.source.AuditDropped())

	return b.String()
}

func writeCounter(b *strings.Builder, name, help string, value uint64) {
	b.WriteString("# HELP ")
	b.WriteString(name)
	b.WriteByte(' ')
	b.WriteString(escapeHelp(help))
	b.WriteByte('\n')
	b.WriteString("# TYPE ")
	b.WriteString(name)
	b.WriteString(" counter\n")
	b.WriteString(name)
	b.WriteByte(' ')
	b.WriteString(strconv.FormatUint(value, 10))
	b.WriteByte('\n')
}

func escapeHelp(help string) string {
	help = strings.ReplaceAll(help, `\`, `\\`)
	return strings.ReplaceAll(help, "\n", `\n`)
}

package health

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"sort"
)

type dashboardRow struct {
	Label string
	Value string
	OK    bool
}

type dashboardView struct {
	Headline     string
	Healthy      bool
	Traffic      []dashboardRow
	Runtime      []dashboardRow
	Dependencies []dashboardRow
	Ledger       []dashboardRow
	LastRequest  string
	Payload      template.JS
}

var dashboardTmpl = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>RWA Ledger · API Status</title>
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <style>
    :root { --ink: #14213d; --muted: #64748b; --ok: #0f766e; --err: #dc2626; --bg: #f8fafc; }
    body { background: var(--bg); color: var(--ink); font-family: system-ui, sans-serif; margin: 0; padding: 40px 20px; }
    .container { max-width: 1100px; margin: 0 auto; }
    h1 { font-size: 44px; font-weight: 900; letter-spacing: -2px; margin: 0 0 8px; }
    h1.issue { color: var(--err); }
    .sub { color: var(--muted); font-weight: 600; margin-bottom: 28px; }
    .grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(240px, 1fr)); gap: 16px; }
    .card { background: #fff; border-radius: 18px; padding: 24px; box-shadow: 0 10px 40px -20px rgba(20,33,61,0.25); }
    .label { text-transform: uppercase; font-size: 11px; font-weight: 900; letter-spacing: 2px; color: #94a3b8; margin-bottom: 16px; }
    .row { display: flex; justify-content: space-between; padding: 6px 0; border-bottom: 1px solid #f1f5f9; font-size: 14px; font-weight: 600; }
    .row:last-child { border-bottom: none; }
    .ok { color: var(--ok); }
    .err { color: var(--err); }
    .footer { margin-top: 20px; font-family: monospace; font-size: 13px; color: var(--muted); }
  </style>
</head>
<body>
  <div class="container">
    <h1 id="headline" class="{{if not .Healthy}}issue{{end}}">{{.Headline}}</h1>
    <p class="sub">Permissioned ledger and lease escrow · live from <a href="/health/json">/health/json</a> · <a href="/health/errors">/health/errors</a></p>
    <div class="grid">
      <div class="card"><div class="label">Traffic</div>{{range .Traffic}}<div class="row"><span>{{.Label}}</span><span>{{.Value}}</span></div>{{end}}</div>
      <div class="card"><div class="label">Runtime</div>{{range .Runtime}}<div class="row"><span>{{.Label}}</span><span>{{.Value}}</span></div>{{end}}</div>
      <div class="card"><div class="label">Connectivity</div>{{range .Dependencies}}<div class="row"><span>{{.Label}}</span><span class="{{if .OK}}ok{{else}}err{{end}}">{{.Value}}</span></div>{{end}}</div>
      {{if .Ledger}}<div class="card"><div class="label">Ledger</div>{{range .Ledger}}<div class="row"><span>{{.Label}}</span><span class="{{if .OK}}ok{{else}}err{{end}}">{{.Value}}</span></div>{{end}}</div>{{end}}
    </div>
    <div class="footer">Last inbound: {{.LastRequest}}</div>
  </div>
  <script>
    const initial = {{.Payload}};
    async function tick() {
      try {
        const r = await fetch('/health/json');
        const d = await r.json();
        const hl = document.getElementById('headline');
        hl.innerText = d.status === 'ok' ? 'All Systems Operational' : 'System Issues Detected';
        hl.className = d.status === 'ok' ? '' : 'issue';
      } catch (e) {}
    }
    if (initial.status) { setInterval(tick, 15000); }
  </script>
</body>
</html>`))

// RenderDashboardHTML returns the HTML status page for GET /.
func RenderDashboardHTML(health CollectResult) string {
	payload, _ := json.Marshal(health)
	view := dashboardView{
		Headline:    "All Systems Operational",
		Healthy:     health.Status == "ok",
		Payload:     template.JS(payload),
		LastRequest: "-",
		Traffic: []dashboardRow{
			{Label: "Total requests", Value: fmt.Sprint(health.Traffic.TotalRequests)},
			{Label: "Successful", Value: fmt.Sprint(health.Traffic.SuccessCount)},
			{Label: "Failed", Value: fmt.Sprint(health.Traffic.FailedCount)},
			{Label: "Success rate", Value: health.Traffic.SuccessRate + "%"},
			{Label: "Avg latency", Value: fmt.Sprint(health.Traffic.AvgResponseTime) + "ms"},
		},
		Runtime: []dashboardRow{
			{Label: "Uptime", Value: fmt.Sprintf("%ds", health.Runtime.UptimeSeconds)},
			{Label: "Heap used", Value: fmt.Sprintf("%d MB", health.Runtime.Memory.HeapUsed)},
			{Label: "Goroutines", Value: fmt.Sprint(health.Runtime.Goroutines)},
			{Label: "Platform", Value: health.Runtime.Platform},
		},
	}
	if !view.Healthy {
		view.Headline = "System Issues Detected"
	}

	names := make([]string, 0, len(health.Dependencies))
	for name := range health.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		dep := health.Dependencies[name]
		value := dep.Status
		if ms, ok := dep.PingMs.(*int64); ok && ms != nil {
			value = fmt.Sprintf("%s · %d ms", dep.Status, *ms)
		}
		view.Dependencies = append(view.Dependencies, dashboardRow{Label: name, Value: value, OK: dep.Status == "connected"})
	}

	if l := health.Ledger; l != nil {
		view.Ledger = []dashboardRow{
			{Label: "Assets", Value: fmt.Sprint(l.Assets), OK: true},
			{Label: "Active leases", Value: fmt.Sprint(l.Leases["Active"]), OK: true},
			{Label: "Escrow balance", Value: fmt.Sprint(l.EscrowBalance), OK: true},
			{Label: "Expired, not swept", Value: fmt.Sprint(l.ExpiredUnswept), OK: l.ExpiredUnswept == 0},
			{Label: "Holder sync failures", Value: fmt.Sprint(l.HolderSyncFailed), OK: l.HolderSyncFailed == 0},
		}
	}

	if m, ok := health.Traffic.LastRequest.(map[string]interface{}); ok {
		view.LastRequest = fmt.Sprintf("%v %v from %v", m["method"], m["path"], m["ip"])
	}

	var buf bytes.Buffer
	if err := dashboardTmpl.Execute(&buf, view); err != nil {
		return "<!DOCTYPE html><html><body>" + template.HTMLEscapeString(err.Error()) + "</body></html>"
	}
	return buf.String()
}

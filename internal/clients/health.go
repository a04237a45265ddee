package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	probeTimeout = 2 * time.Second
	maxProbeBody = 4 << 10
)

// Probe outcomes reported per upstream.
const (
	ProbeUp       = "up"
	ProbeDegraded = "degraded"
	ProbeDown     = "down"
)

type HealthProbe struct {
	Name   string
	Client *Client
	Path   string
}

type HealthResult struct {
	Name       string `json:"name"`
	OK         bool   `json:"ok"`
	Status     string `json:"status"`
	StatusCode int    `json:"statusCode,omitempty"`
	LatencyMS  int64  `json:"latencyMs"`
	Error      string `json:"error,omitempty"`
}

// CheckHealth calls the probe path. A 2xx whose JSON body reports a status
// other than ok/healthy/up/pass counts as degraded.
func CheckHealth(ctx context.Context, probe HealthProbe) HealthResult {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	res := HealthResult{Name: probe.Name, Status: ProbeDown}
	start := time.Now()
	resp, err := probe.Client.Raw(ctx, http.MethodGet, probe.Path)
	res.LatencyMS = time.Since(start).Milliseconds()
	if err != nil {
		res.Error = err.Error()
		return res
	}
	defer resp.Body.Close()

	res.StatusCode = resp.StatusCode
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		res.Error = http.StatusText(resp.StatusCode)
		return res
	}

	if reported := reportedStatus(resp.Body); reported != "" && !healthyStatus(reported) {
		res.Status = ProbeDegraded
		res.Error = fmt.Sprintf("reported %q", reported)
		return res
	}
	res.OK = true
	res.Status = ProbeUp
	return res
}

// reportedStatus reads {"status": "..."} from a health body; empty when the
// body has no such field.
func reportedStatus(body io.Reader) string {
	var payload struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(io.LimitReader(body, maxProbeBody)).Decode(&payload); err != nil {
		return ""
	}
	return strings.TrimSpace(payload.Status)
}

func healthyStatus(s string) bool {
	switch strings.ToLower(s) {
	case "ok", "healthy", "up", "pass":
		return true
	}
	return false
}

package visit

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/require"

	"linkbio/internal/domain"
	"linkbio/internal/model"
	"linkbio/internal/telegram"
)

func containsAll(s string, parts ...string) bool {
	for _, p := range parts {
		if !strings.Contains(s, p) {
			return false
		}
	}
	return true
}

func TestRenderPreambleEscapesValues(t *testing.T) {
	p := model.VisitorProfile{
		IP:    "1.2.3.4",
		Geo:   model.GeoInfo{City: "<script>", ISP: "A&B", Proxy: true},
		Agent: model.AgentInfo{OS: "Linux", Bot: true},
	}
	out := renderPreamble(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), p)

	require.Contains(t, out, "Time: 2025-01-02 03:04:05")
	require.Contains(t, out, "City: &lt;script&gt;")
	require.Contains(t, out, "ISP: A&amp;B")
	require.Contains(t, out, "Country: "+domain.Unknown)
	require.Contains(t, out, "Proxy/VPN: likely")
	require.Contains(t, out, "Bot: yes")
	require.NotContains(t, out, "<script>")
}

func TestFormatHelpers(t *testing.T) {
	require.Equal(t, "1920x1080 @1x", formatScreen(1920, 1080, 0))
	require.Equal(t, "390x844 @2.5x", formatScreen(390, 844, 2.5))

	level, charging := 1.0, false
	require.Equal(t, "100% (not charging)", formatBattery(&level, &charging))
	require.Equal(t, domain.Unknown, formatBattery(nil, &charging))

	require.Equal(t, "8 GB", withUnit("8", "GB"))
	require.Equal(t, "Unknown", withUnit("Unknown", "GB"))

	yes := true
	require.Equal(t, "localStorage ✓, sessionStorage ?, IndexedDB ?, quota 10 MB",
		formatStorage(&model.Storage{LocalStorage: &yes, QuotaMB: "10"}))
}

func TestRenderDeviceReportMinimal(t *testing.T) {
	out := renderDeviceReport("", &model.Telemetry{Fingerprint: "abc"})
	require.Contains(t, out, "Fingerprint: <code>abc</code>")
	require.Contains(t, out, "Battery: "+domain.Unknown)
	require.NotContains(t, out, "Screen:")
	require.NotContains(t, out, "WebGL:")
}

func TestRenderDeviceReportClipsLongValues(t *testing.T) {
	canvas := "data:image/png;base64," + strings.Repeat("iVBORw0KGgo&", 500)
	out := renderDeviceReport("", &model.Telemetry{
		Fingerprint: "fp",
		Enhanced:    &model.EnhancedData{CanvasFingerprint: canvas, Connection: "4g\n<b>"},
	})

	require.Less(t, utf8.RuneCountInString(out), telegram.MaxMessageLength)
	require.Equal(t, strings.Count(out, "<code>"), strings.Count(out, "</code>"))
	require.Contains(t, out, "…</code>")
	require.NotContains(t, out, "&am…")
	require.Contains(t, out, "Connection: 4g &lt;b&gt;")

	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		require.Equal(t, strings.Count(line, "<code>"), strings.Count(line, "</code>"), line)
	}
}

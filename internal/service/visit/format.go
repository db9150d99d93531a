package visit

import (
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"linkbio/internal/domain"
	"linkbio/internal/model"
	"linkbio/internal/telegram"
)

const timeLayout = "2006-01-02 15:04:05"

// maxValueRunes caps one interpolated value; canvas fingerprints arrive as
// multi-KB data URLs.
const maxValueRunes = 256

type lines struct {
	b strings.Builder
}

// add writes one "label: value" line with value escaped for Telegram HTML.
func (l *lines) add(icon, label, value string) {
	if strings.TrimSpace(value) == "" {
		value = domain.Unknown
	}
	fmt.Fprintf(&l.b, "%s %s: %s\n", icon, label, escapeValue(value))
}

func (l *lines) code(icon, label, value string) {
	if strings.TrimSpace(value) == "" {
		l.add(icon, label, value)
		return
	}
	fmt.Fprintf(&l.b, "%s %s: <code>%s</code>\n", icon, label, escapeValue(value))
}

// escapeValue clips before escaping so no entity is cut, and folds newlines
// so every rendered line stays self-contained.
func escapeValue(v string) string {
	v = strings.ReplaceAll(v, "\n", " ")
	return html.EscapeString(telegram.Truncate(v, maxValueRunes))
}

func (l *lines) raw(s string) {
	l.b.WriteString(s)
}

func (l *lines) String() string {
	return l.b.String()
}

// renderPreamble is the identity block shared by the visit notification and
// the device report.
func renderPreamble(at time.Time, p model.VisitorProfile) string {
	var l lines
	l.add("🕒", "Time", at.Format(timeLayout))
	l.code("📡", "IP", p.IP)
	l.add("🌍", "Country", p.Geo.Country)
	l.add("🏙️", "City", p.Geo.City)
	l.add("🛜", "ISP", p.Geo.ISP)
	if p.Geo.Org != "" && p.Geo.Org != p.Geo.ISP && p.Geo.Org != domain.Unknown {
		l.add("🏢", "Org", p.Geo.Org)
	}
	if p.Geo.Proxy || p.Geo.Hosting {
		l.add("🛡", "Proxy/VPN", "likely")
	}
	l.add("🖥", "OS", p.Agent.OS)
	l.add("📱", "Device", p.Agent.Device)
	l.add("⚙️", "CPU", p.Agent.CPU)
	l.add("🌐", "Browser", p.Agent.Browser)
	if p.Agent.Bot {
		l.add("🤖", "Bot", "yes")
	}
	return l.String()
}

func renderVisit(preamble, page string, screen *model.ScreenRecord) string {
	var l lines
	l.raw("<b>🔔 New visitor</b>\n")
	l.raw(preamble)
	l.add("📍", "Page", page)
	if screen != nil {
		l.add("🖼", "Screen", formatScreen(screen.Width, screen.Height, screen.Scale))
	}
	return l.String()
}

func renderDeviceReport(preamble string, t *model.Telemetry) string {
	var l lines
	l.raw("<b>📊 Device report</b>\n")
	l.raw(preamble)

	if t.HasScreen() {
		scale := 1.0
		if t.Scale != nil {
			scale = *t.Scale
		}
		l.add("🖼", "Screen", formatScreen(*t.Width, *t.Height, scale))
	}
	if t.WebGLVendor != "" || t.WebGLRenderer != "" {
		l.add("🎮", "WebGL", orUnknown(t.WebGLVendor)+" / "+orUnknown(t.WebGLRenderer))
	}
	l.add("🧠", "CPU threads", t.HardwareConcurrency.String())
	l.add("💾", "Memory", withUnit(t.DeviceMemory.String(), "GB"))
	l.add("💻", "Platform", t.Platform)
	l.add("🕰", "Timezone", t.Timezone)
	l.add("🗣", "Language", t.Language)
	l.add("🔋", "Battery", formatBattery(t.BatteryLevel, t.BatteryCharging))
	if t.Plugins != "" {
		l.add("🧩", "Plugins", t.Plugins)
	}
	l.code("🆔", "Fingerprint", t.Fingerprint)

	if e := t.Enhanced; e != nil {
		if e.ColorDepth != "" {
			l.add("🎨", "Color depth", withUnit(e.ColorDepth.String(), "bit"))
		}
		if e.MaxTouchPoints != "" {
			l.add("👆", "Touch points", e.MaxTouchPoints.String())
		}
		if e.CookiesEnabled != nil {
			l.add("🍪", "Cookies", yesNo(*e.CookiesEnabled))
		}
		if e.DoNotTrack != "" {
			l.add("🚫", "Do Not Track", e.DoNotTrack.String())
		}
		if e.Connection != "" {
			conn := e.Connection
			if e.Downlink != "" {
				conn += " (" + e.Downlink.String() + " Mbps)"
			}
			l.add("📶", "Connection", conn)
		}
		if e.Storage != nil {
			l.add("🗄", "Storage", formatStorage(e.Storage))
		}
		if e.AudioFingerprint != "" {
			l.code("🔊", "Audio fingerprint", e.AudioFingerprint)
		}
		if e.CanvasFingerprint != "" {
			l.code("🖌", "Canvas fingerprint", e.CanvasFingerprint)
		}
		if e.JSHeapLimitMB != "" {
			l.add("📈", "JS heap limit", withUnit(e.JSHeapLimitMB.String(), "MB"))
		}
	}
	return l.String()
}

func formatScreen(width, height int, scale float64) string {
	if scale <= 0 {
		scale = 1
	}
	return fmt.Sprintf("%dx%d @%sx", width, height, strconv.FormatFloat(scale, 'f', -1, 64))
}

func formatBattery(level *float64, charging *bool) string {
	if level == nil {
		return domain.Unknown
	}
	s := fmt.Sprintf("%.0f%%", *level*100)
	if charging != nil {
		if *charging {
			s += " (charging)"
		} else {
			s += " (not charging)"
		}
	}
	return s
}

func formatStorage(s *model.Storage) string {
	parts := []string{
		"localStorage " + flag(s.LocalStorage),
		"sessionStorage " + flag(s.SessionStorage),
		"IndexedDB " + flag(s.IndexedDB),
	}
	if s.QuotaMB != "" {
		parts = append(parts, "quota "+s.QuotaMB.String()+" MB")
	}
	return strings.Join(parts, ", ")
}

func flag(b *bool) string {
	switch {
	case b == nil:
		return "?"
	case *b:
		return "✓"
	default:
		return "✗"
	}
}

func yesNo(b bool) string {
	if b {
		return "enabled"
	}
	return "disabled"
}

// withUnit appends unit to numeric values only, leaving placeholders as is.
func withUnit(v, unit string) string {
	if _, err := strconv.ParseFloat(v, 64); err != nil {
		return v
	}
	return v + " " + unit
}

func orUnknown(v string) string {
	if v == "" {
		return domain.Unknown
	}
	return v
}

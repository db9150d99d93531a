package enrich

import (
	"regexp"
	"strings"

	"linkbio/internal/domain"
	"linkbio/internal/model"
)

// automation and crawler markers, matched case-insensitively
var botPatterns = []string{
	"crawler",
	"spider",
	"scraper",
	"curl",
	"wget",
	"httpie",
	"python-requests",
	"python-urllib",
	"go-http-client",
	"node-fetch",
	"axios",
	"libwww",
	"okhttp",
	"apache-httpclient",
	"headless",
	"phantomjs",
	"selenium",
	"puppeteer",
	"playwright",
	"scrapy",
	"httrack",
	"facebookexternalhit",
}

// botTokenRe matches "bot" as a crawler name suffix (Googlebot/2.1,
// Slackbot-LinkExpanding, TwitterBot)) or a standalone word, but not device
// names such as CUBOT_X30.
var botTokenRe = regexp.MustCompile(`bot[/;)-]|\bbot\b|bot$`)

var (
	androidVersionRe = regexp.MustCompile(`android (\d+(?:\.\d+)?)`)
	iosVersionRe     = regexp.MustCompile(`os (\d+)[_.](\d+)`)
	macVersionRe     = regexp.MustCompile(`mac os x (\d+)[_.](\d+)`)
	androidModelRe   = regexp.MustCompile(`(?i)android [^;)]*;\s*([^;)]+?)(?:\s+build/[^;)]*)?[;)]`)
)

// browser tokens in priority order; Chromium derivatives must precede Chrome
var browserTokens = []struct {
	token string
	name  string
}{
	{"edg/", "Edge"},
	{"edga/", "Edge"},
	{"edgios/", "Edge"},
	{"opr/", "Opera"},
	{"yabrowser/", "Yandex Browser"},
	{"samsungbrowser/", "Samsung Internet"},
	{"vivaldi/", "Vivaldi"},
	{"firefox/", "Firefox"},
	{"fxios/", "Firefox"},
	{"crios/", "Chrome"},
	{"chrome/", "Chrome"},
}

// ParseUserAgent extracts coarse OS, device, CPU and browser information
// from a User-Agent header using substring heuristics.
func ParseUserAgent(ua string) model.AgentInfo {
	if strings.TrimSpace(ua) == "" {
		return model.AgentInfo{OS: domain.Unknown, Device: domain.Unknown, CPU: domain.Unknown, Browser: domain.Unknown}
	}
	lower := strings.ToLower(ua)
	info := model.AgentInfo{
		OS:      detectOS(lower),
		Device:  detectDevice(ua, lower),
		CPU:     detectCPU(lower),
		Browser: BrowserName(ua),
		Bot:     IsBot(ua),
	}
	if info.Bot && info.Device == domain.Unknown {
		info.Device = "Bot"
	}
	return info
}

func IsBot(ua string) bool {
	lower := strings.ToLower(ua)
	if botTokenRe.MatchString(lower) {
		return true
	}
	for _, p := range botPatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// BrowserName returns the browser family with its major version, e.g.
// "Chrome 120".
func BrowserName(ua string) string {
	lower := strings.ToLower(ua)
	for _, b := range browserTokens {
		if idx := strings.Index(lower, b.token); idx >= 0 {
			return withMajor(b.name, lower[idx+len(b.token):])
		}
	}
	if strings.Contains(lower, "safari/") {
		if idx := strings.Index(lower, "version/"); idx >= 0 {
			return withMajor("Safari", lower[idx+len("version/"):])
		}
		return "Safari"
	}
	if strings.Contains(lower, "trident/") || strings.Contains(lower, "msie ") {
		return "Internet Explorer"
	}
	return domain.Unknown
}

func withMajor(name, rest string) string {
	end := 0
	for end < len(rest) && rest[end] >= '0' && rest[end] <= '9' {
		end++
	}
	if end == 0 {
		return name
	}
	return name + " " + rest[:end]
}

func detectOS(lower string) string {
	switch {
	case strings.Contains(lower, "windows nt 10.0"):
		return "Windows 10/11"
	case strings.Contains(lower, "windows nt 6.3"):
		return "Windows 8.1"
	case strings.Contains(lower, "windows nt 6.2"):
		return "Windows 8"
	case strings.Contains(lower, "windows nt 6.1"):
		return "Windows 7"
	case strings.Contains(lower, "windows"):
		return "Windows"
	case strings.Contains(lower, "android"):
		if m := androidVersionRe.FindStringSubmatch(lower); m != nil {
			return "Android " + m[1]
		}
		return "Android"
	case strings.Contains(lower, "iphone"), strings.Contains(lower, "ipad"), strings.Contains(lower, "ipod"):
		if m := iosVersionRe.FindStringSubmatch(lower); m != nil {
			return "iOS " + m[1] + "." + m[2]
		}
		return "iOS"
	case strings.Contains(lower, "cros "):
		return "ChromeOS"
	case strings.Contains(lower, "mac os x"):
		if m := macVersionRe.FindStringSubmatch(lower); m != nil {
			return "macOS " + m[1] + "." + m[2]
		}
		return "macOS"
	case strings.Contains(lower, "linux"):
		return "Linux"
	default:
		return domain.Unknown
	}
}

func detectDevice(ua, lower string) string {
	switch {
	case strings.Contains(lower, "iphone"):
		return "iPhone"
	case strings.Contains(lower, "ipad"):
		return "iPad"
	case strings.Contains(lower, "ipod"):
		return "iPod"
	case strings.Contains(lower, "android"):
		kind := "Tablet"
		if strings.Contains(lower, "mobile") {
			kind = "Phone"
		}
		if m := androidModelRe.FindStringSubmatch(ua); m != nil {
			name := strings.TrimSpace(m[1])
			// reduced user agents report a single "K"
			if name != "" && name != "K" {
				return kind + " (" + name + ")"
			}
		}
		return kind
	case strings.Contains(lower, "windows"), strings.Contains(lower, "mac os x"),
		strings.Contains(lower, "cros "), strings.Contains(lower, "x11"):
		return "Desktop"
	default:
		return domain.Unknown
	}
}

func detectCPU(lower string) string {
	switch {
	case strings.Contains(lower, "arm64"), strings.Contains(lower, "aarch64"):
		return "ARM64"
	case strings.Contains(lower, "x86_64"), strings.Contains(lower, "win64"),
		strings.Contains(lower, "x64"), strings.Contains(lower, "amd64"), strings.Contains(lower, "wow64"):
		return "x86-64"
	case strings.Contains(lower, "i686"), strings.Contains(lower, "i386"):
		return "x86"
	case strings.Contains(lower, "armv7"), strings.Contains(lower, "armv8"), strings.Contains(lower, "arm;"):
		return "ARM"
	case strings.Contains(lower, "iphone"), strings.Contains(lower, "ipad"), strings.Contains(lower, "android"):
		return "ARM"
	case strings.Contains(lower, "intel mac os x"):
		return "Intel or Apple Silicon"
	default:
		return domain.Unknown
	}
}

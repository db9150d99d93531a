package enrich

import (
	"testing"

	"github.com/stretchr/testify/require"

	"linkbio/internal/domain"
)

func TestParseUserAgent(t *testing.T) {
	cases := []struct {
		name    string
		ua      string
		os      string
		device  string
		cpu     string
		browser string
		bot     bool
	}{
		{
			name:    "windows chrome",
			ua:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			os:      "Windows 10/11",
			device:  "Desktop",
			cpu:     "x86-64",
			browser: "Chrome 120",
		},
		{
			name:    "windows edge",
			ua:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36 Edg/120.0.2210.91",
			os:      "Windows 10/11",
			device:  "Desktop",
			cpu:     "x86-64",
			browser: "Edge 120",
		},
		{
			name:    "iphone safari",
			ua:      "Mozilla/5.0 (iPhone; CPU iPhone OS 17_2 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.2 Mobile/15E148 Safari/604.1",
			os:      "iOS 17.2",
			device:  "iPhone",
			cpu:     "ARM",
			browser: "Safari 17",
		},
		{
			name:    "android samsung",
			ua:      "Mozilla/5.0 (Linux; Android 13; SM-S918B) AppleWebKit/537.36 (KHTML, like Gecko) SamsungBrowser/23.0 Chrome/115.0.0.0 Mobile Safari/537.36",
			os:      "Android 13",
			device:  "Phone (SM-S918B)",
			cpu:     "ARM",
			browser: "Samsung Internet 23",
		},
		{
			name:    "android reduced",
			ua:      "Mozilla/5.0 (Linux; Android 10; K) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			os:      "Android 10",
			device:  "Tablet",
			cpu:     "ARM",
			browser: "Chrome 120",
		},
		{
			name:    "mac firefox",
			ua:      "Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:121.0) Gecko/20100101 Firefox/121.0",
			os:      "macOS 10.15",
			device:  "Desktop",
			cpu:     "Intel or Apple Silicon",
			browser: "Firefox 121",
		},
		{
			name:    "linux",
			ua:      "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
			os:      "Linux",
			device:  "Desktop",
			cpu:     "x86-64",
			browser: "Chrome 119",
		},
		{
			name:    "curl",
			ua:      "curl/8.4.0",
			os:      domain.Unknown,
			device:  "Bot",
			cpu:     domain.Unknown,
			browser: domain.Unknown,
			bot:     true,
		},
		{
			name:    "empty",
			ua:      "",
			os:      domain.Unknown,
			device:  domain.Unknown,
			cpu:     domain.Unknown,
			browser: domain.Unknown,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			info := ParseUserAgent(tc.ua)
			require.Equal(t, tc.os, info.OS)
			require.Equal(t, tc.device, info.Device)
			require.Equal(t, tc.cpu, info.CPU)
			require.Equal(t, tc.browser, info.Browser)
			require.Equal(t, tc.bot, info.Bot)
		})
	}
}

func TestIsBot(t *testing.T) {
	require.True(t, IsBot("Googlebot/2.1 (+http://www.google.com/bot.html)"))
	require.True(t, IsBot("python-requests/2.31"))
	require.True(t, IsBot("Mozilla/5.0 HeadlessChrome/120.0"))
	require.False(t, IsBot("Mozilla/5.0 (X11; Linux x86_64) Firefox/120.0"))
	require.True(t, IsBot("Slackbot-LinkExpanding 1.0 (+https://api.slack.com/robots)"))
	require.True(t, IsBot("TelegramBot (like TwitterBot)"))
	require.True(t, IsBot("Mozilla/5.0 (compatible; bingbot/2.0; +http://www.bing.com/bingbot.htm)"))
	require.True(t, IsBot("facebookexternalhit/1.1"))
	require.False(t, IsBot("Mozilla/5.0 (Linux; Android 11; CUBOT_X30) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36"))
	require.False(t, IsBot("Mozilla/5.0 (Linux; Android 10; CUBOT KINGKONG 5 Pro Build/QP1A) AppleWebKit/537.36 Chrome/119.0 Mobile Safari/537.36"))
}

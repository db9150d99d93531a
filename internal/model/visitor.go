package model

import "time"

type Visitor struct {
	Token     string
	IP        string
	FirstSeen time.Time
	LastSeen  time.Time
	Notified  bool
	// Preamble is the rendered identity block (time, IP, geo, agent) reused by
	// the device report.
	Preamble string
}

type ScreenRecord struct {
	IP         string
	Width      int
	Height     int
	Scale      float64
	ReportedAt time.Time
}

// Visit is the tracker's verdict for one page request.
type Visit struct {
	Token  string
	IP     string
	New    bool
	Issued bool
}

type GeoInfo struct {
	Country     string `json:"country"`
	CountryCode string `json:"countryCode"`
	Region      string `json:"regionName"`
	City        string `json:"city"`
	ISP         string `json:"isp"`
	Org         string `json:"org"`
	Timezone    string `json:"timezone"`
	Mobile      bool   `json:"mobile"`
	Proxy       bool   `json:"proxy"`
	Hosting     bool   `json:"hosting"`
}

type AgentInfo struct {
	OS      string
	Device  string
	CPU     string
	Browser string
	Bot     bool
}

type VisitorProfile struct {
	IP    string
	Geo   GeoInfo
	Agent AgentInfo
}

// Message is one outbound notification. ParseMode is passed to the bot API
// as is; empty means plain text.
type Message struct {
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode,omitempty"`
}

const (
	ParseModeHTML     = "HTML"
	ParseModeMarkdown = "Markdown"
)

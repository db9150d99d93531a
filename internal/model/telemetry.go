package model

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// FlexString accepts a JSON string, number or boolean. Browsers report
// some capabilities as numbers and fall back to a text placeholder when
// the API is missing.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	if bytes.Equal(data, []byte("true")) || bytes.Equal(data, []byte("false")) {
		*f = FlexString(data)
		return nil
	}
	if _, err := strconv.ParseFloat(string(data), 64); err != nil {
		return err
	}
	*f = FlexString(data)
	return nil
}

func (f FlexString) String() string {
	return string(f)
}

// Telemetry is the client-side device report posted to /screen_info.
// Every field is optional.
type Telemetry struct {
	Width               *int          `json:"width"`
	Height              *int          `json:"height"`
	Scale               *float64      `json:"scale"`
	WebGLVendor         string        `json:"webgl_vendor"`
	WebGLRenderer       string        `json:"webgl_renderer"`
	HardwareConcurrency FlexString    `json:"hardwareConcurrency"`
	DeviceMemory        FlexString    `json:"deviceMemory"`
	Platform            string        `json:"platform"`
	Timezone            string        `json:"timezone"`
	Language            string        `json:"language"`
	Plugins             string        `json:"plugins"`
	Fingerprint         string        `json:"fingerprint"`
	BatteryLevel        *float64      `json:"battery_level"`
	BatteryCharging     *bool         `json:"battery_charging"`
	Enhanced            *EnhancedData `json:"enhancedData"`
}

type EnhancedData struct {
	ColorDepth        FlexString `json:"colorDepth"`
	MaxTouchPoints    FlexString `json:"maxTouchPoints"`
	CookiesEnabled    *bool      `json:"cookiesEnabled"`
	DoNotTrack        FlexString `json:"doNotTrack"`
	Connection        string     `json:"connection"`
	Downlink          FlexString `json:"downlink"`
	AudioFingerprint  string     `json:"audioFingerprint"`
	CanvasFingerprint string     `json:"canvasFingerprint"`
	JSHeapLimitMB     FlexString `json:"jsHeapLimitMB"`
	Storage           *Storage   `json:"storage"`
}

type Storage struct {
	LocalStorage   *bool      `json:"localStorage"`
	SessionStorage *bool      `json:"sessionStorage"`
	IndexedDB      *bool      `json:"indexedDB"`
	QuotaMB        FlexString `json:"quotaMB"`
}

func (t *Telemetry) HasScreen() bool {
	return t.Width != nil && t.Height != nil
}

// Empty reports whether the report carries no usable field.
func (t *Telemetry) Empty() bool {
	if t == nil {
		return true
	}
	return t.Width == nil && t.Height == nil && t.Scale == nil &&
		t.WebGLVendor == "" && t.WebGLRenderer == "" &&
		t.HardwareConcurrency == "" && t.DeviceMemory == "" &&
		t.Platform == "" && t.Timezone == "" && t.Language == "" &&
		t.Plugins == "" && t.Fingerprint == "" &&
		t.BatteryLevel == nil && t.BatteryCharging == nil &&
		t.Enhanced.empty()
}

func (e *EnhancedData) empty() bool {
	if e == nil {
		return true
	}
	return e.ColorDepth == "" && e.MaxTouchPoints == "" && e.CookiesEnabled == nil &&
		e.DoNotTrack == "" && e.Connection == "" && e.Downlink == "" &&
		e.AudioFingerprint == "" && e.CanvasFingerprint == "" &&
		e.JSHeapLimitMB == "" && e.Storage == nil
}

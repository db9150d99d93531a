package dto

import "linkbio/internal/model"

type LogRequest struct {
	Message string `json:"message"`
}

type ReportRequest struct {
	Text string `json:"text"`
}

// ScreenInfoRequest is the telemetry posted by the page script. Every field is
// optional.
type ScreenInfoRequest = model.Telemetry

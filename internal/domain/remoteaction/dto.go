package remoteaction

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ActionForm is the manual entry form on /admin/actions/new.
type ActionForm struct {
	TargetUserID string `form:"target_user_id"`
	DeviceID     string `form:"device_id"`
	Tool         string `form:"tool"`
	Action       string `form:"action"`
	Notes        string `form:"notes"`
}

type Input struct {
	TargetUserID *int64
	DeviceID     string
	Tool         string
	Action       string
	Notes        string
}

func (f ActionForm) Input() Input {
	in := Input{
		DeviceID: strings.TrimSpace(f.DeviceID),
		Tool:     NormalizeTool(strings.TrimSpace(f.Tool)),
		Action:   strings.TrimSpace(f.Action),
		Notes:    strings.TrimSpace(f.Notes),
	}
	if id, err := strconv.ParseInt(strings.TrimSpace(f.TargetUserID), 10, 64); err == nil {
		in.TargetUserID = &id
	}
	return in
}

// WebhookPayload is the JSON body accepted on /hooks/mdm.
type WebhookPayload struct {
	Action       string          `json:"action" validate:"required"`
	Tool         string          `json:"tool"`
	Status       string          `json:"status" validate:"omitempty,oneof=initiated in_progress completed failed"`
	DeviceID     string          `json:"device_id"`
	TargetUserID *int64          `json:"target_user_id"`
	Notes        string          `json:"notes"`
	Metadata     json.RawMessage `json:"metadata"`
}

func (p *WebhookPayload) normalize() {
	p.Action = strings.TrimSpace(p.Action)
	p.Tool = NormalizeTool(strings.TrimSpace(p.Tool))
	p.Status = strings.TrimSpace(p.Status)
	p.DeviceID = strings.TrimSpace(p.DeviceID)
	p.Notes = strings.TrimSpace(p.Notes)
}

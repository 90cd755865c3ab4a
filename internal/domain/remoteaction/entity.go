package remoteaction

import (
	"slices"
	"time"

	"gorm.io/datatypes"
)

// Tools a remote action can be performed with.
const (
	ToolAnyDesk = "AnyDesk"
	ToolRDP     = "RDP"
	ToolVNC     = "VNC"
	ToolMDM     = "MDM"
	ToolOther   = "Other"
)

var Tools = []string{ToolAnyDesk, ToolRDP, ToolVNC, ToolMDM, ToolOther}

const (
	StatusInitiated  = "initiated"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

var Statuses = []string{StatusInitiated, StatusInProgress, StatusCompleted, StatusFailed}

// Actors recorded on the ledger.
const (
	ActorAdmin   = "admin"
	ActorWebhook = "webhook"
)

// AdminAction is one entry of the remote-action ledger.
type AdminAction struct {
	ID           int64          `gorm:"primaryKey" json:"id"`
	Actor        string         `gorm:"size:64;not null" json:"actor"`
	TargetUserID *int64         `gorm:"index" json:"target_user_id,omitempty"`
	DeviceID     string         `gorm:"size:255" json:"device_id"`
	Tool         string         `gorm:"size:32;not null" json:"tool"`
	Action       string         `gorm:"size:255;not null" json:"action"`
	Status       string         `gorm:"size:20;not null" json:"status"`
	Notes        string         `gorm:"type:text" json:"notes"`
	Metadata     datatypes.JSON `json:"metadata,omitempty"`
	StartedAt    time.Time      `gorm:"not null;index" json:"started_at"`
	EndedAt      *time.Time     `json:"ended_at,omitempty"`
}

func (AdminAction) TableName() string {
	return "admin_actions"
}

// NormalizeTool maps anything outside the known set to Other.
func NormalizeTool(tool string) string {
	if slices.Contains(Tools, tool) {
		return tool
	}
	return ToolOther
}

func IsTerminal(status string) bool {
	return status == StatusCompleted || status == StatusFailed
}

package dto

import "github.com/modernreader/orchestrator/internal/entity"

// BroadcastRequest fans one emotion reading out to a fixed device set.
// Content is opaque text/image material forwarded to display-capable
// devices alongside the derived sensory payload.
type BroadcastRequest struct {
	Emotion   string            `json:"emotion" validate:"required"`
	Intensity float64           `json:"intensity"`
	Devices   []string          `json:"devices" validate:"required"`
	Content   BroadcastContent  `json:"content"`
}

type BroadcastContent struct {
	Text   string   `json:"text"`
	Images []string `json:"images"`
}

type BroadcastResponse struct {
	Devices   map[string]entity.DispatchResult `json:"devices"`
	Emotion   string                           `json:"emotion"`
	Intensity float64                           `json:"intensity"`
	Timestamp int64                             `json:"timestamp"`
}

// RegisterDeviceRequest is how a device announces itself to the Gateway:
// its capability set (so Fan-out can shape a payload for it) and an
// address (so Fan-out has somewhere to send one). Addr is optional for
// devices that only ever receive through a push channel other than plain
// HTTP; such devices register with no bound DevicePort and dispatches to
// them resolve `failed` until one is bound.
type RegisterDeviceRequest struct {
	DeviceID     string          `json:"device_id" validate:"required"`
	Class        string          `json:"class" validate:"required"`
	Capabilities map[string]bool `json:"capabilities" validate:"required"`
	Addr         string          `json:"addr"`
}

type RegisterDeviceResponse struct {
	Device  entity.DeviceDescriptor `json:"device"`
	Changed bool                    `json:"changed"`
}

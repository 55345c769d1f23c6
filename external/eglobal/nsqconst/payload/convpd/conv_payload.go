package convpd

// 会话单元数据变更, 推给各端做设置同步
type ConvUnitDataUpdatePayload struct {
	ConvId       string   `json:"convId,omitempty"`
	UpdateReason string   `json:"updateReason,omitempty"` // 变更原因
	MuteUntil    *int64   `json:"muteUntil,omitempty"`
	DisappearSec *int64   `json:"disappearSec,omitempty"`
	ColorName    *string  `json:"colorName,omitempty"`
	Members      []string `json:"members,omitempty"`
	Uts          int64    `json:"uts,omitempty"`
}

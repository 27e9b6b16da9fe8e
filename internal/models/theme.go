package models

// ThemeConfig is presentation state persisted under its own key. The core
// never interprets it beyond round-tripping.
type ThemeConfig struct {
	Mode         string `json:"mode" validate:"omitempty,oneof=light dark"`
	PrimaryColor string `json:"primaryColor,omitempty"`
}

package module

import "pulseboard/internal/platform/config"

// Options holds configuration settings for the report module
type Options struct {
	DefaultChatID string
}

// FromConfig reads configuration settings from the config.Conf
func FromConfig(cfg config.Conf) Options {
	rf := cfg.Prefix("REPORT_")
	return Options{
		DefaultChatID: rf.MayString("DEFAULT_CHAT_ID", ""),
	}
}

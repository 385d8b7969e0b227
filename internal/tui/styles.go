package tui

import "github.com/finbrook/dscrgo/internal/tui/tuistyles"

// Re-export styles from tuistyles to avoid import cycles with components.
var (
	ColorSuccess = tuistyles.ColorSuccess
	ColorWarning = tuistyles.ColorWarning
	ColorDanger  = tuistyles.ColorDanger

	AppStyle       = tuistyles.AppStyle
	TitleStyle     = tuistyles.TitleStyle
	SubtitleStyle  = tuistyles.SubtitleStyle
	StatusBarStyle = tuistyles.StatusBarStyle
	StatusKeyStyle = tuistyles.StatusKeyStyle
	BorderStyle    = tuistyles.BorderStyle
	ErrorStyle     = tuistyles.ErrorStyle
)

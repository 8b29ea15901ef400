package parley

// Theme defines semantic color mappings using ANSI color indices (0-15).
// The user's terminal theme determines the actual RGB values, so the app
// automatically matches any color scheme.
type Theme struct {
	UserMsg int // User message accent
	BotMsg  int // Bot message accent
	Code    int // Code block gutter
	Muted   int // Status bar, placeholders, timestamps
	Accent  int // Active thread tab
	Spinner int // Pending indicator
}

// DefaultTheme returns the default ANSI color mapping.
func DefaultTheme() Theme {
	return Theme{
		UserMsg: 4,
		BotMsg:  2,
		Code:    8,
		Muted:   8,
		Accent:  5,
		Spinner: 3,
	}
}

package sentra

// Theme defines semantic color mappings using ANSI color indices (0-15)
// for rendering inspected protocol streams. The user's terminal theme
// determines the actual RGB values, so output automatically matches any
// color scheme.
type Theme struct {
	Prose    int // free-form model text
	ToolCall int // tool invocation header
	Result   int // tool result header
	Question int // user-question blocks
	Error    int // disallowed blocks, parse diagnostics
	Success  int // successful results
	Muted    int // pending indicator, separators
	Accent   int // headings, tag names
}

// DefaultTheme returns the default ANSI color mapping.
func DefaultTheme() Theme {
	return Theme{
		Prose:    7,
		ToolCall: 3,
		Result:   6,
		Question: 4,
		Error:    1,
		Success:  2,
		Muted:    8,
		Accent:   5,
	}
}

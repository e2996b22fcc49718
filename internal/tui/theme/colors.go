package theme

// Terminal-compatible color constants using ANSI standard colors
const (
	ColorWhite        = "#FFFFFF" // ANSI 15 - primary text
	ColorBrightBlack  = "#808080" // ANSI 8 - secondary text
	ColorBrightBlue   = "#5C7CFA" // ANSI 12 - primary accent
	ColorBrightCyan   = "#51CF66" // ANSI 14 - secondary accent
	ColorBrightGreen  = "#51CF66" // ANSI 10 - success/links
	ColorBrightYellow = "#FFD43B" // ANSI 11 - warning
	ColorBrightRed    = "#FF6B6B" // ANSI 9 - error
	ColorDivider      = "#3B3B3B"

	ColorKindImage    = "#74C0FC" // Light blue
	ColorKindVideo    = "#FF8787" // Light red
	ColorKindAudio    = "#DA77F2" // Purple
	ColorKindDocument = "#51CF66" // Green
	ColorKindArchive  = "#FCC419" // Amber
	ColorKindText     = "#B197FC" // Light purple
)

// Message types, in the order used by the status line.
const (
	MessageInfo = iota
	MessageSuccess
	MessageWarning
	MessageError
)

// GetKindColor returns the color for an asset kind
func GetKindColor(kind string) string {
	switch kind {
	case "image":
		return ColorKindImage
	case "video":
		return ColorKindVideo
	case "audio":
		return ColorKindAudio
	case "document":
		return ColorKindDocument
	case "archive":
		return ColorKindArchive
	case "text":
		return ColorKindText
	default:
		return ColorWhite
	}
}

// GetMessageColor returns the color for a given message type
func GetMessageColor(messageType int) string {
	switch messageType {
	case MessageError:
		return ColorBrightRed
	case MessageSuccess:
		return ColorBrightGreen
	case MessageWarning:
		return ColorBrightYellow
	default:
		return ColorBrightCyan
	}
}

// GetMessageIcon returns the icon for a given message type
func GetMessageIcon(messageType int) string {
	switch messageType {
	case MessageError:
		return "✗"
	case MessageSuccess:
		return "✓"
	case MessageWarning:
		return "!"
	default:
		return "·"
	}
}

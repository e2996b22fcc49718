package theme

import "fmt"

// FormatProgressMessage formats a progress message with consistent wording
func FormatProgressMessage(operation, subject string) string {
	return fmt.Sprintf("%s %s...", operation, subject)
}

// FormatSuccessMessage formats a success message
func FormatSuccessMessage(operation, subject string) string {
	return fmt.Sprintf("%s %s", operation, subject)
}

// FormatErrorMessage formats an error message
func FormatErrorMessage(operation string, err error) string {
	return fmt.Sprintf("%s failed: %v", operation, err)
}

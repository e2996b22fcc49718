package utils

import (
	"errors"

	"github.com/atotto/clipboard"
)

// ErrClipboardUnavailable is returned when no clipboard tool is installed.
var ErrClipboardUnavailable = errors.New("no clipboard available (install xclip, xsel or wl-clipboard)")

// CopyToClipboard puts content on the system clipboard.
func CopyToClipboard(content string) error {
	if clipboard.Unsupported {
		return ErrClipboardUnavailable
	}
	return clipboard.WriteAll(content)
}

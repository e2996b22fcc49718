package messaging

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/HaiFongPan/r2review/internal/tui/theme"
)

// MessageType represents different message types for status display
type MessageType int

const (
	MessageInfo    MessageType = theme.MessageInfo
	MessageSuccess MessageType = theme.MessageSuccess
	MessageWarning MessageType = theme.MessageWarning
	MessageError   MessageType = theme.MessageError
)

// StatusManager manages the workspace status line
type StatusManager interface {
	SetMessage(message string, msgType MessageType)
	ClearMessage()
	GetMessage() (string, MessageType, bool)
	// Expire clears the message once it is older than ttl. Errors stay until replaced.
	Expire(now time.Time, ttl time.Duration) bool
	RenderMessage() string
	HasMessage() bool
}

type statusManager struct {
	statusMessage string
	messageType   MessageType
	setAt         time.Time
}

// NewStatusManager creates a new status manager instance
func NewStatusManager() StatusManager {
	return &statusManager{messageType: MessageInfo}
}

func (sm *statusManager) SetMessage(message string, msgType MessageType) {
	sm.statusMessage = message
	sm.messageType = msgType
	sm.setAt = time.Now()
	logrus.Debugf("status: %q (type %d)", message, msgType)
}

func (sm *statusManager) ClearMessage() {
	sm.statusMessage = ""
}

func (sm *statusManager) GetMessage() (string, MessageType, bool) {
	return sm.statusMessage, sm.messageType, sm.statusMessage != ""
}

func (sm *statusManager) HasMessage() bool {
	return sm.statusMessage != ""
}

func (sm *statusManager) Expire(now time.Time, ttl time.Duration) bool {
	if sm.statusMessage == "" || sm.messageType == MessageError {
		return false
	}
	if now.Sub(sm.setAt) < ttl {
		return false
	}
	sm.statusMessage = ""
	return true
}

func (sm *statusManager) RenderMessage() string {
	if !sm.HasMessage() {
		return ""
	}

	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.GetMessageColor(int(sm.messageType)))).
		Bold(true)
	return style.Render(fmt.Sprintf("%s %s", theme.GetMessageIcon(int(sm.messageType)), sm.statusMessage))
}

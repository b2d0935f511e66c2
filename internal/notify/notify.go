// ============================================================================
// TypeFree - Push-to-Talk Dictation
// ============================================================================
//
// Package:     notify
// Description: User-visible notifications, fire-and-forget
// Author:      zhangyu1818
// License:     MIT
// ============================================================================

package notify

import (
	"github.com/zhangyu1818/typefree/pkg/logging"
)

// Notifier posts desktop notifications. Delivery is best-effort; failures
// fall back to the log so a message is never silently dropped.
type Notifier struct {
	logger *logging.Logger
	post   func(title, message string) error
}

// New creates the platform notifier.
func New(logger *logging.Logger) *Notifier {
	if logger == nil {
		logger = logging.New("notify")
	}
	return &Notifier{logger: logger, post: postNotification}
}

// Info shows an informational notification.
func (n *Notifier) Info(title, message string) {
	n.deliver(title, message)
	n.logger.Info(title, "detail", message)
}

// Warn shows a warning notification.
func (n *Notifier) Warn(title, message string) {
	n.deliver(title, message)
	n.logger.Warn(title, "detail", message)
}

// Error shows an error notification.
func (n *Notifier) Error(title, message string) {
	n.deliver(title, message)
	n.logger.Error(title, "detail", message)
}

func (n *Notifier) deliver(title, message string) {
	if err := n.post(title, message); err != nil {
		n.logger.Debug("notification delivery failed", "error", err)
	}
}

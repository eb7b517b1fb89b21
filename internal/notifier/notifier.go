// Package notifier delivers warning notifications to ambassadors and
// admins. Delivery is best-effort: the warning engine persists warnings
// first and only logs delivery failures.
package notifier

import (
	"fmt"

	"ambassadors/internal/models"
)

// Notifier is the delivery contract the warning engine depends on.
type Notifier interface {
	SendToAmbassador(user *models.User, template string, data WarningData) error
	NotifyAdmins(message string) error
}

// WarningData is the context rendered into warning notifications.
type WarningData struct {
	Level       int
	Reason      string
	WindowStart string
	WindowEnd   string
}

// FormatWarning renders the standard warning notice body.
func FormatWarning(user *models.User, template string, data WarningData) string {
	return fmt.Sprintf("[%s] %s (@%s): level %d warning, reason %s, window %s .. %s",
		template, user.Name, user.Username, data.Level, data.Reason, data.WindowStart, data.WindowEnd)
}

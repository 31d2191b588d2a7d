package notify

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/SavioSoares07/MeuAppDeRemedio/internal/domain"
)

const (
	titleText = "Hora do medicamento 💊"
	bodyFmt   = "%s, é hora de tomar %s (%s)!"
)

// Content is the payload delivered when a trigger fires.
type Content struct {
	Title string
	Body  string
}

// ForReminder interpolates the reminder fields into the notification text.
func ForReminder(r domain.Reminder) Content {
	return Content{
		Title: titleText,
		Body:  fmt.Sprintf(bodyFmt, r.PatientName, r.MedName, r.MedQuantity),
	}
}

// Notifier delivers fired notifications to the user.
type Notifier interface {
	Send(ctx context.Context, c Content) error
}

// LogNotifier writes notifications to the log. It backs local runs and tests
// where no chat is configured.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Send(_ context.Context, c Content) error {
	n.log.Info("notification", zap.String("title", c.Title), zap.String("body", c.Body))
	return nil
}

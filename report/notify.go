package report

import "github.com/mbolis/pie-reports/log"

type NotifyKind string

const (
	NotifySuccess NotifyKind = "success"
	NotifyError   NotifyKind = "error"
)

// Notifier receives user-facing feedback about report generation.
type Notifier interface {
	Notify(kind NotifyKind, msg string)
}

// LogNotifier writes notifications to the application log.
type LogNotifier struct{}

func (LogNotifier) Notify(kind NotifyKind, msg string) {
	entry := log.WithFields(log.Fields{"notify": kind})
	if kind == NotifyError {
		entry.Error(msg)
		return
	}
	entry.Info(msg)
}

package service

// Recorder decouples the services from the prometheus collector so tests can
// run without touching the default registry.
type Recorder interface {
	BookingCreated(apptType string)
	BookingConflict()
	StatusTransition(status string)
	SlotQuery()
	ReminderMarked()
	AuditEntry()
	AuditDropped()
}

type nopRecorder struct{}

func (nopRecorder) BookingCreated(string)   {}
func (nopRecorder) BookingConflict()        {}
func (nopRecorder) StatusTransition(string) {}
func (nopRecorder) SlotQuery()              {}
func (nopRecorder) ReminderMarked()         {}
func (nopRecorder) AuditEntry()             {}
func (nopRecorder) AuditDropped()           {}

// NopRecorder is used where metrics are not wired, e.g. tests.
var NopRecorder Recorder = nopRecorder{}

package panel

type Severity int

const (
	Success Severity = iota
	Failure
)

func (s Severity) String() string {
	if s == Failure {
		return "error"
	}
	return "success"
}

// Notifier shows transient outcome messages (toasts).
type Notifier interface {
	Notify(severity Severity, msg string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(severity Severity, msg string)

func (f NotifierFunc) Notify(severity Severity, msg string) {
	f(severity, msg)
}

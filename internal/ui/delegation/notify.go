package delegation

// Notifier shows a handler failure to the user.
type Notifier interface {
	Notify(title, message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(title, message string)

// Notify calls f.
func (f NotifierFunc) Notify(title, message string) { f(title, message) }

// notify is best effort: a missing or panicking notifier never reaches the dispatcher.
func notify(n Notifier, title, message string) {
	if n == nil {
		return
	}
	defer func() { _ = recover() }()
	n.Notify(title, message)
}

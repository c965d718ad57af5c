package ports

// ErrorSink receives human-readable failure notifications. Report never blocks
// for long and never fails.
type ErrorSink interface {
	Report(message string)
}

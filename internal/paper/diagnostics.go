package paper

// Diagnostics receives leveled messages from the pipeline. Arguments follow
// the log/slog key-value convention.
type Diagnostics interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

// Discard is a Diagnostics that drops every message.
var Discard Diagnostics = discard{}

type discard struct{}

func (discard) Info(string, ...any) {}
func (discard) Warn(string, ...any) {}

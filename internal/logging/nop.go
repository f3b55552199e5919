package logging

// NoOpLogger discards all log output. Useful in tests.
type NoOpLogger struct{}

// NewNop returns a logger that discards everything.
func NewNop() Logger {
	return &NoOpLogger{}
}

func (n *NoOpLogger) Debug(string, ...Field) {}
func (n *NoOpLogger) Info(string, ...Field)  {}
func (n *NoOpLogger) Warn(string, ...Field)  {}
func (n *NoOpLogger) Error(string, ...Field) {}

// With returns the same no-op logger.
func (n *NoOpLogger) With(...Field) Logger { return n }

// Sync is a no-op.
func (n *NoOpLogger) Sync() error { return nil }

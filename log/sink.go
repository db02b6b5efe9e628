package log

import "go.uber.org/zap"

// Sink is the error reporting surface shared by the session and cache
// layers. Calls never panic and never return errors.
type Sink struct {
	logger *zap.Logger
}

func NewSink(logger *zap.Logger) *Sink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sink{logger: logger}
}

func NopSink() *Sink {
	return NewSink(nil)
}

func (s *Sink) Error(message string, err error, fields ...zap.Field) {
	s.write(func(l *zap.Logger) { l.Error(message, withFields(fields, zap.Error(err))...) })
}

func (s *Sink) Warn(message string, err error, fields ...zap.Field) {
	s.write(func(l *zap.Logger) { l.Warn(message, withFields(fields, zap.Error(err))...) })
}

// AuthError records a failed authentication operation such as sign-in.
func (s *Sink) AuthError(operation string, err error, fields ...zap.Field) {
	s.write(func(l *zap.Logger) {
		l.Error("auth operation failed", withFields(fields, zap.String("operation", operation), zap.Error(err))...)
	})
}

func (s *Sink) Logger() *zap.Logger {
	if s == nil || s.logger == nil {
		return zap.NewNop()
	}
	return s.logger
}

func (s *Sink) write(fn func(*zap.Logger)) {
	if s == nil || s.logger == nil {
		return
	}
	defer func() { _ = recover() }()
	fn(s.logger)
}

// withFields never writes into the caller's backing array.
func withFields(fields []zap.Field, extra ...zap.Field) []zap.Field {
	out := make([]zap.Field, 0, len(fields)+len(extra))
	return append(append(out, fields...), extra...)
}

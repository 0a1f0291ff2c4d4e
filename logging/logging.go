// Package logging is the structured logging facade used by healthenc and its
// console binary.
//
// Encryption inputs are secret on the edge device: a scaled reading is the
// patient's vital sign, and knowing the blinding factor r for a ciphertext
// recovers the plaintext. Neither is ever passed as an attribute. Log lines
// carry the metric name, sizes such as the number of ciphertext digits, and
// error values; where a line refers to a secret, the attribute is emitted with
// Redacted so the omission is visible in the output.
package logging

import (
	"context"
	"io"
	"log/slog"
)

const redactedPlaceholder = "[redacted]"

// Logger is what healthenc logs through. Every call takes the request or
// submission context so handlers can pick up deadlines and trace values.
// Tests and embedding applications can supply their own implementation.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)
	With(args ...any) Logger
}

// New adapts an *slog.Logger. A nil logger falls back to slog.Default().
func New(logger *slog.Logger) Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return slogLogger{logger: logger}
}

// NewText returns a key=value logger writing to w. Records below level are
// dropped; the console binary sends these to stderr so they do not mix with
// its prompts.
func NewText(w io.Writer, level slog.Level) Logger {
	return New(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// Discard returns a Logger that writes nothing. Submitter uses it when no
// logger is given.
func Discard() Logger {
	return NewText(io.Discard, slog.LevelError+1)
}

// slogLogger forwards to the context-aware slog methods. It is a value type;
// With returns a new one sharing the underlying handler.
type slogLogger struct {
	logger *slog.Logger
}

func (l slogLogger) Debug(ctx context.Context, msg string, args ...any) {
	l.logger.DebugContext(ctx, msg, args...)
}

func (l slogLogger) Info(ctx context.Context, msg string, args ...any) {
	l.logger.InfoContext(ctx, msg, args...)
}

func (l slogLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.logger.WarnContext(ctx, msg, args...)
}

func (l slogLogger) Error(ctx context.Context, msg string, args ...any) {
	l.logger.ErrorContext(ctx, msg, args...)
}

func (l slogLogger) With(args ...any) Logger {
	return slogLogger{logger: l.logger.With(args...)}
}

// Redacted returns an attribute named key whose value is the placeholder. Use
// it in place of a plaintext or blinding factor, e.g.
//
//	log.Warn(ctx, "encryption failed", "error", err, logging.Redacted("plaintext"))
func Redacted(key string) slog.Attr {
	return slog.String(key, redactedPlaceholder)
}

// Placeholder is the value Redacted attributes carry, for tests and handlers
// that need to recognise redacted fields.
func Placeholder() string {
	return redactedPlaceholder
}

package logger

import "strings"

type Level int8

const (
	Disabled   Level = -1   // Disabled is used for disabled logging.
	TraceLevel Level = iota // TraceLevel is used for per-step forecast details.
	DebugLevel              // DebugLevel is used for debugging information.
	InfoLevel               // InfoLevel is used for informational messages.
	WarnLevel               // WarnLevel is used for warning messages.
	ErrorLevel              // ErrorLevel is used for error messages.
	NoLevel                 // NoLevel is used for no logging level.
)

// ParseLevel converts a textual level (eg: "debug") to a Level, defaulting to InfoLevel
func ParseLevel(level string) Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "disabled", "off":
		return Disabled
	case "trace":
		return TraceLevel
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

type Logger interface {
	WithField(key string, value any) Logger  // WithField returns a logger with the given key-value pair.
	WithFields(fields map[string]any) Logger // WithFields returns a logger with the given fields.
	WithError(err error) Logger              // WithError returns a logger with the given error.

	Trace(args ...any)
	Debug(args ...any)
	Info(args ...any)
	Warn(args ...any)
	Error(args ...any)

	Tracef(format string, args ...any)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)

	SetLevel(level Level)
	GetLevel() Level
}

// Nop returns a logger that discards everything
func Nop() Logger { return nop{} }

type nop struct{}

func (n nop) WithField(string, any) Logger     { return n }
func (n nop) WithFields(map[string]any) Logger { return n }
func (n nop) WithError(error) Logger           { return n }
func (nop) Trace(...any)                       {}
func (nop) Debug(...any)                       {}
func (nop) Info(...any)                        {}
func (nop) Warn(...any)                        {}
func (nop) Error(...any)                       {}
func (nop) Tracef(string, ...any)              {}
func (nop) Debugf(string, ...any)              {}
func (nop) Infof(string, ...any)               {}
func (nop) Warnf(string, ...any)               {}
func (nop) Errorf(string, ...any)              {}
func (nop) SetLevel(Level)                     {}
func (nop) GetLevel() Level                    { return Disabled }

package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"gamelist/internal/errors"

	"github.com/sirupsen/logrus"
)

const timestampFormat = "2006-01-02 15:04:05"

var (
	isDebug = false
	logger  = NewLogger()
)

// Field is a single structured key/value attached to a log line
type Field struct {
	Key   string
	Value interface{}
}

// F builds a Field
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Logger writes leveled, structured log lines through logrus
type Logger struct {
	entry *logrus.Entry
	file  *os.File
	level logrus.Level
}

type options struct {
	out   io.Writer
	json  bool
	file  string
	level logrus.Level
}

// Option configures a Logger
type Option func(*options)

// WithOutput sends log lines to w instead of stdout
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.out = w }
}

// WithJSON switches to one JSON object per line
func WithJSON() Option {
	return func(o *options) { o.json = true }
}

// WithFile copies every log line to the file at path as well as the output
func WithFile(path string) Option {
	return func(o *options) { o.file = path }
}

// WithLevel sets the minimum level; unknown names are ignored
func WithLevel(level string) Option {
	return func(o *options) {
		if lvl, err := logrus.ParseLevel(level); err == nil {
			o.level = lvl
		}
	}
}

// NewLogger creates a logger writing to stdout at info level unless configured otherwise
func NewLogger(opts ...Option) *Logger {
	o := options{out: os.Stdout, level: logrus.InfoLevel}
	for _, opt := range opts {
		opt(&o)
	}

	base := logrus.New()
	base.SetLevel(logrus.DebugLevel)
	base.SetFormatter(&formatter{json: o.json})

	l := &Logger{level: o.level}
	out := o.out
	if o.file != "" {
		f, err := os.OpenFile(o.file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err == nil {
			l.file = f
			out = io.MultiWriter(o.out, f)
		} else {
			fmt.Fprintf(os.Stderr, "log: cannot open %s: %v\n", o.file, err)
		}
	}
	base.SetOutput(out)

	l.entry = logrus.NewEntry(base)
	return l
}

// Configure replaces the package logger
func Configure(opts ...Option) {
	logger = NewLogger(opts...)
}

// SetDebug toggles debug output for every logger
func SetDebug(debug bool) {
	isDebug = debug
}

// With returns a logger that adds fields to every line
func (l *Logger) With(fields ...Field) *Logger {
	data := make(logrus.Fields, len(fields))
	for _, f := range fields {
		data[f.Key] = f.Value
	}
	return &Logger{entry: l.entry.WithFields(data), file: l.file, level: l.level}
}

// WithError returns a logger that describes err in its fields
func (l *Logger) WithError(err error) *Logger {
	return l.With(errorFields(err)...)
}

// WithContext returns a logger bound to ctx
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}
	return &Logger{entry: l.entry.WithContext(ctx), file: l.file, level: l.level}
}

func (l *Logger) Info(msg string) {
	l.log(logrus.InfoLevel, msg)
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.log(logrus.InfoLevel, format, args...)
}

func (l *Logger) Warn(msg string) {
	l.log(logrus.WarnLevel, msg)
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.log(logrus.WarnLevel, format, args...)
}

func (l *Logger) Error(msg string) {
	l.log(logrus.ErrorLevel, msg)
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.log(logrus.ErrorLevel, format, args...)
}

// Debug logs a message only while debug output is on
func (l *Logger) Debug(msg string) {
	if isDebug {
		l.log(logrus.DebugLevel, msg)
	}
}

// Debugf logs a formatted message only while debug output is on
func (l *Logger) Debugf(format string, args ...interface{}) {
	if isDebug {
		l.log(logrus.DebugLevel, format, args...)
	}
}

// log must be called directly by the exported wrappers; the caller lookup
// skips exactly two frames.
func (l *Logger) log(level logrus.Level, format string, args ...interface{}) {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	if level > l.level && !(level == logrus.DebugLevel && isDebug) {
		return
	}
	entry := l.entry
	if _, file, line, ok := runtime.Caller(2); ok {
		entry = entry.WithField("caller", fmt.Sprintf("%s:%d", filepath.Base(file), line))
	}
	entry.Log(level, msg)
}

func Info(format string, args ...interface{}) {
	logger.log(logrus.InfoLevel, format, args...)
}

func Infof(format string, args ...interface{}) {
	logger.log(logrus.InfoLevel, format, args...)
}

// Debug logs a message with arguments
func Debug(msg string, args ...interface{}) {
	if isDebug {
		if len(args) > 0 {
			msg += ": %v"
		}
		logger.log(logrus.DebugLevel, msg, args...)
	}
}

// Debugf logs a formatted message
func Debugf(format string, args ...interface{}) {
	if isDebug {
		logger.log(logrus.DebugLevel, format, args...)
	}
}

// Warn logs a warning message with arguments
func Warn(msg string, args ...interface{}) {
	if len(args) > 0 {
		msg += ": %v"
	}
	logger.log(logrus.WarnLevel, msg, args...)
}

// Warnf logs a formatted warning message
func Warnf(format string, args ...interface{}) {
	logger.log(logrus.WarnLevel, format, args...)
}

// Error logs an error message with arguments
func Error(msg string, args ...interface{}) {
	if len(args) > 0 {
		msg += ": %v"
	}
	logger.log(logrus.ErrorLevel, msg, args...)
}

// Errorf logs a formatted error message
func Errorf(format string, args ...interface{}) {
	logger.log(logrus.ErrorLevel, format, args...)
}

// LogWithFields returns the package logger with fields attached
func LogWithFields(fields ...Field) *Logger {
	return logger.With(fields...)
}

// LogWithError returns the package logger describing err
func LogWithError(err error) *Logger {
	return logger.WithError(err)
}

// LogError logs err at error level with a message
func LogError(err error, msg string) {
	logger.WithError(err).log(logrus.ErrorLevel, msg)
}

func errorFields(err error) []Field {
	if err == nil {
		return []Field{F("error", "<nil>")}
	}
	fields := []Field{
		F("error", err.Error()),
		F("error_kind", int(errors.KindOf(err))),
	}

	var fileErr *errors.FileError
	if errors.As(err, &fileErr) && fileErr.Path() != "" {
		fields = append(fields, F("path", fileErr.Path()))
	}
	var configErr *errors.ConfigError
	if errors.As(err, &configErr) && configErr.Param() != "" {
		fields = append(fields, F("param", configErr.Param()))
	}
	var opErr *errors.OperationError
	if errors.As(err, &opErr) {
		fields = append(fields, F("operation", opErr.Operation()))
		if opErr.Game() != "" {
			fields = append(fields, F("game", opErr.Game()))
		}
	}
	return fields
}

// formatter renders "[timestamp] LEVEL: message key=value ..." or one JSON
// object per entry with level/message/timestamp keys.
type formatter struct {
	json bool
}

func levelName(level logrus.Level) string {
	if level == logrus.WarnLevel {
		return "WARN"
	}
	return strings.ToUpper(level.String())
}

func (f *formatter) Format(entry *logrus.Entry) ([]byte, error) {
	if f.json {
		data := make(map[string]interface{}, len(entry.Data)+3)
		for k, v := range entry.Data {
			if err, ok := v.(error); ok {
				v = err.Error()
			}
			data[k] = v
		}
		data["level"] = levelName(entry.Level)
		data["message"] = entry.Message
		data["timestamp"] = entry.Time.Format(time.RFC3339)
		out, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal log entry: %w", err)
		}
		return append(out, '\n'), nil
	}

	var b bytes.Buffer
	fmt.Fprintf(&b, "[%s] %s: %s", entry.Time.Format(timestampFormat), levelName(entry.Level), entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, entry.Data[k])
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}

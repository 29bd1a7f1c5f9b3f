// Package logging builds the process-wide log sink.
//
// The sink is an append-only file rotated at local midnight, keeping a fixed
// number of backups. Components receive a logr.Logger; external command
// output is appended to the same file through Output.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Name is the logger name stamped on every record.
const Name = "VMM"

// TimeLayout is the timestamp format of log records.
const TimeLayout = "2006-01-02 03:04:05 PM"

// Config configures the log sink.
type Config struct {
	File    string // log file path; empty disables the file core
	Level   string // debug, info, warn, error
	Backups int    // rotated files to keep
	Console bool   // mirror records to stderr
}

// Sink owns the log file and the logger writing to it.
type Sink struct {
	logger logr.Logger
	zap    *zap.Logger
	file   *lumberjack.Logger
	output io.Writer

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// New opens the log sink described by cfg and starts midnight rotation.
func New(cfg Config) (*Sink, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	encoder := zapcore.NewConsoleEncoder(encoderConfig())

	var cores []zapcore.Core
	s := &Sink{output: io.Discard}

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		s.file = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxBackups: cfg.Backups,
			LocalTime:  true,
		}
		s.output = &lockedWriter{w: s.file}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(s.output), level))
	}
	if cfg.Console {
		cores = append(cores, zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level))
	}

	s.zap = zap.New(zapcore.NewTee(cores...)).Named(Name)
	s.logger = zapr.NewLogger(s.zap)

	if s.file != nil {
		s.stop = make(chan struct{})
		s.done = make(chan struct{})
		go s.rotateDaily(time.Now)
	}
	return s, nil
}

// Logger returns the logger writing to the sink.
func (s *Sink) Logger() logr.Logger {
	return s.logger
}

// Output returns the writer external command output is appended to.
func (s *Sink) Output() io.Writer {
	return s.output
}

// Close stops rotation, flushes buffered records and closes the file.
func (s *Sink) Close() error {
	s.stopOnce.Do(func() {
		if s.stop != nil {
			close(s.stop)
			<-s.done
		}
	})
	_ = s.zap.Sync()
	if s.file != nil {
		return s.file.Close()
	}
	return nil
}

func (s *Sink) rotateDaily(now func() time.Time) {
	defer close(s.done)
	for {
		timer := time.NewTimer(time.Until(NextMidnight(now())))
		select {
		case <-s.stop:
			timer.Stop()
			return
		case <-timer.C:
			if err := s.file.Rotate(); err != nil {
				s.logger.Error(err, "log rotation failed")
			}
		}
	}
}

// NextMidnight returns the start of the day after t, in t's location.
func NextMidnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, t.Location())
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		NameKey:          "logger",
		MessageKey:       "msg",
		StacktraceKey:    "stacktrace",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeTime:       zapcore.TimeEncoderOfLayout(TimeLayout),
		EncodeDuration:   zapcore.StringDurationEncoder,
		EncodeName:       zapcore.FullNameEncoder,
		ConsoleSeparator: " - ",
	}
}

func parseLevel(level string) (zapcore.Level, error) {
	if strings.TrimSpace(level) == "" {
		return zapcore.DebugLevel, nil
	}
	l, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return zapcore.DebugLevel, fmt.Errorf("invalid log level %q", level)
	}
	return l, nil
}

// lockedWriter serializes record writes and raw command output so lines
// from the two sources never interleave mid-line.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// Package logger is meter's process-wide structured log. Output goes to a
// size-rotated file under the config directory so the TUI and the tray
// never write into the terminal they share.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/meter/internal/constants"
)

// Logger is nil until Init. The level helpers are no-ops until then.
var Logger *log.Logger

var file *lumberjack.Logger

type Config struct {
	Debug bool
	// Dir is the config directory; logs land in Dir/logs/meter.log.
	Dir string
	// Stderr receives a copy of every line in debug mode. Defaults to os.Stderr.
	Stderr io.Writer
}

// Init opens the rotating log file. Debug mode logs from DebugLevel with
// caller info and mirrors to Stderr; otherwise only warnings and errors
// are kept.
func Init(cfg Config) error {
	dir := filepath.Join(cfg.Dir, "logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if file != nil {
		_ = file.Close()
	}
	file = &lumberjack.Logger{
		Filename:   filepath.Join(dir, constants.LogFileName),
		MaxSize:    5, // MB
		MaxBackups: 5,
		MaxAge:     30,
		Compress:   true,
	}

	opts := log.Options{
		Prefix:          constants.AppName,
		ReportTimestamp: true,
		Level:           log.WarnLevel,
	}
	var out io.Writer = file
	if cfg.Debug {
		opts.Level = log.DebugLevel
		opts.ReportCaller = true
		opts.CallerOffset = 2 // logAt and the level helper
		mirror := cfg.Stderr
		if mirror == nil {
			mirror = os.Stderr
		}
		out = io.MultiWriter(mirror, file)
	}
	Logger = log.NewWithOptions(out, opts)
	return nil
}

// Close flushes and releases the log file.
func Close() error {
	if file == nil {
		return nil
	}
	err := file.Close()
	file, Logger = nil, nil
	return err
}

func logAt(level log.Level, msg string, keyvals []interface{}) {
	if Logger != nil {
		Logger.Log(level, msg, keyvals...)
	}
}

func Debug(msg string, keyvals ...interface{}) { logAt(log.DebugLevel, msg, keyvals) }
func Info(msg string, keyvals ...interface{})  { logAt(log.InfoLevel, msg, keyvals) }
func Warn(msg string, keyvals ...interface{})  { logAt(log.WarnLevel, msg, keyvals) }
func Error(msg string, keyvals ...interface{}) { logAt(log.ErrorLevel, msg, keyvals) }

// Fatal logs msg and exits 1 whether or not Init ran.
func Fatal(msg string, keyvals ...interface{}) {
	logAt(log.FatalLevel, msg, keyvals)
	os.Exit(1)
}

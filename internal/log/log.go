// Package log wraps the standard logger with rotation and a debug switch.
package log

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync/atomic"

	"github.com/san-kum/morphcontours/internal/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

var debug atomic.Bool

// Setup routes the standard logger. With a file configured the output
// rotates through lumberjack; otherwise it goes to fallback, which may be
// io.Discard when the terminal belongs to the live view. The returned
// closer releases the log file.
func Setup(cfg config.LogConfig, fallback io.Writer) io.Closer {
	debug.Store(cfg.Debug)

	if cfg.File == "" {
		if fallback == nil {
			fallback = os.Stderr
		}
		log.SetOutput(fallback)
		log.SetFlags(log.Ltime)
		return nopCloser{}
	}

	lj := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
	log.SetOutput(lj)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	return lj
}

// Printf calls the standard log.Printf()
func Printf(format string, v ...interface{}) {
	log.Output(2, fmt.Sprintf(format, v...))
}

// Debugf logs only when debug output is enabled.
func Debugf(format string, v ...interface{}) {
	if !debug.Load() {
		return
	}
	log.Output(2, "[DEBUG] "+fmt.Sprintf(format, v...))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

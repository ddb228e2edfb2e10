package db

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm/logger"
)

// zerologWriter adapts gorm's printf-style logger to zerolog.
type zerologWriter struct {
	log zerolog.Logger
}

func (w zerologWriter) Printf(format string, args ...interface{}) {
	msg := strings.TrimSpace(fmt.Sprintf(format, args...))
	w.log.Warn().Str("component", "gorm").Msg(msg)
}

// NewLogger returns a gorm logger that reports slow queries and failures
// through l. Expected misses (gorm.ErrRecordNotFound) are not logged.
func NewLogger(l zerolog.Logger) logger.Interface {
	return logger.New(zerologWriter{log: l}, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

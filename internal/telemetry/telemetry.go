// Package telemetry keeps the append-only record of tool run outcomes. The
// log never evicts; bounding retention is left to the operator.
package telemetry

import (
	"sync"

	"github.com/rs/zerolog"

	"draftworx_orchestrator/internal/core"
)

// DefaultRecentLimit is the window served when a caller gives no limit.
const DefaultRecentLimit = 20

// Log is an in-memory append-only buffer of tool run records. Records are
// immutable once appended.
type Log struct {
	mu     sync.Mutex
	events []core.ToolRunRecord
	logger zerolog.Logger
}

// NewLog creates an empty telemetry log that mirrors each record to the
// structured logger.
func NewLog(logger zerolog.Logger) *Log {
	return &Log{logger: logger}
}

// Record appends one tool run record.
func (l *Log) Record(rec core.ToolRunRecord) {
	l.mu.Lock()
	l.events = append(l.events, rec)
	l.mu.Unlock()

	evt := l.logger.Info()
	if rec.Status == core.StatusFailed {
		evt = l.logger.Warn()
	}
	evt = evt.
		Str("tool_run_id", rec.ToolRunID).
		Str("tool", rec.ToolName).
		Str("status", string(rec.Status)).
		Dur("duration", rec.CompletedAt.Sub(rec.StartedAt))
	if rec.Error != "" {
		evt = evt.Str("error", rec.Error)
	}
	evt.Msg("tool run recorded")
}

// Recent returns up to limit of the most recent records, oldest first. A
// non-positive limit uses DefaultRecentLimit.
func (l *Log) Recent(limit int) []core.ToolRunRecord {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	start := 0
	if len(l.events) > limit {
		start = len(l.events) - limit
	}
	out := make([]core.ToolRunRecord, len(l.events)-start)
	copy(out, l.events[start:])
	return out
}

// Len reports how many records have been appended.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.events)
}

package telemetry

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"draftworx_orchestrator/internal/core"
)

func record(id string, status core.ToolRunStatus) core.ToolRunRecord {
	now := time.Now().UTC()
	return core.ToolRunRecord{
		ToolRunID:   id,
		ToolName:    core.ToolCollectContext,
		Status:      status,
		StartedAt:   now,
		CompletedAt: now,
	}
}

func TestLogAppendsInOrder(t *testing.T) {
	log := NewLog(zerolog.Nop())

	log.Record(record("r-1", core.StatusSucceeded))
	log.Record(record("r-2", core.StatusFailed))

	events := log.Recent(10)
	require.Len(t, events, 2)
	require.Equal(t, "r-1", events[0].ToolRunID)
	require.Equal(t, "r-2", events[1].ToolRunID)
}

func TestRecentUsesDefaultLimit(t *testing.T) {
	log := NewLog(zerolog.Nop())
	for i := 0; i < DefaultRecentLimit+5; i++ {
		log.Record(record(fmt.Sprintf("r-%d", i), core.StatusSucceeded))
	}

	events := log.Recent(0)
	require.Len(t, events, DefaultRecentLimit)
	require.Equal(t, "r-5", events[0].ToolRunID)
	require.Equal(t, fmt.Sprintf("r-%d", DefaultRecentLimit+4), events[len(events)-1].ToolRunID)
}

func TestRecordMirrorsErrorFieldOnlyOnFailure(t *testing.T) {
	var buf bytes.Buffer
	log := NewLog(zerolog.New(&buf))

	log.Record(record("r-1", core.StatusSucceeded))
	failed := record("r-2", core.StatusFailed)
	failed.Error = "upstream timeout"
	log.Record(failed)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	require.NotContains(t, lines[0], `"error"`)
	require.Contains(t, lines[1], `"error":"upstream timeout"`)
}

func TestRecentReturnsCopy(t *testing.T) {
	log := NewLog(zerolog.Nop())
	log.Record(record("r-1", core.StatusSucceeded))

	events := log.Recent(5)
	events[0].ToolRunID = "mutated"

	again := log.Recent(5)
	require.Equal(t, "r-1", again[0].ToolRunID)
}

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/complaint-desk/internal/database/databasetest"
	"github.com/ahmetcoskunkizilkaya/complaint-desk/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
}

func TestPGHandlerPersistsErrors(t *testing.T) {
	db := databasetest.Open(t)
	var stdout bytes.Buffer
	pg := NewPGHandler(db, time.Hour)
	t.Cleanup(pg.Stop)

	logger := slog.New(NewMultiHandler(NewJSONHandler(&stdout, "info"), pg)).
		With("request_id", "req-1", "actor_id", "a-1")

	logger.Info("complaint updated", "complaint_id", "c-1")
	logger.Error("failed to update complaint",
		"complaint_id", "c-2",
		"role", "admin",
		"error", "boom",
		"latency_ms", 12.6,
		"path", "/api/complaints/c-2",
	)
	pg.Flush()

	var logs []models.SystemLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)

	entry := logs[0]
	assert.Equal(t, "ERROR", entry.Level)
	assert.Equal(t, "req-1", entry.RequestID)
	require.NotNil(t, entry.ActorID)
	assert.Equal(t, "a-1", *entry.ActorID)
	require.NotNil(t, entry.ComplaintID)
	assert.Equal(t, "c-2", *entry.ComplaintID)
	assert.Equal(t, "admin", entry.Role)
	assert.Equal(t, "boom", entry.Error)
	assert.Equal(t, 13, entry.LatencyMs)

	var extra map[string]interface{}
	require.NoError(t, json.Unmarshal(entry.Extra, &extra))
	assert.Equal(t, "/api/complaints/c-2", extra["path"])

	// Both records reach stdout.
	assert.Equal(t, 2, bytes.Count(stdout.Bytes(), []byte("\n")))
}

func TestStopWritesBufferedRecords(t *testing.T) {
	db := databasetest.Open(t)
	pg := NewPGHandler(db, time.Hour)

	logger := slog.New(pg)
	logger.Error("shutdown failure", "complaint_id", "c-9")
	logger.Error("second failure")
	pg.Stop()

	var count int64
	require.NoError(t, db.Model(&models.SystemLog{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)

	// A second Stop returns immediately.
	pg.Stop()
}

func TestPurgeOlderThan(t *testing.T) {
	db := databasetest.Open(t)
	pg := NewPGHandler(db, time.Hour)
	t.Cleanup(pg.Stop)

	old := slog.NewRecord(time.Now().AddDate(0, 0, -40), slog.LevelError, "old", 0)
	recent := slog.NewRecord(time.Now(), slog.LevelError, "recent", 0)
	require.NoError(t, pg.Handle(context.Background(), old))
	require.NoError(t, pg.Handle(context.Background(), recent))
	pg.Flush()

	deleted := PurgeOlderThan(db, time.Now().AddDate(0, 0, -30))
	assert.Equal(t, int64(1), deleted)

	var left []models.SystemLog
	require.NoError(t, db.Find(&left).Error)
	require.Len(t, left, 1)
	assert.Equal(t, "recent", left[0].Message)
}

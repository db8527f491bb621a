package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/staffpilot/internal/lifecycle"
	"github.com/jonathan/staffpilot/internal/types"
)

func TestComputeStats(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	now := time.Date(2024, 3, 15, 9, 0, 0, 0, loc)
	logs := []types.EmailLog{
		{Timestamp: "2024-03-15T08:30:00", Recipient: "a@example.com"},
		{Timestamp: "2024-03-14T23:59:59", Recipient: "b@example.com"},
		{Timestamp: "2024-03-15T00:00:00", Recipient: "c@example.com"},
		{Timestamp: "not a time", Recipient: "d@example.com"},
	}

	stats := ComputeStats(logs, now, loc)

	assert.Equal(t, 4, stats.TotalSent)
	assert.Equal(t, 2, stats.SentToday)
	assert.Equal(t, time.Date(2024, 3, 15, 8, 30, 0, 0, loc), stats.LastEmailTimestamp)
}

func TestComputeStats_Deterministic(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	logs := []types.EmailLog{{Timestamp: "2024-03-15T01:00:00"}, {Timestamp: "2024-01-01T01:00:00"}}

	assert.Equal(t, ComputeStats(logs, now, time.UTC), ComputeStats(logs, now, time.UTC))
}

func TestComputeStats_Empty(t *testing.T) {
	stats := ComputeStats(nil, time.Now(), nil)
	assert.Zero(t, stats.TotalSent)
	assert.Zero(t, stats.SentToday)
	assert.True(t, stats.LastEmailTimestamp.IsZero())
}

func TestEmail_LogsReplaceAndRecompute(t *testing.T) {
	s := newTestStore(lifecycle.LatestIssuedWins)

	require.True(t, s.Email.SucceedLogs(s.Email.Begin(EmailLogs), []types.EmailLog{
		{Timestamp: "2024-03-15T08:00:00"},
		{Timestamp: "2024-03-15T09:00:00"},
	}))
	assert.Equal(t, 2, s.Email.Snapshot().Stats.SentToday)

	require.True(t, s.Email.SucceedLogs(s.Email.Begin(EmailLogs), []types.EmailLog{
		{Timestamp: "2024-03-01T08:00:00"},
	}))
	snap := s.Email.Snapshot()
	assert.Len(t, snap.Logs, 1)
	assert.Equal(t, 1, snap.Stats.TotalSent)
	assert.Zero(t, snap.Stats.SentToday)
}

func TestEmail_SendFailureKeepsLogs(t *testing.T) {
	s := newTestStore(lifecycle.LatestIssuedWins)
	require.True(t, s.Email.SucceedLogs(s.Email.Begin(EmailLogs), []types.EmailLog{{Timestamp: "2024-03-15T08:00:00"}}))
	before := s.Email.Snapshot()

	require.True(t, s.Email.Fail(s.Email.Begin(EmailSend), "Failed to send email"))

	assert.Equal(t, before, s.Email.Snapshot())
	assert.Equal(t, lifecycle.Succeeded, s.Email.Status(EmailLogs).State)
}

func TestEmail_Types(t *testing.T) {
	s := newTestStore(lifecycle.LatestIssuedWins)
	catalogue := s.Email.Types()
	require.Len(t, catalogue, 6)
	assert.Equal(t, types.EmailSelection, catalogue[0].Value)
}

func TestEmail_EmptyLogsAreNotNil(t *testing.T) {
	s := newTestStore(lifecycle.LatestIssuedWins)
	assert.Nil(t, s.Email.Snapshot().Logs)

	require.True(t, s.Email.SucceedLogs(s.Email.Begin(EmailLogs), []types.EmailLog{}))

	snap := s.Email.Snapshot()
	assert.NotNil(t, snap.Logs)
	assert.Empty(t, snap.Logs)
	assert.Zero(t, snap.Stats.TotalSent)
}

package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type op string

const (
	opUpload  op = "upload"
	opSummary op = "summary"
)

func fixedClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}

func TestTracker_UnknownKindIsIdle(t *testing.T) {
	tr := NewTracker[op](LatestIssuedWins, nil)
	st := tr.Status(opUpload)
	assert.Equal(t, Idle, st.State)
	assert.Empty(t, st.Err)
	assert.False(t, tr.AnyPending())
}

func TestTracker_BeginClearsError(t *testing.T) {
	tr := NewTracker[op](LatestIssuedWins, nil)

	ticket := tr.Begin(opUpload)
	require.True(t, tr.Fail(ticket, "boom"))
	assert.Equal(t, Failed, tr.Status(opUpload).State)

	tr.Begin(opUpload)
	st := tr.Status(opUpload)
	assert.Equal(t, Pending, st.State)
	assert.Empty(t, st.Err)
	assert.True(t, st.FailedAt.IsZero())
	assert.True(t, tr.AnyPending())
}

func TestTracker_BeginIsReArmable(t *testing.T) {
	tr := NewTracker[op](LatestIssuedWins, nil)
	first := tr.Begin(opUpload)
	second := tr.Begin(opUpload)

	assert.Equal(t, Pending, tr.Status(opUpload).State)
	assert.Greater(t, second.Generation, first.Generation)
}

func TestTracker_KindsAreIndependent(t *testing.T) {
	tr := NewTracker[op](LatestIssuedWins, nil)

	up := tr.Begin(opUpload)
	sum := tr.Begin(opSummary)
	require.True(t, tr.Succeed(sum))
	require.True(t, tr.Fail(up, "upload failed"))

	assert.Equal(t, Succeeded, tr.Status(opSummary).State)
	assert.Equal(t, Failed, tr.Status(opUpload).State)

	tr.ClearError(opUpload)
	assert.Empty(t, tr.Status(opUpload).Err)
	assert.Equal(t, Failed, tr.Status(opUpload).State)
	assert.Equal(t, Succeeded, tr.Status(opSummary).State)
}

// Two overlapping invocations; the first issued settles last.
func TestTracker_LatestIssuedWinsDropsStaleResult(t *testing.T) {
	tr := NewTracker[op](LatestIssuedWins, nil)

	older := tr.Begin(opSummary)
	newer := tr.Begin(opSummary)

	require.True(t, tr.Succeed(newer))
	assert.False(t, tr.Current(older))
	assert.False(t, tr.Succeed(older), "stale ticket must not settle")
	assert.False(t, tr.Fail(older, "late failure"), "stale ticket must not record errors")

	st := tr.Status(opSummary)
	assert.Equal(t, Succeeded, st.State)
	assert.Empty(t, st.Err)
}

func TestTracker_LatestIssuedWinsStalePendingStays(t *testing.T) {
	tr := NewTracker[op](LatestIssuedWins, nil)

	older := tr.Begin(opSummary)
	tr.Begin(opSummary)

	assert.False(t, tr.Succeed(older))
	assert.Equal(t, Pending, tr.Status(opSummary).State, "newest invocation is still in flight")
}

func TestTracker_LastSettledWinsAppliesEveryResult(t *testing.T) {
	tr := NewTracker[op](LastSettledWins, nil)

	older := tr.Begin(opSummary)
	newer := tr.Begin(opSummary)

	require.True(t, tr.Succeed(newer))
	require.True(t, tr.Fail(older, "late failure"))

	st := tr.Status(opSummary)
	assert.Equal(t, Failed, st.State)
	assert.Equal(t, "late failure", st.Err)
}

func TestTracker_ResetSupersedesInFlight(t *testing.T) {
	tr := NewTracker[op](LatestIssuedWins, nil)

	ticket := tr.Begin(opUpload)
	tr.Reset(opUpload)

	assert.Equal(t, Idle, tr.Status(opUpload).State)
	assert.False(t, tr.Succeed(ticket))
	assert.Equal(t, Idle, tr.Status(opUpload).State)
}

func TestTracker_ResetUnderLastSettledWins(t *testing.T) {
	tr := NewTracker[op](LastSettledWins, nil)

	ticket := tr.Begin(opUpload)
	tr.Reset(opUpload)
	assert.True(t, tr.Succeed(ticket))
	assert.Equal(t, Succeeded, tr.Status(opUpload).State)
}

func TestTracker_MostRecentError(t *testing.T) {
	start := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	tr := NewTracker[op](LatestIssuedWins, fixedClock(start))

	_, ok := tr.MostRecentError()
	assert.False(t, ok)

	up := tr.Begin(opUpload)
	sum := tr.Begin(opSummary)
	require.True(t, tr.Fail(sum, "summary failed"))
	require.True(t, tr.Fail(up, "upload failed"))

	rec, ok := tr.MostRecentError()
	require.True(t, ok)
	assert.Equal(t, opUpload, rec.Kind)
	assert.Equal(t, "upload failed", rec.Message)
	assert.Equal(t, start.Add(2*time.Second), rec.At)

	all := tr.Errors()
	require.Len(t, all, 2)
	assert.Equal(t, opSummary, all[0].Kind)

	tr.ClearError(opUpload)
	rec, ok = tr.MostRecentError()
	require.True(t, ok)
	assert.Equal(t, opSummary, rec.Kind)
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    Policy
		wantErr bool
	}{
		{"", LatestIssuedWins, false},
		{"latest-issued", LatestIssuedWins, false},
		{"LAST-SETTLED", LastSettledWins, false},
		{"last_settled", LastSettledWins, false},
		{"random", 0, true},
	}
	for _, tt := range tests {
		got, err := ParsePolicy(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
		assert.Equal(t, got, mustParse(t, got.String()))
	}
}

func mustParse(t *testing.T, s string) Policy {
	t.Helper()
	p, err := ParsePolicy(s)
	require.NoError(t, err)
	return p
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "pending", Pending.String())
	assert.Equal(t, "succeeded", Succeeded.String())
	assert.Equal(t, "failed", Failed.String())
}

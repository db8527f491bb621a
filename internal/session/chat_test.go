package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/staffpilot/internal/conversation"
	"github.com/jonathan/staffpilot/internal/gateway"
	"github.com/jonathan/staffpilot/internal/lifecycle"
	"github.com/jonathan/staffpilot/internal/store"
	"github.com/jonathan/staffpilot/internal/types"
)

func echoChat(w http.ResponseWriter, r *http.Request) {
	var req types.ChatRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"message":   req.Message,
		"response":  "echo: " + req.Message,
		"timestamp": "2024-03-15T10:05:00",
	})
}

func TestSendChat_Success(t *testing.T) {
	f := newFakeService(t)
	conversationIDs := make(chan string, 1)
	f.handle(http.MethodPost, "/resume/chat", func(w http.ResponseWriter, r *http.Request) {
		conversationIDs <- r.Header.Get(ConversationHeader)
		echoChat(w, r)
	})
	s := f.session(t, lifecycle.LatestIssuedWins)

	reply, err := s.SendChat(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "echo: hello", reply.Response)
	assert.Equal(t, s.Store().Chat.ConversationID().String(), <-conversationIDs)

	timeline := s.Timeline()
	require.Len(t, timeline, 3)
	assert.Equal(t, conversation.WelcomeText, timeline[0].Text)
	assert.Equal(t, "hello", timeline[1].Text)
	assert.Equal(t, conversation.OriginUser, timeline[1].Origin)
	assert.Equal(t, "echo: hello", timeline[2].Text)
	assert.Equal(t, timeline[1].ID+1, timeline[2].ID)
	assert.Equal(t, time.Date(2024, 3, 15, 10, 5, 0, 0, time.UTC), timeline[2].Timestamp)
	assert.Equal(t, lifecycle.Succeeded, s.Store().Chat.Status(store.ChatSend).State)
}

func TestSendChat_ListJobsEndToEnd(t *testing.T) {
	f := newFakeService(t)
	f.reply(http.MethodPost, "/resume/chat", http.StatusOK, `{
		"message": "List jobs",
		"response": "Here are the open positions.",
		"timestamp": "2024-03-15T10:05:00",
		"action": "list_jobs",
		"table_data": [{"jobId": 1, "title": "Go Engineer"}, {"jobId": 2, "title": "SRE"}],
		"suggested_prompts": ["Match candidates for Go Engineer"]
	}`)
	s := f.session(t, lifecycle.LatestIssuedWins)
	require.Empty(t, s.Store().Jobs.Snapshot().Jobs)

	_, err := s.SendChat(context.Background(), "List jobs")
	require.NoError(t, err)

	timeline := s.Timeline()
	last := timeline[len(timeline)-1]
	assert.Equal(t, conversation.OriginAssistant, last.Origin)
	require.NotNil(t, last.Table)
	assert.Equal(t, []string{"jobId", "title"}, last.Table.Headers)
	assert.Equal(t, [][]string{{"1", "Go Engineer"}, {"2", "SRE"}}, last.Table.Rows)
	assert.Equal(t, "list_jobs", last.Action)

	prev := timeline[len(timeline)-2]
	assert.Equal(t, conversation.OriginUser, prev.Origin)
	assert.Equal(t, "List jobs", prev.Text)
	assert.Nil(t, prev.Table)
	assert.Empty(t, s.Store().Jobs.Snapshot().Jobs)
}

func TestSendChat_ServerRejected(t *testing.T) {
	f := newFakeService(t)
	f.reply(http.MethodPost, "/resume/chat", http.StatusInternalServerError, `{"detail": "LLM quota exceeded"}`)
	s := f.session(t, lifecycle.LatestIssuedWins)

	_, err := s.SendChat(context.Background(), "hello")
	require.Error(t, err)

	var opErr *OperationError
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, "LLM quota exceeded", opErr.Message)
	assert.True(t, gateway.IsKind(err, gateway.ServerRejected))

	st := s.Store().Chat.Status(store.ChatSend)
	assert.Equal(t, lifecycle.Failed, st.State)
	assert.Equal(t, "LLM quota exceeded", st.Err)

	timeline := s.Timeline()
	require.Len(t, timeline, 2)
	assert.Equal(t, conversation.OriginLocal, timeline[1].Origin)
	assert.Equal(t, "Chat Error: LLM quota exceeded", timeline[1].Text)
	assert.Empty(t, s.Store().Chat.Snapshot().Confirmed)
}

func TestSendChat_FallbackMessage(t *testing.T) {
	f := newFakeService(t)
	f.reply(http.MethodPost, "/resume/chat", http.StatusBadGateway, `oops`)
	s := f.session(t, lifecycle.LatestIssuedWins)

	_, err := s.SendChat(context.Background(), "hello")
	require.Error(t, err)
	assert.Equal(t, "Failed to send message", s.Store().Chat.Status(store.ChatSend).Err)
}

func TestSendChat_DecodeFailure(t *testing.T) {
	f := newFakeService(t)
	f.reply(http.MethodPost, "/resume/chat", http.StatusOK, `{"response": 42}`)
	s := f.session(t, lifecycle.LatestIssuedWins)

	_, err := s.SendChat(context.Background(), "hello")
	require.Error(t, err)
	assert.True(t, gateway.IsKind(err, gateway.DecodeFailure))
	assert.Equal(t, "Failed to send message", s.Store().Chat.Status(store.ChatSend).Err)
}

func TestSendChat_NetworkUnreachable(t *testing.T) {
	f := newFakeService(t)
	s := f.session(t, lifecycle.LatestIssuedWins)
	f.server.Close()

	_, err := s.SendChat(context.Background(), "hello")
	require.Error(t, err)
	assert.True(t, gateway.IsKind(err, gateway.NetworkUnreachable))
	assert.Equal(t, gateway.NetworkErrorMessage, s.Store().Chat.Status(store.ChatSend).Err)
}

func TestSendChat_EmptyMessageRejectedLocally(t *testing.T) {
	f := newFakeService(t)
	s := f.session(t, lifecycle.LatestIssuedWins)

	_, err := s.SendChat(context.Background(), "")
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Zero(t, f.calls.Load())
	assert.Equal(t, lifecycle.Idle, s.Store().Chat.Status(store.ChatSend).State)
}

func TestSendChat_ConcurrentRoundTripsStayPaired(t *testing.T) {
	f := newFakeService(t)
	f.handle(http.MethodPost, "/resume/chat", echoChat)
	s := f.session(t, lifecycle.LatestIssuedWins)

	const n = 8
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.SendChat(context.Background(), fmt.Sprintf("msg %d", i))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	timeline := s.Timeline()
	require.Len(t, timeline, 1+2*n)
	seen := make(map[uint64]bool)
	for i := 1; i < len(timeline); i += 2 {
		user, assistant := timeline[i], timeline[i+1]
		assert.Equal(t, conversation.OriginUser, user.Origin)
		assert.Equal(t, conversation.OriginAssistant, assistant.Origin)
		assert.Equal(t, "echo: "+user.Text, assistant.Text)
		assert.Equal(t, user.ID+1, assistant.ID)
		seen[user.ID] = true
	}
	assert.Len(t, seen, n)
	assert.False(t, s.Dashboard().IsAnythingPending(store.NameChat))
}

func TestTimeline_StableAcrossCalls(t *testing.T) {
	f := newFakeService(t)
	f.handle(http.MethodPost, "/resume/chat", echoChat)
	s := f.session(t, lifecycle.LatestIssuedWins)
	_, err := s.SendChat(context.Background(), "hello")
	require.NoError(t, err)

	if diff := cmp.Diff(s.Timeline(), s.Timeline()); diff != "" {
		t.Fatalf("timeline changed between calls (-first +second):\n%s", diff)
	}
}

func TestClearMemory_ResetsSeedAndConfirmedTogether(t *testing.T) {
	f := newFakeService(t)
	f.handle(http.MethodPost, "/resume/chat", echoChat)
	f.reply(http.MethodPost, "/resume/clear-memory", http.StatusOK, `{"message": "Memory cleared"}`)
	s := f.session(t, lifecycle.LatestIssuedWins)

	_, err := s.SendChat(context.Background(), "hello")
	require.NoError(t, err)
	before := s.Store().Chat.ConversationID()
	oldIDs := make(map[uint64]bool)
	for _, m := range s.Timeline() {
		oldIDs[m.ID] = true
	}

	require.NoError(t, s.ClearMemory(context.Background()))

	timeline := s.Timeline()
	require.Len(t, timeline, 1)
	assert.Equal(t, conversation.ClearedText, timeline[0].Text)
	assert.False(t, oldIDs[timeline[0].ID])
	assert.Empty(t, s.Store().Chat.Snapshot().Confirmed)
	assert.NotEqual(t, before, s.Store().Chat.ConversationID())
}

func TestClearMemory_FailureKeepsEverything(t *testing.T) {
	f := newFakeService(t)
	f.handle(http.MethodPost, "/resume/chat", echoChat)
	f.reply(http.MethodPost, "/resume/clear-memory", http.StatusInternalServerError, `{"detail": "memory store offline"}`)
	s := f.session(t, lifecycle.LatestIssuedWins)

	_, err := s.SendChat(context.Background(), "hello")
	require.NoError(t, err)
	before := s.Timeline()

	require.Error(t, s.ClearMemory(context.Background()))

	assert.Equal(t, before, s.Timeline())
	st := s.Store().Chat.Status(store.ChatClearMemory)
	assert.Equal(t, lifecycle.Failed, st.State)
	assert.Equal(t, "memory store offline", st.Err)
}

func TestClearMemory_ObservedAtomically(t *testing.T) {
	f := newFakeService(t)
	f.handle(http.MethodPost, "/resume/chat", echoChat)
	f.reply(http.MethodPost, "/resume/clear-memory", http.StatusOK, `{"message": "Memory cleared"}`)
	s := f.session(t, lifecycle.LatestIssuedWins)
	for i := 0; i < 3; i++ {
		_, err := s.SendChat(context.Background(), "hello")
		require.NoError(t, err)
	}

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
			}
			timeline := s.Timeline()
			switch timeline[0].Text {
			case conversation.WelcomeText:
				assert.Len(t, timeline, 7)
			case conversation.ClearedText:
				assert.Len(t, timeline, 1)
			}
		}
	}()

	require.NoError(t, s.ClearMemory(context.Background()))
	close(done)
	wg.Wait()
}

func TestSendChat_InFlightAcrossClearIsDiscarded(t *testing.T) {
	f := newFakeService(t)
	arrived := make(chan struct{})
	release := make(chan struct{})
	f.handle(http.MethodPost, "/resume/chat", func(w http.ResponseWriter, r *http.Request) {
		close(arrived)
		<-release
		echoChat(w, r)
	})
	f.reply(http.MethodPost, "/resume/clear-memory", http.StatusOK, `{"message": "Memory cleared"}`)
	s := f.session(t, lifecycle.LatestIssuedWins)

	sent := make(chan error, 1)
	go func() {
		_, err := s.SendChat(context.Background(), "old question")
		sent <- err
	}()
	<-arrived

	require.NoError(t, s.ClearMemory(context.Background()))
	close(release)
	require.NoError(t, <-sent)

	timeline := s.Timeline()
	require.Len(t, timeline, 1)
	assert.Equal(t, conversation.ClearedText, timeline[0].Text)
	assert.Empty(t, s.Store().Chat.Snapshot().Confirmed)
	assert.Equal(t, lifecycle.Succeeded, s.Store().Chat.Status(store.ChatSend).State)
}

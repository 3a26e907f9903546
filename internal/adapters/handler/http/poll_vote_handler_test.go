package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/pollvotes/internal/core/domain"
	"github.com/vncsmyrnk/pollvotes/internal/core/services"
)

type memoryRepo struct {
	votes   map[uuid.UUID][]domain.PollVote
	listErr error
}

func (r *memoryRepo) SaveVote(_ context.Context, pollID uuid.UUID, vote domain.PollVote) error {
	r.votes[pollID] = append(r.votes[pollID], vote)
	return nil
}

func (r *memoryRepo) SaveVotes(_ context.Context, pollID uuid.UUID, votes []domain.PollVote) error {
	r.votes[pollID] = append(r.votes[pollID], votes...)
	return nil
}

func (r *memoryRepo) ListByPoll(_ context.Context, pollID uuid.UUID) ([]domain.PollVote, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.votes[pollID], nil
}

func setupServer(t *testing.T) (*httptest.Server, *memoryRepo) {
	t.Helper()
	repo := &memoryRepo{votes: make(map[uuid.UUID][]domain.PollVote)}
	handler := NewHandler(NewPollVoteHandler(services.NewPollVoteService(repo, nil)))
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server, repo
}

func TestCastVoteAndGetVotes(t *testing.T) {
	server, repo := setupServer(t)
	pollID := uuid.New()
	url := server.URL + "/api/polls/" + pollID.String() + "/votes"

	for _, body := range []string{
		`{"actorType":"users","actorId":"alice","actorDisplayName":"Alice","optionId":1}`,
		`{"actorId":"bob","actorDisplayName":"Bob","optionId":1}`,
		`{"optionId":0}`,
	} {
		resp, err := http.Post(url, "application/json", bytes.NewReader([]byte(body)))
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}
	require.Len(t, repo.votes[pollID], 3)

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var details domain.PollDetails
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&details))

	assert.Equal(t, pollID, details.PollID)
	require.Len(t, details.Details, 3)
	require.NotNil(t, details.Details[0].ActorType)
	assert.Equal(t, "users", *details.Details[0].ActorType)
	assert.Nil(t, details.Details[1].ActorType)
	assert.Equal(t, map[string]int64{"option-0": 1, "option-1": 2}, details.Votes)
	assert.Equal(t, 3, details.NumVoters)
}

func TestCastVoteMalformed(t *testing.T) {
	server, repo := setupServer(t)
	pollID := uuid.New()
	url := server.URL + "/api/polls/" + pollID.String() + "/votes"

	for _, body := range []string{
		`{"actorId":"u3","actorDisplayName":"User Three","optionId":"not-a-number"}`,
		`["u3"]`,
		`{"optionId":-2}`,
	} {
		resp, err := http.Post(url, "application/json", bytes.NewReader([]byte(body)))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
	}
	assert.Empty(t, repo.votes[pollID])
}

func TestInvalidPollID(t *testing.T) {
	server, _ := setupServer(t)

	resp, err := http.Get(server.URL + "/api/polls/not-a-uuid/votes")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestImportDetails(t *testing.T) {
	server, repo := setupServer(t)
	pollID := uuid.New()
	url := server.URL + "/api/polls/" + pollID.String() + "/details"

	body := `[{"actorType":"users","actorId":"u1","actorDisplayName":"User One","optionId":3},{"optionId":5}]`
	resp, err := http.Post(url, "application/json", bytes.NewReader([]byte(body)))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out map[string]int
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, 2, out["imported"])
	assert.Len(t, repo.votes[pollID], 2)

	for _, bad := range []string{
		`[{"optionId":true}]`,
		`[{"optionId":1}] garbage`,
		`[{"actorId":"x","optionId":2},{"actorId":"y","optionId":-1}]`,
	} {
		resp2, err := http.Post(url, "application/json", bytes.NewReader([]byte(bad)))
		require.NoError(t, err)
		resp2.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp2.StatusCode, bad)
	}
	assert.Len(t, repo.votes[pollID], 2)
}

func TestGetVotesInternalError(t *testing.T) {
	server, repo := setupServer(t)
	repo.listErr = errors.New("connection refused")

	resp, err := http.Get(server.URL + "/api/polls/" + uuid.NewString() + "/votes")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

type failingWriter struct {
	*httptest.ResponseRecorder
	writes []string
}

func (w *failingWriter) Write(b []byte) (int, error) {
	w.writes = append(w.writes, string(b))
	if len(w.writes) == 1 {
		return 0, errors.New("client gone")
	}
	return w.ResponseRecorder.Write(b)
}

func TestImportDetailsReportsEncodeFailure(t *testing.T) {
	repo := &memoryRepo{votes: make(map[uuid.UUID][]domain.PollVote)}
	handler := NewHandler(NewPollVoteHandler(services.NewPollVoteService(repo, nil)))

	req := httptest.NewRequest(http.MethodPost, "/api/polls/"+uuid.NewString()+"/details", bytes.NewReader([]byte(`[{"optionId":1}]`)))
	w := &failingWriter{ResponseRecorder: httptest.NewRecorder()}
	handler.ServeHTTP(w, req)

	require.Len(t, w.writes, 2)
	assert.Contains(t, w.writes[1], "failed to encode response")
}

package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/vncsmyrnk/pollvotes/internal/core/domain"
	"github.com/vncsmyrnk/pollvotes/internal/core/ports"
)

const maxBodyBytes = 1 << 20

type PollVoteHandler struct {
	service ports.PollVoteService
}

func NewPollVoteHandler(service ports.PollVoteService) *PollVoteHandler {
	return &PollVoteHandler{
		service: service,
	}
}

// GetVotes godoc
// @Summary      Lists the votes of a poll
// @Description  Returns every vote record of the poll with per-option counts keyed as `option-N`.
// @Tags         votes
// @Produce      json
// @Success      200
// @Failure      400
// @Router       /api/polls/{id}/votes [get]
func (h *PollVoteHandler) GetVotes(w http.ResponseWriter, r *http.Request) {
	pollID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid poll id", http.StatusBadRequest)
		return
	}

	details, err := h.service.GetDetails(r.Context(), pollID)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(details); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

func (h *PollVoteHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	pollID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid poll id", http.StatusBadRequest)
		return
	}

	var vote domain.PollVote
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&vote); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.RecordVote(r.Context(), pollID, vote); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// ImportDetails accepts the details list of a poll response as sent by the
// chat server and records every vote in it.
func (h *PollVoteHandler) ImportDetails(w http.ResponseWriter, r *http.Request) {
	pollID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid poll id", http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	imported, err := h.service.ImportDetails(r.Context(), pollID, body)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(map[string]int{"imported": imported}); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrMalformedVote),
		errors.Is(err, domain.ErrInvalidOption),
		errors.Is(err, domain.ErrInvalidPollID):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrPollNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, domain.ErrInternal.Error(), http.StatusInternalServerError)
	}
}

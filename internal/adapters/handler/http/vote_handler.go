package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/meettogether/internal/core/ports"
)

type VoteHandler struct {
	service ports.VoteService
}

func NewVoteHandler(service ports.VoteService) *VoteHandler {
	return &VoteHandler{
		service: service,
	}
}

// voteRequest is optional; OnBehalfOf names a guest of the same plan.
type voteRequest struct {
	OnBehalfOf *uuid.UUID `json:"on_behalf_of"`
}

// VoteOnPoll godoc
// @Summary      Votes for a poll option
// @Description  Idempotent. Voting on behalf of another guest requires the poll to allow anonymous updates.
// @Tags         votes
// @Accept       json
// @Success      200
// @Failure      401
// @Failure      403
// @Failure      404
// @Router       /polls/{id}/options/{optionId}/vote [post]
func (h *VoteHandler) VoteOnPoll(w http.ResponseWriter, r *http.Request) {
	input, ok := h.voteInput(w, r)
	if !ok {
		return
	}

	if err := h.service.Vote(r.Context(), input); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// Unvote godoc
// @Summary      Removes a vote
// @Description  Idempotent. Removing a vote that does not exist succeeds.
// @Tags         votes
// @Success      200
// @Failure      401
// @Failure      403
// @Failure      404
// @Router       /polls/{id}/options/{optionId}/vote [delete]
func (h *VoteHandler) Unvote(w http.ResponseWriter, r *http.Request) {
	input, ok := h.voteInput(w, r)
	if !ok {
		return
	}

	if err := h.service.Unvote(r.Context(), input); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *VoteHandler) voteInput(w http.ResponseWriter, r *http.Request) (ports.VoteInput, bool) {
	pollID, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return ports.VoteInput{}, false
	}
	optionID, err := uuidParam(r, "optionId")
	if err != nil {
		writeError(w, r, err)
		return ports.VoteInput{}, false
	}

	var req voteRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return ports.VoteInput{}, false
	}

	return ports.VoteInput{
		PollID:        pollID,
		OptionID:      optionID,
		Caller:        rawIdentity(r),
		TargetGuestID: req.OnBehalfOf,
	}, true
}

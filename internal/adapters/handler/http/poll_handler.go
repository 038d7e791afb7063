package http

import (
	"net/http"

	"github.com/vncsmyrnk/meettogether/internal/core/ports"
)

type PollHandler struct {
	service ports.PollService
}

func NewPollHandler(service ports.PollService) *PollHandler {
	return &PollHandler{
		service: service,
	}
}

type createPollRequest struct {
	Name                  string   `json:"name"`
	Options               []string `json:"options"`
	AllowAnonymousUpdates bool     `json:"allow_anonymous_updates"`
}

type addOptionRequest struct {
	Value string `json:"value"`
}

// CreatePoll godoc
// @Summary      Creates a poll in a plan
// @Tags         polls
// @Accept       json
// @Produce      json
// @Success      201
// @Failure      400
// @Failure      401
// @Failure      404
// @Router       /plans/{id}/polls [post]
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	planID, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req createPollRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	poll, err := h.service.Create(r.Context(), ports.CreatePollInput{
		PlanID:                planID,
		Name:                  req.Name,
		Options:               req.Options,
		Creator:               rawIdentity(r),
		AllowAnonymousUpdates: req.AllowAnonymousUpdates,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"pollId": poll.ID, "poll": poll})
}

// GetPoll godoc
// @Summary      Poll tally
// @Description  The poll with every option and its user and guest voters.
// @Tags         polls
// @Produce      json
// @Success      200
// @Failure      404
// @Router       /polls/{id} [get]
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	tally, err := h.service.Tally(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tally)
}

func (h *PollHandler) ListPlanPolls(w http.ResponseWriter, r *http.Request) {
	planID, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	polls, err := h.service.ListByPlan(r.Context(), planID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, polls)
}

func (h *PollHandler) AddOption(w http.ResponseWriter, r *http.Request) {
	pollID, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req addOptionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	option, err := h.service.AddOption(r.Context(), ports.AddOptionInput{
		PollID: pollID,
		Value:  req.Value,
		Caller: rawIdentity(r),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"optionId": option.ID, "option": option})
}

package http

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/meettogether/internal/core/domain"
	"github.com/vncsmyrnk/meettogether/internal/core/ports"
)

type AvailabilityHandler struct {
	service ports.AvailabilityService
}

func NewAvailabilityHandler(service ports.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
	}
}

type timeblockRequest struct {
	Date      string `json:"date"`
	StartSlot int    `json:"start_slot"`
	EndSlot   int    `json:"end_slot"`
}

// GetGrid godoc
// @Summary      Availability grid of a plan
// @Description  Head-count and participants for every (date, slot) cell, indexed by date then slot.
// @Tags         availability
// @Produce      json
// @Success      200
// @Failure      404
// @Router       /plans/{id}/grid [get]
func (h *AvailabilityHandler) GetGrid(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	grid, err := h.service.Grid(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, grid)
}

func (h *AvailabilityHandler) ListTimeblocks(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	blocks, err := h.service.ListTimeblocks(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, blocks)
}

// ReplaceTimeblocks godoc
// @Summary      Replaces the caller's availability
// @Description  The body becomes the caller's whole set of timeblocks for the plan.
// @Tags         availability
// @Accept       json
// @Produce      json
// @Success      200
// @Failure      400
// @Failure      401
// @Router       /plans/{id}/timeblocks [put]
func (h *AvailabilityHandler) ReplaceTimeblocks(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, h.service.ReplaceTimeblocks)
}

// MergeTimeblocks godoc
// @Summary      Adds to the caller's availability
// @Description  The body is merged into the caller's stored timeblocks.
// @Tags         availability
// @Accept       json
// @Produce      json
// @Success      200
// @Failure      400
// @Failure      401
// @Router       /plans/{id}/timeblocks [post]
func (h *AvailabilityHandler) MergeTimeblocks(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, h.service.MergeTimeblocks)
}

func (h *AvailabilityHandler) RevokeTimeblocks(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	dates := r.URL.Query()["date"]
	if err := h.service.RevokeTimeblocks(r.Context(), id, rawIdentity(r), dates); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type submitFunc func(ctx context.Context, input ports.SubmitTimeblocksInput) ([]domain.Timeblock, error)

func (h *AvailabilityHandler) submit(w http.ResponseWriter, r *http.Request, fn submitFunc) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req []timeblockRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	blocks, err := fn(r.Context(), submitInput(id, rawIdentity(r), req))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, blocks)
}

func submitInput(planID uuid.UUID, raw ports.RawIdentity, req []timeblockRequest) ports.SubmitTimeblocksInput {
	input := ports.SubmitTimeblocksInput{
		PlanID:   planID,
		Identity: raw,
		Blocks:   make([]ports.TimeblockInput, 0, len(req)),
	}
	for _, b := range req {
		input.Blocks = append(input.Blocks, ports.TimeblockInput{
			Date:      b.Date,
			StartSlot: b.StartSlot,
			EndSlot:   b.EndSlot,
		})
	}
	return input
}

package http

import (
	"net/http"

	"github.com/vncsmyrnk/meettogether/internal/core/ports"
)

type PlanHandler struct {
	service ports.PlanService
}

func NewPlanHandler(service ports.PlanService) *PlanHandler {
	return &PlanHandler{
		service: service,
	}
}

type createPlanRequest struct {
	Name      string   `json:"name"`
	Dates     []string `json:"dates"`
	StartTime string   `json:"start_time"`
	EndTime   string   `json:"end_time"`
	IsPublic  *bool    `json:"is_public"`
	Agenda    string   `json:"agenda"`
}

// CreatePlan godoc
// @Summary      Creates a plan
// @Description  Creates a plan over candidate dates and a daily window. Plans are public unless is_public is false.
// @Tags         plans
// @Accept       json
// @Produce      json
// @Success      201
// @Failure      400
// @Router       /plans [post]
func (h *PlanHandler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	var req createPlanRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	plan, err := h.service.Create(r.Context(), ports.CreatePlanInput{
		Name:      req.Name,
		Dates:     req.Dates,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		IsPublic:  isPublic,
		Agenda:    req.Agenda,
		Creator:   sessionUser(r),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"planId": plan.ID, "plan": plan})
}

func (h *PlanHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	view, err := h.service.GetPlan(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

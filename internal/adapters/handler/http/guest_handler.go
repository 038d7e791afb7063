package http

import (
	"net/http"

	"github.com/vncsmyrnk/meettogether/internal/core/ports"
)

type GuestHandler struct {
	service ports.IdentityService
}

func NewGuestHandler(service ports.IdentityService) *GuestHandler {
	return &GuestHandler{
		service: service,
	}
}

type guestLoginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type guestLoginResponse struct {
	GuestID     string `json:"guest_id"`
	DisplayName string `json:"display_name"`
}

// Login godoc
// @Summary      Signs a guest into a plan
// @Description  Creates the guest on first use. An existing name must present its password. The returned guest_id goes in the X-Guest-ID header afterwards.
// @Tags         guests
// @Accept       json
// @Produce      json
// @Success      200
// @Failure      400
// @Failure      401
// @Failure      404
// @Router       /plans/{id}/guests/login [post]
func (h *GuestHandler) Login(w http.ResponseWriter, r *http.Request) {
	planID, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req guestLoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	guest, err := h.service.GuestLogin(r.Context(), ports.GuestLoginInput{
		PlanID:   planID,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, guestLoginResponse{
		GuestID:     guest.ID.String(),
		DisplayName: guest.DisplayName,
	})
}

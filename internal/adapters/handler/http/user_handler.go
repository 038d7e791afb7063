package http

import (
	"net/http"

	"github.com/vncsmyrnk/meettogether/internal/core/domain"
)

type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

type meResponse struct {
	*domain.PlatformUser
	Identity domain.Identity `json:"identity"`
}

func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user := sessionUser(r)
	if user == nil {
		writeError(w, r, domain.ErrMissingIdentity)
		return
	}

	writeJSON(w, http.StatusOK, meResponse{PlatformUser: user, Identity: user.Identity()})
}

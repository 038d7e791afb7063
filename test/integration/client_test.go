package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	handler "github.com/vncsmyrnk/meettogether/internal/adapters/handler/http"
)

type caller struct {
	token         string
	guestID       string
	guestPassword string
}

func (app *TestApp) call(t *testing.T, method, path string, payload any, as caller) *http.Response {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}

	req, err := http.NewRequest(method, app.Server.URL+path, &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if as.token != "" {
		req.AddCookie(&http.Cookie{Name: handler.AccessTokenCookie, Value: as.token})
	}
	if as.guestID != "" {
		req.Header.Set(handler.GuestIDHeader, as.guestID)
		req.Header.Set(handler.GuestPasswordHeader, as.guestPassword)
	}

	resp, err := app.Client.Do(req)
	require.NoError(t, err)
	return resp
}

func readJSON(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func (app *TestApp) guest(t *testing.T, planID, name, password string) caller {
	t.Helper()
	resp := app.call(t, http.MethodPost, "/plans/"+planID+"/guests/login", map[string]string{
		"name":     name,
		"password": password,
	}, caller{})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var login struct {
		GuestID string `json:"guest_id"`
	}
	readJSON(t, resp, &login)
	return caller{guestID: login.GuestID, guestPassword: password}
}

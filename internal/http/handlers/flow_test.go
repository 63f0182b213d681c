package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/captionly/captionly-be/internal/auth"
	"github.com/captionly/captionly-be/internal/captions"
	"github.com/captionly/captionly-be/internal/middleware"
	"github.com/captionly/captionly-be/internal/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFullFlow exercises the wired endpoints end to end:
// register -> login -> generate with bearer token -> list -> delete.
func TestFullFlow(t *testing.T) {
	store := memory.New()
	tokens := auth.NewTokenManager("test-secret", "captionly-test", time.Hour)
	authn := auth.NewAuthenticator(store, verifierStub{})
	service := captions.NewService(store, generatorStub{text: "Shipping it today 🚀 #buildinpublic"})

	mux := http.NewServeMux()
	NewAuthHandler(authn, tokens).Register(mux)
	NewCaptionHandler(service).Register(mux, middleware.RequireAuth(tokens))

	ts := httptest.NewServer(mux)
	defer ts.Close()

	// Register.
	resp := postFlow(t, ts.URL+"/api/auth/register", "", map[string]string{
		"name": "Alice", "email": "alice@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Login with the same credentials.
	resp = postFlow(t, ts.URL+"/api/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var login struct {
		Token string `json:"token"`
		User  struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&login))
	resp.Body.Close()
	require.NotEmpty(t, login.Token)
	require.Equal(t, "alice@example.com", login.User.Email)

	// The protected handler resolves the same identity from the token.
	resp = postFlow(t, ts.URL+"/api/generate-caption", login.Token, map[string]string{
		"prompt": "our new feature",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var generated struct {
		Caption struct {
			ID      string `json:"id"`
			Caption string `json:"caption"`
		} `json:"caption"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&generated))
	resp.Body.Close()
	assert.Equal(t, "Shipping it today 🚀 #buildinpublic", generated.Caption.Caption)

	// History lists the caption.
	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/captions", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	listResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	var history struct {
		Captions []struct {
			ID string `json:"id"`
		} `json:"captions"`
	}
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&history))
	listResp.Body.Close()
	require.Len(t, history.Captions, 1)
	assert.Equal(t, generated.Caption.ID, history.Captions[0].ID)

	// Delete it.
	req, err = http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/api/captions/%s", ts.URL, generated.Caption.ID), nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	delResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, delResp.StatusCode)
	delResp.Body.Close()
}

func postFlow(t *testing.T, url, bearer string, payload map[string]string) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerBody(username, email string) map[string]string {
	return map[string]string{
		"name":     "Test User",
		"email":    email,
		"address":  "1 Test Street",
		"username": username,
		"password": "password123",
	}
}

func TestAuthHandlers(t *testing.T) {
	h, notifier := setupTestHandler()
	r := setupTestRouter(h)

	t.Run("Register success", func(t *testing.T) {
		w := doJSON(r, "POST", "/auth/register", registerBody("testuser", "test@example.com"), nil)
		assert.Equal(t, http.StatusCreated, w.Code)

		var resp map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &resp)
		assert.Equal(t, "testuser", resp["username"])
		assert.NotContains(t, w.Body.String(), "password")
	})

	t.Run("Register conflict", func(t *testing.T) {
		w := doJSON(r, "POST", "/auth/register", registerBody("testuser", "test@example.com"), nil)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Register invalid input", func(t *testing.T) {
		w := doJSON(r, "POST", "/auth/register", map[string]string{
			"username": "tu",
			"email":    "invalid",
		}, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	var token string
	t.Run("Login success", func(t *testing.T) {
		w := doJSON(r, "POST", "/auth/login", map[string]string{
			"username": "testuser",
			"password": "password123",
		}, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &resp)
		token, _ = resp["access_token"].(string)
		assert.NotEmpty(t, token)
		assert.Equal(t, "bearer", resp["token_type"])
	})

	t.Run("Login invalid credentials", func(t *testing.T) {
		w := doJSON(r, "POST", "/auth/login", map[string]string{
			"username": "testuser",
			"password": "wrongpassword",
		}, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Login nonexistent user", func(t *testing.T) {
		w := doJSON(r, "POST", "/auth/login", map[string]string{
			"username": "ghost",
			"password": "password123",
		}, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Me with bearer token", func(t *testing.T) {
		w := doJSON(r, "GET", "/auth/me", nil, map[string]string{
			"Authorization": "Bearer " + token,
		})
		require.Equal(t, http.StatusOK, w.Code)

		var resp map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &resp)
		assert.Equal(t, "testuser", resp["username"])
	})

	t.Run("Me without token", func(t *testing.T) {
		w := doJSON(r, "GET", "/auth/me", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Me with malformed header", func(t *testing.T) {
		for _, header := range []string{"testtoken", "Bearer", "Basic abc", "Bearer "} {
			w := doJSON(r, "GET", "/auth/me", nil, map[string]string{"Authorization": header})
			assert.Equal(t, http.StatusUnauthorized, w.Code, "header: %q", header)
		}
	})

	var keyID float64
	var rawKey string
	t.Run("Issue API key", func(t *testing.T) {
		w := doJSON(r, "POST", "/auth/apikeys", nil, map[string]string{
			"Authorization": "Bearer " + token,
		})
		require.Equal(t, http.StatusCreated, w.Code)

		var resp map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &resp)
		keyID = resp["id"].(float64)
		rawKey, _ = resp["raw_key"].(string)
		assert.NotEmpty(t, rawKey)
	})

	t.Run("List API keys never exposes raw values", func(t *testing.T) {
		w := doJSON(r, "GET", "/auth/apikeys", nil, map[string]string{
			"Authorization": "Bearer " + token,
		})
		require.Equal(t, http.StatusOK, w.Code)

		var keys []map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &keys)
		require.Len(t, keys, 1)
		assert.Equal(t, keyID, keys[0]["id"])
		assert.Equal(t, false, keys[0]["revoked"])
		assert.NotContains(t, w.Body.String(), rawKey)
	})

	t.Run("Revoke API key", func(t *testing.T) {
		path := fmt.Sprintf("/auth/apikeys/%d", int(keyID))
		w := doJSON(r, "DELETE", path, nil, map[string]string{
			"Authorization": "Bearer " + token,
		})
		assert.Equal(t, http.StatusOK, w.Code)

		// idempotent
		w = doJSON(r, "DELETE", path, nil, map[string]string{
			"Authorization": "Bearer " + token,
		})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Revoke unknown key", func(t *testing.T) {
		w := doJSON(r, "DELETE", "/auth/apikeys/9999", nil, map[string]string{
			"Authorization": "Bearer " + token,
		})
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = doJSON(r, "DELETE", "/auth/apikeys/not-a-number", nil, map[string]string{
			"Authorization": "Bearer " + token,
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Reset request is generic for unknown email", func(t *testing.T) {
		w := doJSON(r, "POST", "/auth/password-reset/request", map[string]string{
			"email": "ghost@example.com",
		}, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "If the email exists")
		assert.Empty(t, notifier.tokens)
	})

	t.Run("Reset request creates token for known email", func(t *testing.T) {
		w := doJSON(r, "POST", "/auth/password-reset/request", map[string]string{
			"email": "test@example.com",
		}, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "If the email exists")
		require.Len(t, notifier.tokens, 1)
	})

	t.Run("Reset confirm rotates password", func(t *testing.T) {
		w := doJSON(r, "POST", "/auth/password-reset/confirm", map[string]string{
			"token":        notifier.tokens[0],
			"new_password": "password456",
		}, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		w = doJSON(r, "POST", "/auth/login", map[string]string{
			"username": "testuser",
			"password": "password123",
		}, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w = doJSON(r, "POST", "/auth/login", map[string]string{
			"username": "testuser",
			"password": "password456",
		}, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Reset confirm rejects reuse", func(t *testing.T) {
		w := doJSON(r, "POST", "/auth/password-reset/confirm", map[string]string{
			"token":        notifier.tokens[0],
			"new_password": "password789",
		}, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid or expired token")
	})

	t.Run("Reset confirm rejects unknown token", func(t *testing.T) {
		w := doJSON(r, "POST", "/auth/password-reset/confirm", map[string]string{
			"token":        "unknown",
			"new_password": "password789",
		}, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIKeyAuth(t *testing.T) {
	h, _ := setupTestHandler()
	r := setupTestRouter(h)

	// provision a user and an API key through the public surface
	w := doJSON(r, "POST", "/auth/register", registerBody("keyuser", "keyuser@example.com"), nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, "POST", "/auth/login", map[string]string{
		"username": "keyuser",
		"password": "password123",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var login map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &login)
	token := login["access_token"].(string)

	w = doJSON(r, "POST", "/auth/apikeys", nil, map[string]string{"Authorization": "Bearer " + token})
	require.Equal(t, http.StatusCreated, w.Code)
	var issued map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &issued)
	rawKey := issued["raw_key"].(string)
	keyID := int(issued["id"].(float64))

	convertBody := map[string]interface{}{"messages": []string{"METAR KJFK 231751Z 18004KT"}}

	t.Run("Missing key", func(t *testing.T) {
		w := doJSON(r, "POST", "/api/convert", convertBody, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Invalid key", func(t *testing.T) {
		w := doJSON(r, "POST", "/api/convert", convertBody, map[string]string{"X-API-Key": "bogus"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Valid key", func(t *testing.T) {
		w := doJSON(r, "POST", "/api/convert", convertBody, map[string]string{"X-API-Key": rawKey})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Revoked key is rejected", func(t *testing.T) {
		w := doJSON(r, "DELETE", "/auth/apikeys/"+itoaTest(keyID), nil, map[string]string{"Authorization": "Bearer " + token})
		require.Equal(t, http.StatusOK, w.Code)

		w = doJSON(r, "POST", "/api/convert", convertBody, map[string]string{"X-API-Key": rawKey})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

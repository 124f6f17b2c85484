package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seoauditor/engine/internal/audit"
	"github.com/seoauditor/engine/internal/config"
)

func TestHandleHealth(t *testing.T) {
	s := NewServer(audit.New(config.Default(), nil))
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	s.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestHandleAuditRejectsNonPost(t *testing.T) {
	s := NewServer(audit.New(config.Default(), nil))
	req := httptest.NewRequest(http.MethodGet, "/audit", nil)
	rec := httptest.NewRecorder()

	s.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleAuditRejectsInvalidBody(t *testing.T) {
	s := NewServer(audit.New(config.Default(), nil))
	req := httptest.NewRequest(http.MethodPost, "/audit", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()

	s.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAuditRejectsInvalidURL(t *testing.T) {
	s := NewServer(audit.New(config.Default(), nil))
	payload, err := json.Marshal(map[string]any{"url": "not a url"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/audit", bytes.NewReader(payload))
	rec := httptest.NewRecorder()

	s.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "invalid_url", body["error"])
}

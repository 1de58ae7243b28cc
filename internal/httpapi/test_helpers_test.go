package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"productivity-tracker/internal/repository/repotest"
	"productivity-tracker/internal/service"
)

func newTestServices(t *testing.T) Services {
	t.Helper()
	store := repotest.NewStore(t)
	return Services{
		Categories: service.NewCategoryService(store),
		Tasks:      service.NewTaskService(store),
		Notes:      service.NewNoteService(store),
		Users:      service.NewUserService(store),
	}
}

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	return NewServer(newTestServices(t), zerolog.Nop(), "http://localhost:3000").Handler()
}

func do(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v))
	return v
}

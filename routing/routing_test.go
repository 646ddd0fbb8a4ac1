package routing

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForm(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?query=stockholm&query=ignored&limit=5", nil)

	form, err := Form(r)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"query": "stockholm", "limit": "5"}, form)
}

func TestRouteHandler(t *testing.T) {

	t.Run("success", func(t *testing.T) {
		rec := httptest.NewRecorder()
		RouteHandler(func(w http.ResponseWriter, r *http.Request) error {
			w.WriteHeader(http.StatusNoContent)
			return nil
		})(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("error", func(t *testing.T) {
		rec := httptest.NewRecorder()
		RouteHandler(func(w http.ResponseWriter, r *http.Request) error {
			return errors.New("database locked")
		})(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "database locked")
	})
}

//go:build !dev

package resources

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsset(t *testing.T) {
	css, err := Asset("pagecraft.css")
	require.NoError(t, err)
	assert.Contains(t, string(css), ".cms-block")

	_, err = Asset("missing.js")
	assert.Error(t, err)
}

func TestHandler(t *testing.T) {
	tests := []struct {
		path string
		code int
	}{
		{StaticPath("animate.js"), http.StatusOK},
		{StaticPath("pagecraft.css"), http.StatusOK},
		{StaticPath("missing.js"), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, "public, max-age=300", rec.Header().Get("Cache-Control"))
		})
	}
}

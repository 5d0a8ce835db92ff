package binder_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/morshed33/xprs-go/pkg/binder"
)

type createRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func jsonRequest(body, contentType string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	if contentType != "" {
		r.Header.Set("Content-Type", contentType)
	}
	return r
}

func TestJSON(t *testing.T) {
	t.Parallel()

	t.Run("valid body", func(t *testing.T) {
		t.Parallel()
		var req createRequest
		err := binder.JSON()(jsonRequest(`{"name":"Ada","email":"ada@example.com"}`, "application/json; charset=utf-8"), &req)
		require.NoError(t, err)
		assert.Equal(t, "Ada", req.Name)
		assert.Equal(t, "ada@example.com", req.Email)
	})

	tests := []struct {
		name        string
		body        string
		contentType string
		wantErr     error
	}{
		{"missing content type", `{}`, "", binder.ErrMissingContentType},
		{"wrong content type", `{}`, "text/plain", binder.ErrUnsupportedMediaType},
		{"malformed", `{"name":`, "application/json", binder.ErrFailedToParseJSON},
		{"empty body", ``, "application/json", binder.ErrFailedToParseJSON},
		{"unknown field", `{"nickname":"x"}`, "application/json", binder.ErrFailedToParseJSON},
		{"trailing data", `{"name":"a"} {"name":"b"}`, "application/json", binder.ErrFailedToParseJSON},
		{"wrong type", `{"name":42}`, "application/json", binder.ErrFailedToParseJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var req createRequest
			err := binder.JSON()(jsonRequest(tt.body, tt.contentType), &req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("body too large", func(t *testing.T) {
		t.Parallel()
		var req createRequest
		body := `{"name":"` + strings.Repeat("a", 64) + `"}`
		err := binder.JSONWithLimit(16)(jsonRequest(body, "application/json"), &req)
		assert.ErrorIs(t, err, binder.ErrBodyTooLarge)
	})
}

type listRequest struct {
	Limit     int      `query:"limit"`
	Offset    int      `query:"offset"`
	Published *bool    `query:"published"`
	Tags      []string `query:"tag"`
	Ignored   string
}

func TestQuery(t *testing.T) {
	t.Parallel()

	t.Run("binds tagged fields", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodGet, "/?limit=5&offset=10&published=true&tag=a,b&Ignored=x", nil)
		req := listRequest{Limit: 20}
		require.NoError(t, binder.Query()(r, &req))
		assert.Equal(t, 5, req.Limit)
		assert.Equal(t, 10, req.Offset)
		require.NotNil(t, req.Published)
		assert.True(t, *req.Published)
		assert.Equal(t, []string{"a", "b"}, req.Tags)
		assert.Empty(t, req.Ignored)
	})

	t.Run("keeps defaults", func(t *testing.T) {
		t.Parallel()
		req := listRequest{Limit: 20}
		require.NoError(t, binder.Query()(httptest.NewRequest(http.MethodGet, "/", nil), &req))
		assert.Equal(t, 20, req.Limit)
		assert.Nil(t, req.Published)
	})

	t.Run("invalid number", func(t *testing.T) {
		t.Parallel()
		var req listRequest
		err := binder.Query()(httptest.NewRequest(http.MethodGet, "/?limit=ten", nil), &req)
		assert.ErrorIs(t, err, binder.ErrInvalidQuery)
	})

	t.Run("non struct target", func(t *testing.T) {
		t.Parallel()
		var n int
		err := binder.Query()(httptest.NewRequest(http.MethodGet, "/", nil), &n)
		assert.ErrorIs(t, err, binder.ErrInvalidQuery)
	})
}

func TestPath(t *testing.T) {
	t.Parallel()

	params := map[string]string{"id": "42"}
	extract := func(_ *http.Request, name string) string { return params[name] }

	var req struct {
		ID    string `path:"id"`
		Other string `path:"other"`
	}
	require.NoError(t, binder.Path(extract)(httptest.NewRequest(http.MethodGet, "/", nil), &req))
	assert.Equal(t, "42", req.ID)
	assert.Empty(t, req.Other)

	err := binder.Path(nil)(httptest.NewRequest(http.MethodGet, "/", nil), &req)
	assert.ErrorIs(t, err, binder.ErrInvalidPath)
}

package predict

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bastiangx/lessonpad/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequestTrimsContext(t *testing.T) {
	s := config.DefaultSettings()
	s.ContextWindow = 3

	req := NewRequest("one two three four fi", s)
	assert.Equal(t, "three four fi", req.Context)

	req = NewRequest("one two three four ", s)
	assert.Equal(t, "two three four ", req.Context)
}

func TestHTTPClientPredict(t *testing.T) {
	var got Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"suggestions": ["cat", "car", "cart"]}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, srv.Client())
	req := NewRequest("the ca", config.DefaultSettings())
	words, err := c.Predict(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, []string{"cat", "car", "cart"}, words)
	assert.Equal(t, req, got)
}

func TestHTTPClientStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail": "Context cannot be empty"}`))
	}))
	defer srv.Close()

	_, err := NewHTTPClient(srv.URL, nil).Predict(context.Background(), Request{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
	assert.NotErrorIs(t, err, ErrMalformed)
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), "Context cannot be empty")
}

func TestHTTPClientUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewHTTPClient(url, nil).Predict(context.Background(), Request{})
	assert.ErrorIs(t, err, ErrTransport)
}

func TestParseResponse(t *testing.T) {
	words, err := ParseResponse([]byte(`{"merged": ["a", "b"]}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, words)

	words, err = ParseResponse([]byte(`{"suggestions": []}`))
	require.NoError(t, err)
	assert.Empty(t, words)

	for _, body := range []string{
		`not json`,
		`{}`,
		`{"suggestions": "cat"}`,
		`{"suggestions": ["cat", 3]}`,
	} {
		_, err := ParseResponse([]byte(body))
		assert.ErrorIs(t, err, ErrMalformed, body)
		assert.ErrorIs(t, err, ErrTransport, body)
	}
}

func TestDoWrapsErrors(t *testing.T) {
	boom := errors.New("boom")
	p := PredictorFunc(func(context.Context, Request) ([]string, error) { return nil, boom })

	res := Do(context.Background(), p, Request{Context: "x"})
	assert.False(t, res.OK())
	assert.ErrorIs(t, res.Err, ErrTransport)
	assert.ErrorIs(t, res.Err, boom)
	assert.Equal(t, "x", res.Request.Context)

	ok := PredictorFunc(func(context.Context, Request) ([]string, error) { return []string{"y"}, nil })
	res = Do(context.Background(), ok, Request{})
	assert.True(t, res.OK())
	assert.Equal(t, []string{"y"}, res.Words)
}

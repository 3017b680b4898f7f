package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Do(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req Request
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "RecentPosts", req.OperationName)
			assert.Equal(t, float64(2), req.Variables["count"])

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"data": {"recentPosts": [{"title": "Hello"}]}}`))
		}))
		defer srv.Close()

		resp, err := New(srv.URL).Do(context.Background(), Request{
			Query:         "query RecentPosts($count: Int!) { recentPosts(count: $count) { title } }",
			OperationName: "RecentPosts",
			Variables:     map[string]interface{}{"count": 2},
		})
		require.NoError(t, err)

		assert.Empty(t, resp.Errors)
		assert.Contains(t, string(resp.Data), "Hello")
	})

	t.Run("graphql errors in the body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"errors": [{"message": "boom"}]}`))
		}))
		defer srv.Close()

		resp, err := New(srv.URL).Do(context.Background(), Request{Query: "{ x }"})
		require.NoError(t, err)

		require.Len(t, resp.Errors, 1)
		assert.Equal(t, "boom", resp.Errors[0].Message)
	})

	t.Run("retries transient server errors", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			_, _ = w.Write([]byte(`{"data": {}}`))
		}))
		defer srv.Close()

		c := New(srv.URL)
		c.http.RetryWaitMin = time.Millisecond
		c.http.RetryWaitMax = 5 * time.Millisecond

		resp, err := c.Do(context.Background(), Request{Query: "{ x }"})
		require.NoError(t, err)

		assert.Empty(t, resp.Errors)
		assert.GreaterOrEqual(t, calls.Load(), int32(2))
	})

	t.Run("unreachable endpoint", func(t *testing.T) {
		c := New("http://127.0.0.1:1/graphql")
		c.http.RetryMax = 0

		_, err := c.Do(context.Background(), Request{Query: "{ x }"})
		assert.Error(t, err)
	})
}

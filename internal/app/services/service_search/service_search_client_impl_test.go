package service_search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(server *httptest.Server) *serviceSearchClient {
	return newServiceSearchClient(server.URL+"/service-search", "test-key", server.Client(), 100, zap.NewNop())
}

func TestSearchService(t *testing.T) {
	ctx := context.Background()

	t.Run("sends the distance selling query", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/service-search", r.URL.Path)
			assert.Equal(t, "test-key", r.Header.Get("Subscription-Key"))
			query := r.URL.Query()
			assert.Equal(t, "2", query.Get("api-version"))
			assert.Equal(t, "ODSCode", query.Get("searchFields"))
			assert.Equal(t, "OrganisationTypeId eq 'PHA' and OrganisationSubType eq 'DistanceSelling'", query.Get("$filter"))
			assert.Equal(t, "URL,OrganisationSubType", query.Get("$select"))
			assert.Equal(t, "1", query.Get("$top"))
			assert.Equal(t, "FLM49", query.Get("search"))
			_, _ = w.Write([]byte(`{"value":[{"URL":"https://www.pharmacy2u.co.uk/","OrganisationSubType":"DistanceSelling"}]}`))
		}))
		defer server.Close()

		found, err := newTestClient(server).SearchService(ctx, "FLM49")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "https://www.pharmacy2u.co.uk/", found.String())
	})

	cases := []struct {
		name string
		body string
	}{
		{"empty result", `{"value":[]}`},
		{"null URL", `{"value":[{"URL":null,"OrganisationSubType":"DistanceSelling"}]}`},
		{"unparseable URL", `{"value":[{"URL":"not a url","OrganisationSubType":"DistanceSelling"}]}`},
		{"unsupported protocol", `{"value":[{"URL":"ftp://pharmacy.example","OrganisationSubType":"DistanceSelling"}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			found, err := newTestClient(server).SearchService(ctx, "FA565")
			require.NoError(t, err)
			assert.Nil(t, found)
		})
	}

	t.Run("retries server errors three times", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		found, err := newTestClient(server).SearchService(ctx, "FLM49")
		assert.Error(t, err)
		assert.Nil(t, found)
		assert.Equal(t, int32(4), atomic.LoadInt32(&calls))
	})

	t.Run("recovers after a transient failure", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&calls, 1) == 1 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte(`{"value":[{"URL":"http://pharmacy.example","OrganisationSubType":"DistanceSelling"}]}`))
		}))
		defer server.Close()

		found, err := newTestClient(server).SearchService(ctx, "FLM49")
		require.NoError(t, err)
		assert.Equal(t, "http://pharmacy.example", found.String())
		assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	})

	t.Run("does not retry client errors", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		_, err := newTestClient(server).SearchService(ctx, "FLM49")
		assert.Error(t, err)
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("invalid JSON", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{`))
		}))
		defer server.Close()

		_, err := newTestClient(server).SearchService(ctx, "FLM49")
		assert.Error(t, err)
	})
}

func TestStripSubscriptionKey(t *testing.T) {
	client := newServiceSearchClient("http://localhost", "secret-key", http.DefaultClient, 1, zap.NewNop())
	err := client.stripSubscriptionKey(assert.AnError)
	assert.Equal(t, assert.AnError, err)

	err = client.stripSubscriptionKey(errorString("header Subscription-Key: secret-key rejected"))
	assert.NotContains(t, err.Error(), "secret-key")
}

type errorString string

func (e errorString) Error() string { return string(e) }

func TestGetStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	status := newTestClient(server).GetStatus(context.Background())
	assert.Equal(t, "pass", status.Status)
	assert.Equal(t, http.StatusOK, status.ResponseCode)

	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer slow.Close()

	client := newServiceSearchClient(slow.URL, "k", &http.Client{Timeout: 20 * time.Millisecond}, 10, zap.NewNop())
	status = client.GetStatus(context.Background())
	assert.Equal(t, "error", status.Status)
	assert.Equal(t, "true", status.Timeout)
}

func TestSandboxServiceSearchClient(t *testing.T) {
	client := NewSandboxServiceSearchClient()

	found, err := client.SearchService(context.Background(), "FLM49")
	require.NoError(t, err)
	assert.Equal(t, "https://www.pharmacy2u.co.uk", found.String())

	found, err = client.SearchService(context.Background(), "FA565")
	require.NoError(t, err)
	assert.Nil(t, found)

	assert.Equal(t, "pass", client.GetStatus(context.Background()).Status)
}

package enrich

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"linkbio/internal/config"
	"linkbio/internal/domain"
	"linkbio/internal/model"
)

func newGeoClient(t *testing.T, handler http.HandlerFunc) *GeoClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	cfg := &config.Config{GeoAPIURL: server.URL, GeoLang: "en", GeoTimeout: time.Second}
	return NewGeoClient(cfg, zap.NewNop())
}

func TestGeoLookupSuccess(t *testing.T) {
	var gotPath, gotLang string
	client := newGeoClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotLang = r.URL.Query().Get("lang")
		_, _ = w.Write([]byte(`{"status":"success","country":"Germany","city":"Berlin","isp":"Telekom","timezone":"Europe/Berlin","proxy":true}`))
	})

	info, err := client.Lookup(context.Background(), "8.8.4.4")
	require.NoError(t, err)
	require.Equal(t, "/json/8.8.4.4", gotPath)
	require.Equal(t, "en", gotLang)
	require.Equal(t, "Berlin", info.City)
	require.Equal(t, "Telekom", info.ISP)
	require.Equal(t, domain.Unknown, info.Org)
	require.True(t, info.Proxy)
}

func TestGeoLookupFailOpen(t *testing.T) {
	t.Run("api failure status", func(t *testing.T) {
		client := newGeoClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status":"fail","message":"reserved range"}`))
		})
		info, err := client.Lookup(context.Background(), "8.8.4.4")
		require.Error(t, err)
		require.Equal(t, Placeholder(), info)
	})

	t.Run("http error", func(t *testing.T) {
		client := newGeoClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		})
		info, err := client.Lookup(context.Background(), "8.8.4.4")
		require.Error(t, err)
		require.Equal(t, domain.Unknown, info.City)
	})

	t.Run("timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer server.Close()
		client := NewGeoClient(&config.Config{GeoAPIURL: server.URL, GeoTimeout: 20 * time.Millisecond}, zap.NewNop())

		info, err := client.Lookup(context.Background(), "8.8.4.4")
		require.Error(t, err)
		require.Equal(t, domain.Unknown, info.ISP)
	})

	t.Run("invalid ip", func(t *testing.T) {
		client := newGeoClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Fatalf("unexpected request")
		})
		info, err := client.Lookup(context.Background(), "not-an-ip")
		require.Error(t, err)
		require.Equal(t, Placeholder(), info)
	})
}

func TestGeoLookupSkipsLocalAddresses(t *testing.T) {
	var calls int32
	client := newGeoClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	})
	for _, ip := range []string{"127.0.0.1", "10.1.2.3", "192.168.0.10", "::1"} {
		info, err := client.Lookup(context.Background(), ip)
		require.NoError(t, err)
		require.Equal(t, localNetwork, info.City)
	}
	require.Zero(t, atomic.LoadInt32(&calls))
}

func TestGeoBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var calls int32
	client := newGeoClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	})
	for i := 0; i < 8; i++ {
		_, err := client.Lookup(context.Background(), "8.8.4.4")
		require.Error(t, err)
	}
	require.Equal(t, int32(5), atomic.LoadInt32(&calls))
}

type geoMock struct {
	mock.Mock
}

func (m *geoMock) Lookup(ctx context.Context, ip string) (model.GeoInfo, error) {
	args := m.Called(ctx, ip)
	return args.Get(0).(model.GeoInfo), args.Error(1)
}

func TestServiceProfile(t *testing.T) {
	geo := &geoMock{}
	geo.On("Lookup", mock.Anything, "8.8.4.4").Return(Placeholder(), errors.New("down")).Once()
	svc := newService(geo, zap.NewNop())

	profile := svc.Profile(context.Background(), "8.8.4.4", "curl/8.0")
	require.Equal(t, "8.8.4.4", profile.IP)
	require.Equal(t, domain.Unknown, profile.Geo.City)
	require.True(t, profile.Agent.Bot)
	geo.AssertExpectations(t)
}

package metadata_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"enrichcore/pkg/platform/middleware/metadata"
)

func TestClientMetadata_InjectsIPAndUserAgentIntoContext(t *testing.T) {
	var gotIP, gotUA string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotIP = metadata.GetClientIP(r.Context())
		gotUA = metadata.GetUserAgent(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:54321"
	req.Header.Set("User-Agent", "test-agent/1.0")

	metadata.ClientMetadata(next).ServeHTTP(httptest.NewRecorder(), req)

	require.Equal(t, "10.0.0.1", gotIP)
	require.Equal(t, "test-agent/1.0", gotUA)
}

func TestClientIPFromRequest_PrefersXForwardedForFirstHop(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	req.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.2")

	require.Equal(t, "203.0.113.5", metadata.ClientIPFromRequest(req))
}

func TestClientIPFromRequest_FallsBackToXRealIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	req.Header.Set("X-Real-IP", "198.51.100.7")

	require.Equal(t, "198.51.100.7", metadata.ClientIPFromRequest(req))
}

func TestClientIPFromRequest_FallsBackToRemoteAddr(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.9:9999"

	require.Equal(t, "192.168.1.9", metadata.ClientIPFromRequest(req))
}

func TestWithClientMetadata_InjectsValuesDirectlyForUnitTests(t *testing.T) {
	ctx := metadata.WithClientMetadata(httptest.NewRequest(http.MethodGet, "/", nil).Context(), "1.2.3.4", "svc-client")

	require.Equal(t, "1.2.3.4", metadata.GetClientIP(ctx))
	require.Equal(t, "svc-client", metadata.GetUserAgent(ctx))
}

package httpserver_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"enrichcore/internal/platform/httpserver"
)

func TestNew_AppliesAddrHandlerAndReadHeaderTimeout(t *testing.T) {
	handler := http.NewServeMux()
	srv := httpserver.New(":8080", handler)

	require.Equal(t, ":8080", srv.Addr)
	require.Equal(t, http.Handler(handler), srv.Handler)
	require.Equal(t, 5*time.Second, srv.ReadHeaderTimeout)
}

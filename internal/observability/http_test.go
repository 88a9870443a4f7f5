package observability

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildHeaders(t *testing.T) {
	require.Empty(t, BuildHeaders(context.Background()))

	ctx := WithRequestID(context.Background(), "req-1")
	headers := BuildHeaders(ctx)
	require.Equal(t, "req-1", headers["x-request-id"])
	_, ok := headers["trace_id"]
	require.False(t, ok)
}

func TestIPFromRequest(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	require.Equal(t, "10.0.0.1", IPFromRequest(req))

	req.Header.Set("X-Forwarded-For", "1.2.3.4, 10.0.0.1")
	require.Equal(t, "1.2.3.4", IPFromRequest(req))
}

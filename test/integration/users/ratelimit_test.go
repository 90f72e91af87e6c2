package users_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/pillarhq/userd/pkg/httpx"
	"github.com/pillarhq/userd/pkg/userdsdk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoginRateLimit repeated failed logins from one client trip the
// strict limiter with a 429.
func TestLoginRateLimit(t *testing.T) {
	prev := httpx.StrictLimit
	httpx.StrictLimit = httpx.RateLimitConfig{
		RequestsPerWindow: 3,
		Window:            time.Minute,
		Burst:             3,
	}
	t.Cleanup(func() { httpx.StrictLimit = prev })

	client := setupServer(t)
	ctx := t.Context()

	var limited bool
	for range 6 {
		_, err := client.Login(ctx, "nobody@example.com", "WrongPass1")
		require.Error(t, err)

		var apiErr *userdsdk.APIError
		require.ErrorAs(t, err, &apiErr)
		if apiErr.StatusCode == http.StatusTooManyRequests {
			limited = true
			assert.Equal(t, userdsdk.ErrorCodeRateLimited, apiErr.Code)
			break
		}
		assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	}

	assert.True(t, limited, "expected a 429 after exhausting the burst")
}

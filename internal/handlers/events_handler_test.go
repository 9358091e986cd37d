package handlers_test

import (
	"bufio"
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"go_5_habit_keep/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readUntil は prefix で始まる行が来るまで読み進めます
func readUntil(t *testing.T, r *bufio.Reader, prefix string) string {
	t.Helper()
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err, "stream ended before %q", prefix)
		if strings.HasPrefix(line, prefix) {
			return strings.TrimSpace(line)
		}
	}
}

func TestEventsHandler_Stream(t *testing.T) {
	app := newTestApp(t)
	tenantID := uuid.New()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, app.server.URL+"/api/v1/events", nil)
	require.NoError(t, err)
	req.Header.Set("X-Tenant-ID", tenantID.String())

	resp, err := app.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	readUntil(t, reader, ": connected")
	require.Eventually(t, func() bool { return app.broker.Subscribers(tenantID) == 1 }, time.Second, 10*time.Millisecond)

	// 別ユーザーの変更は届かない
	sendRequest(t, app.server, httpRequestDetails{
		Method: http.MethodPut, Path: "/api/v1/days/2024-05-06/checks", TenantID: uuid.New(),
		Body: checkBody(model.IntakeKindMeal, "Breakfast", true, ""),
	}, http.StatusOK)
	sendRequest(t, app.server, httpRequestDetails{
		Method: http.MethodPut, Path: "/api/v1/days/2024-05-06/checks", TenantID: tenantID,
		Body: checkBody(model.IntakeKindMeal, "Lunch", true, ""),
	}, http.StatusOK)

	assert.Equal(t, "event: day", readUntil(t, reader, "event:"))
	data := readUntil(t, reader, "data:")
	assert.Contains(t, data, `"date":"2024-05-06"`)
	assert.NotContains(t, data, tenantID.String())

	cancel()
	require.Eventually(t, func() bool { return app.broker.Subscribers(tenantID) == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestEventsHandler_RequiresTenant(t *testing.T) {
	app := newTestApp(t)
	body := sendRequest(t, app.server, httpRequestDetails{Method: http.MethodGet, Path: "/api/v1/events"}, http.StatusUnauthorized)
	verifyErrorCode(t, body, "UNAUTHORIZED")
}

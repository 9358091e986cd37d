package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go_5_habit_keep/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// httpRequestDetails はHTTPリクエストの送信に必要な情報をまとめます。
type httpRequestDetails struct {
	Method   string
	Path     string
	Body     interface{}
	TenantID uuid.UUID
}

// sendRequest はリクエストを送り、ステータスコードを検証してボディを返します。
// Body が string ならそのまま送る (壊れたJSONのテスト用)
func sendRequest(t *testing.T, server *httptest.Server, details httpRequestDetails, expectedCode int) []byte {
	t.Helper()

	var reqBody io.Reader
	if details.Body != nil {
		if s, ok := details.Body.(string); ok {
			reqBody = strings.NewReader(s)
		} else {
			b, err := json.Marshal(details.Body)
			require.NoError(t, err, "Failed to marshal request body")
			reqBody = bytes.NewBuffer(b)
		}
	}

	req, err := http.NewRequest(details.Method, server.URL+details.Path, reqBody)
	require.NoError(t, err, "Failed to create request")
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if details.TenantID != uuid.Nil {
		req.Header.Set("X-Tenant-ID", details.TenantID.String())
	}

	resp, err := server.Client().Do(req)
	require.NoError(t, err, "Failed to execute request")
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "Failed to read response body")
	assert.Equal(t, expectedCode, resp.StatusCode, "Status code mismatch: %s", string(body))
	return body
}

func decodeJSON[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(body, &v), "invalid JSON: %s", string(body))
	return v
}

// verifyErrorCode はエラーレスポンスのコードを検証します。
func verifyErrorCode(t *testing.T, body []byte, expectedCode string) {
	t.Helper()
	errResp := decodeJSON[model.APIErrorResponse](t, body)
	assert.Equal(t, expectedCode, errResp.Error.Code, "unexpected error body: %s", string(body))
}

func decodeBody(resp *http.Response, v interface{}) error {
	return json.NewDecoder(resp.Body).Decode(v)
}

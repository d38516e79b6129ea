package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEcho() (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return e, c, rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorDetail {
	t.Helper()
	var result ErrorDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	return result
}

func TestHealth(t *testing.T) {
	_, c, rec := setupEcho()

	err := Health(c, 4)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, rec.Code)
	var result HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "ok", result.Status)
	assert.Equal(t, 4, result.Providers)
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name        string
		write       func(c echo.Context) error
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{"bad request", func(c echo.Context) error { return BadRequest(c, "Invalid input") }, http.StatusBadRequest, CodeInvalidRequest, "Invalid input"},
		{"invalid body", InvalidRequestBody, http.StatusBadRequest, CodeInvalidRequest, MsgInvalidRequestBody},
		{"validation message", func(c echo.Context) error { return ValidationErrorWithMessage(c, "prompt: is required") }, http.StatusBadRequest, CodeValidationError, "prompt: is required"},
		{"unauthenticated", Unauthenticated, http.StatusUnauthorized, CodeUnauthenticated, MsgUnauthenticated},
		{"forbidden", Forbidden, http.StatusForbidden, CodeForbidden, MsgForbidden},
		{"not found", func(c echo.Context) error { return NotFound(c, "booking not found") }, http.StatusNotFound, CodeNotFound, "booking not found"},
		{"conflict", func(c echo.Context) error { return Conflict(c, "already monitored") }, http.StatusConflict, CodeConflict, "already monitored"},
		{"unsupported", func(c echo.Context) error { return UnprocessableProvider(c, "no selection") }, http.StatusUnprocessableEntity, CodeProviderError, "no selection"},
		{"payment", PaymentError, http.StatusBadGateway, CodePaymentError, MsgPaymentError},
		{"provider", func(c echo.Context) error { return ProviderError(c, "redbus failed") }, http.StatusBadGateway, CodeProviderError, "redbus failed"},
		{"timeout", GatewayTimeout, http.StatusGatewayTimeout, CodeTimeout, MsgTimeout},
		{"cancelled", RequestCancelled, http.StatusGatewayTimeout, CodeTimeout, MsgRequestCancelled},
		{"internal", InternalServerError, http.StatusInternalServerError, CodeInternalError, MsgInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, c, rec := setupEcho()

			require.NoError(t, tt.write(c))

			assert.Equal(t, tt.wantStatus, rec.Code)
			result := decodeError(t, rec)
			assert.Equal(t, StatusError, result.Status)
			assert.Equal(t, tt.wantCode, result.Code)
			assert.Equal(t, tt.wantMessage, result.Message)
		})
	}
}

func TestValidationError(t *testing.T) {
	_, c, rec := setupEcho()
	details := map[string]string{
		"threshold": "must be positive",
		"prompt":    "is required",
	}

	err := ValidationError(c, details)
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	result := decodeError(t, rec)
	assert.Equal(t, CodeValidationError, result.Code)
	assert.Equal(t, MsgValidationFailed, result.Message)
	assert.Equal(t, "must be positive", result.Details["threshold"])
	assert.Equal(t, "is required", result.Details["prompt"])
}

func TestSuccessWriters(t *testing.T) {
	payload := map[string]string{"status": StatusSuccess}

	_, c, rec := setupEcho()
	require.NoError(t, OK(c, payload))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"success"}`, rec.Body.String())

	_, c, rec = setupEcho()
	require.NoError(t, Created(c, payload))
	assert.Equal(t, http.StatusCreated, rec.Code)

	_, c, rec = setupEcho()
	require.NoError(t, Accepted(c, payload))
	assert.Equal(t, http.StatusAccepted, rec.Code)

	_, c, rec = setupEcho()
	require.NoError(t, NoContent(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

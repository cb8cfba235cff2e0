package httputil

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/digital-codes/platansense/internal/errors"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func testContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	return c, w
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHandleErrorGin(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   map[string]string
	}{
		{
			name:       "unauthorized",
			err:        apperrors.ErrUnauthorized,
			wantStatus: http.StatusUnauthorized,
			wantBody:   map[string]string{"status": "not authorized"},
		},
		{
			name:       "wrapped unauthorized",
			err:        apperrors.Wrap(apperrors.ErrUnauthorized, "session expired"),
			wantStatus: http.StatusUnauthorized,
			wantBody:   map[string]string{"status": "not authorized"},
		},
		{
			name:       "not found",
			err:        apperrors.ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantBody:   map[string]string{"status": "file not found"},
		},
		{
			name:       "not ready",
			err:        apperrors.ErrNotReady,
			wantStatus: http.StatusRequestTimeout,
			wantBody:   map[string]string{"status": "file not ready. retry later"},
		},
		{
			name:       "invalid input",
			err:        apperrors.Wrap(apperrors.ErrInvalidInput, "data invalid"),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "internal",
			err:        apperrors.New("disk full"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   map[string]string{"error": "internal error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := testContext()

			HandleErrorGin(c, tt.err, discardLogger())

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != nil {
				var body map[string]string
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, tt.wantBody, body)
			}
		})
	}
}

func TestHandleErrorGinNilError(t *testing.T) {
	c, w := testContext()

	HandleErrorGin(c, nil, discardLogger())

	assert.Empty(t, w.Body.String())
}

func TestHandleBadRequestGin(t *testing.T) {
	c, w := testContext()

	HandleBadRequestGin(c, apperrors.New("Invalid JSON"), discardLogger())

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Invalid JSON", body["error"])
}

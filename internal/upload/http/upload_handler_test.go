package http

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	artifactRepository "github.com/digital-codes/platansense/internal/artifact/repository"
	authRepository "github.com/digital-codes/platansense/internal/auth/repository"
	authService "github.com/digital-codes/platansense/internal/auth/service"
	authUseCase "github.com/digital-codes/platansense/internal/auth/usecase"
	"github.com/digital-codes/platansense/internal/registry"
	"github.com/digital-codes/platansense/internal/upload/http/dto"
	uploadUseCase "github.com/digital-codes/platansense/internal/upload/usecase"
)

const (
	testDeviceID = "7"
	testKeyHex   = "30313233343536373839616263646566" // "0123456789abcdef"
)

// setupTestHandler wires the handler against real use cases backed by
// temporary directories, so the tests exercise the full protocol stack.
func setupTestHandler(t *testing.T) *UploadHandler {
	t.Helper()

	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	devices, err := registry.NewSnapshot(map[string]string{testDeviceID: testKeyHex})
	require.NoError(t, err)

	sessionRepo, err := authRepository.NewFilesystemSessionRepository(t.TempDir())
	require.NoError(t, err)

	store, err := artifactRepository.NewFilesystemStore(t.TempDir())
	require.NoError(t, err)

	tokenService := authService.NewTokenService(
		[]byte("test-signing-key"), "platanus", "https://gateway.example.com")

	auth := authUseCase.NewAuthUseCase(
		devices, sessionRepo, tokenService, authService.NewChallengeService(), logger)
	upload := uploadUseCase.NewUploadUseCase(store, 16000, logger)

	return NewUploadHandler(auth, upload, tokenService, logger)
}

// createTestContext builds a Gin test context with a JSON request body.
func createTestContext(t *testing.T, body any) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	data, err := json.Marshal(body)
	require.NoError(t, err)

	c.Request = httptest.NewRequest(http.MethodPost, "/v1/upload", bytes.NewReader(data))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

// handshake runs join and challenge and returns the issued token.
func handshake(t *testing.T, handler *UploadHandler) string {
	t.Helper()

	c, w := createTestContext(t, dto.CommandRequest{Command: dto.CommandJoin, ID: testDeviceID})
	handler.CommandHandler(c)
	require.Equal(t, http.StatusOK, w.Code)

	var join dto.JoinResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &join))

	nonce, err := hex.DecodeString(join.Challenge)
	require.NoError(t, err)
	iv, err := hex.DecodeString(join.IV)
	require.NoError(t, err)
	key, err := hex.DecodeString(testKeyHex)
	require.NoError(t, err)

	proof, err := authService.NewChallengeService().Transform(nonce, key, iv)
	require.NoError(t, err)

	c, w = createTestContext(t, dto.CommandRequest{
		Command:   dto.CommandChallenge,
		ID:        testDeviceID,
		Session:   join.Session,
		Challenge: hex.EncodeToString(proof),
	})
	handler.CommandHandler(c)
	require.Equal(t, http.StatusOK, w.Code)

	var token dto.TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &token))
	require.NotEmpty(t, token.Token)
	return token.Token
}

func TestUploadHandler_CommandHandler(t *testing.T) {
	t.Run("full handshake then upload succeeds", func(t *testing.T) {
		handler := setupTestHandler(t)
		token := handshake(t, handler)

		c, w := createTestContext(t, dto.CommandRequest{
			Command: dto.CommandData,
			ID:      testDeviceID,
			Token:   token,
			Data:    base64.StdEncoding.EncodeToString([]byte("audio-bytes")),
		})
		handler.CommandHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var response dto.UploadResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Contains(t, response.UUID, "Sensor_"+testDeviceID+"_")
	})

	t.Run("join for unknown device returns the legacy 401 body", func(t *testing.T) {
		handler := setupTestHandler(t)

		c, w := createTestContext(t, dto.CommandRequest{Command: dto.CommandJoin, ID: "nobody"})
		handler.CommandHandler(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"status": "not authorized"}`, w.Body.String())
	})

	t.Run("challenge with wrong proof returns 401", func(t *testing.T) {
		handler := setupTestHandler(t)

		c, w := createTestContext(t, dto.CommandRequest{Command: dto.CommandJoin, ID: testDeviceID})
		handler.CommandHandler(c)
		require.Equal(t, http.StatusOK, w.Code)

		var join dto.JoinResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &join))

		c, w = createTestContext(t, dto.CommandRequest{
			Command:   dto.CommandChallenge,
			ID:        testDeviceID,
			Session:   join.Session,
			Challenge: "00112233445566778899aabbccddeeff",
		})
		handler.CommandHandler(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("data with a garbage token returns 401", func(t *testing.T) {
		handler := setupTestHandler(t)

		c, w := createTestContext(t, dto.CommandRequest{
			Command: dto.CommandData,
			ID:      testDeviceID,
			Token:   "not-a-token",
			Data:    base64.StdEncoding.EncodeToString([]byte("audio")),
		})
		handler.CommandHandler(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"status": "not authorized"}`, w.Body.String())
	})

	t.Run("data with undecodable payload returns 400", func(t *testing.T) {
		handler := setupTestHandler(t)
		token := handshake(t, handler)

		c, w := createTestContext(t, dto.CommandRequest{
			Command: dto.CommandData,
			ID:      testDeviceID,
			Token:   token,
			Data:    "%%%not-base64%%%",
		})
		handler.CommandHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown command returns 400", func(t *testing.T) {
		handler := setupTestHandler(t)

		c, w := createTestContext(t, dto.CommandRequest{Command: "reboot"})
		handler.CommandHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid JSON returns 400", func(t *testing.T) {
		handler := setupTestHandler(t)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(
			http.MethodPost, "/v1/upload", bytes.NewReader([]byte("not json")))
		c.Request.Header.Set("Content-Type", "application/json")

		handler.CommandHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

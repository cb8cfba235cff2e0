// Package http provides the HTTP handler for the upload endpoint. The
// endpoint multiplexes the device-side commands join, challenge and data
// over a single POST route, matching the deployed firmware's protocol.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authDomain "github.com/digital-codes/platansense/internal/auth/domain"
	authService "github.com/digital-codes/platansense/internal/auth/service"
	authUseCase "github.com/digital-codes/platansense/internal/auth/usecase"
	"github.com/digital-codes/platansense/internal/httputil"
	"github.com/digital-codes/platansense/internal/upload/http/dto"
	uploadUseCase "github.com/digital-codes/platansense/internal/upload/usecase"
	customValidation "github.com/digital-codes/platansense/internal/validation"
)

// UploadHandler handles the join/challenge/data commands of the device
// protocol. It coordinates the handshake use case, token validation and the
// upload use case.
type UploadHandler struct {
	authUseCase   authUseCase.AuthUseCase
	uploadUseCase uploadUseCase.UploadUseCase
	tokenService  authService.TokenService
	logger        *slog.Logger
}

// NewUploadHandler creates a new upload handler with required dependencies.
func NewUploadHandler(
	auth authUseCase.AuthUseCase,
	upload uploadUseCase.UploadUseCase,
	tokenService authService.TokenService,
	logger *slog.Logger,
) *UploadHandler {
	return &UploadHandler{
		authUseCase:   auth,
		uploadUseCase: upload,
		tokenService:  tokenService,
		logger:        logger,
	}
}

// CommandHandler dispatches one upload-endpoint command.
// POST /v1/upload
func (h *UploadHandler) CommandHandler(c *gin.Context) {
	var req dto.CommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid JSON"), h.logger)
		return
	}

	switch req.Command {
	case dto.CommandJoin:
		h.join(c, &req)
	case dto.CommandChallenge:
		h.challenge(c, &req)
	case dto.CommandData:
		h.data(c, &req)
	default:
		httputil.HandleBadRequestGin(c, fmt.Errorf("unknown command"), h.logger)
	}
}

func (h *UploadHandler) join(c *gin.Context, req *dto.CommandRequest) {
	if err := req.ValidateJoin(); err != nil {
		httputil.HandleErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	out, err := h.authUseCase.Join(c.Request.Context(), req.ID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.JoinResponse{
		Session:   out.SessionID,
		Challenge: out.Challenge,
		IV:        out.IV,
	})
}

func (h *UploadHandler) challenge(c *gin.Context, req *dto.CommandRequest) {
	if err := req.ValidateChallenge(); err != nil {
		httputil.HandleErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	token, err := h.authUseCase.Respond(c.Request.Context(), req.ID, req.Session, req.Challenge)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.TokenResponse{Token: token})
}

func (h *UploadHandler) data(c *gin.Context, req *dto.CommandRequest) {
	if err := req.ValidateData(); err != nil {
		httputil.HandleErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	// The identity used downstream comes from the validated token, not from
	// the client-supplied id field.
	identity, err := h.tokenService.Validate(req.Token, authDomain.IdentityFor(req.ID))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	jobID, err := h.uploadUseCase.Submit(c.Request.Context(), identity.Sensor, req.Data, req.Format)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.UploadResponse{UUID: jobID})
}

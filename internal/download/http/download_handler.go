// Package http provides the HTTP handler for the download endpoint. The
// endpoint multiplexes the device-side commands check and down over a single
// POST route, matching the deployed firmware's protocol.
package http

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	artifactDomain "github.com/digital-codes/platansense/internal/artifact/domain"
	authDomain "github.com/digital-codes/platansense/internal/auth/domain"
	authService "github.com/digital-codes/platansense/internal/auth/service"
	"github.com/digital-codes/platansense/internal/download/http/dto"
	downloadUseCase "github.com/digital-codes/platansense/internal/download/usecase"
	"github.com/digital-codes/platansense/internal/httputil"
	customValidation "github.com/digital-codes/platansense/internal/validation"
)

// DownloadHandler handles the check/down commands of the device protocol.
type DownloadHandler struct {
	downloadUseCase downloadUseCase.DownloadUseCase
	tokenService    authService.TokenService
	logger          *slog.Logger
}

// NewDownloadHandler creates a new download handler with required dependencies.
func NewDownloadHandler(
	download downloadUseCase.DownloadUseCase,
	tokenService authService.TokenService,
	logger *slog.Logger,
) *DownloadHandler {
	return &DownloadHandler{
		downloadUseCase: download,
		tokenService:    tokenService,
		logger:          logger,
	}
}

// CommandHandler dispatches one download-endpoint command.
// POST /v1/download
func (h *DownloadHandler) CommandHandler(c *gin.Context) {
	var req dto.CommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid JSON"), h.logger)
		return
	}

	switch req.Command {
	case dto.CommandCheck:
		h.check(c, &req)
	case dto.CommandDown:
		h.down(c, &req)
	default:
		httputil.HandleBadRequestGin(c, fmt.Errorf("unknown command"), h.logger)
	}
}

func (h *DownloadHandler) check(c *gin.Context, req *dto.CommandRequest) {
	if err := req.ValidateCheck(); err != nil {
		httputil.HandleErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	if _, err := h.tokenService.Validate(req.Token, authDomain.IdentityFor(req.ID)); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	out, err := h.downloadUseCase.Check(c.Request.Context(), req.Name)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.CheckResponse{
		Status:    "ready",
		Size:      out.Size,
		Chunks:    out.Chunks,
		ChunkSize: artifactDomain.ChunkSize,
	})
}

func (h *DownloadHandler) down(c *gin.Context, req *dto.CommandRequest) {
	if err := req.ValidateDown(); err != nil {
		httputil.HandleErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	if _, err := h.tokenService.Validate(req.Token, authDomain.IdentityFor(req.ID)); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	out, err := h.downloadUseCase.Fetch(c.Request.Context(), req.Name, req.Chunk)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ChunkResponse{
		Data:   base64.StdEncoding.EncodeToString(out.Data),
		Chunk:  req.Chunk,
		Length: out.Length,
		Chunks: out.Chunks,
	})
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ajglobal/staffverify/internal/services"
	"github.com/ajglobal/staffverify/internal/store"
	"github.com/ajglobal/staffverify/pkg/logger"
	"github.com/ajglobal/staffverify/pkg/response"
	"github.com/ajglobal/staffverify/web"
)

// VerifyHandler serves the public verification endpoints. Failed checks are
// answered with HTTP 200 and the generic INVALID status.
type VerifyHandler struct {
	service *services.VerificationService
}

// verifyPage is the data handed to the verification template.
type verifyPage struct {
	Result      *services.VerificationResult
	Unavailable bool
}

func NewVerifyHandler(service *services.VerificationService) (*VerifyHandler, error) {
	if service == nil {
		return nil, errors.New("verify handler: verification service is required")
	}
	return &VerifyHandler{service: service}, nil
}

// GET /verify/:id
func (h *VerifyHandler) Page(c *gin.Context) {
	result, err := h.service.Verify(requestContext(c), c.Param("id"), c.Query("token"))
	if err != nil {
		logger.WithModule("verification").Error("verification failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.HTML(failureStatus(err), web.VerifyTemplate, verifyPage{Unavailable: true})
		return
	}

	c.HTML(http.StatusOK, web.VerifyTemplate, verifyPage{Result: result})
}

// GET /api/verify/:id
func (h *VerifyHandler) JSON(c *gin.Context) {
	result, err := h.service.Verify(requestContext(c), c.Param("id"), c.Query("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

func failureStatus(err error) int {
	if errors.Is(err, store.ErrStoreUnavailable) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

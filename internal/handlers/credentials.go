package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ajglobal/staffverify/internal/services"
	"github.com/ajglobal/staffverify/pkg/response"
)

// CredentialHandler issues verification links and QR images.
type CredentialHandler struct {
	issuer *services.CredentialIssuer
}

func NewCredentialHandler(issuer *services.CredentialIssuer) (*CredentialHandler, error) {
	if issuer == nil {
		return nil, errors.New("credential handler: credential issuer is required")
	}
	return &CredentialHandler{issuer: issuer}, nil
}

// POST /api/employees/:id/credential
func (h *CredentialHandler) Issue(c *gin.Context) {
	cred, err := h.issuer.IssueCredential(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, cred)
}

// GET /api/employees/:id/qr
func (h *CredentialHandler) QR(c *gin.Context) {
	artifact, err := h.issuer.RenderQR(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="`+artifact.Credential.EmployeeID+`.png"`)
	c.Data(http.StatusOK, artifact.ContentType, artifact.Data)
}

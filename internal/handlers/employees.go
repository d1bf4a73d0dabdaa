package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ajglobal/staffverify/internal/models"
	"github.com/ajglobal/staffverify/internal/services"
	"github.com/ajglobal/staffverify/internal/store"
	"github.com/ajglobal/staffverify/pkg/response"
)

// EmployeeHandler serves the administrative employee registry.
type EmployeeHandler struct {
	store  store.Store
	issuer *services.CredentialIssuer
}

// employeeView adds the token-free verification link to an employee record.
type employeeView struct {
	*models.Employee
	VerifyURL string `json:"verify_url"`
}

func NewEmployeeHandler(st store.Store, issuer *services.CredentialIssuer) (*EmployeeHandler, error) {
	if st == nil {
		return nil, errors.New("employee handler: store is required")
	}
	if issuer == nil {
		return nil, errors.New("employee handler: credential issuer is required")
	}
	return &EmployeeHandler{store: st, issuer: issuer}, nil
}

func (h *EmployeeHandler) view(emp *models.Employee) employeeView {
	return employeeView{Employee: emp, VerifyURL: h.issuer.LookupURL(emp.ID)}
}

// POST /api/employees
func (h *EmployeeHandler) Create(c *gin.Context) {
	var body store.CreateEmployeeInput
	if !bindAndValidate(c, &body) {
		return
	}

	emp, err := h.store.Create(requestContext(c), body)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, h.view(emp))
}

// GET /api/employees
func (h *EmployeeHandler) List(c *gin.Context) {
	employees, err := h.store.List(requestContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	views := make([]employeeView, 0, len(employees))
	for i := range employees {
		views = append(views, h.view(&employees[i]))
	}

	response.SuccessWithMeta(c, http.StatusOK, views, &response.Meta{Total: len(views)})
}

// GET /api/employees/:id
func (h *EmployeeHandler) Get(c *gin.Context) {
	emp, err := h.store.Get(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, h.view(emp))
}

// PATCH /api/employees/:id
func (h *EmployeeHandler) Update(c *gin.Context) {
	var body store.UpdateEmployeeInput
	if !bindAndValidate(c, &body) {
		return
	}

	emp, err := h.store.Update(requestContext(c), c.Param("id"), body)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, h.view(emp))
}

// DELETE /api/employees/:id
func (h *EmployeeHandler) Delete(c *gin.Context) {
	id := store.NormalizeID(c.Param("id"))
	if err := h.store.Delete(requestContext(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"employee_id": id, "deleted": true})
}

// PUT /api/employees/:id/driver
func (h *EmployeeHandler) PutDriver(c *gin.Context) {
	var body store.DriverInput
	if !bindAndValidate(c, &body) {
		return
	}

	driver, err := h.store.UpsertDriver(requestContext(c), c.Param("id"), body)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, driver)
}

// GET /api/employees/:id/driver
func (h *EmployeeHandler) GetDriver(c *gin.Context) {
	driver, err := h.store.GetDriver(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, driver)
}

// PUT /api/employees/:id/documents
func (h *EmployeeHandler) PutDocuments(c *gin.Context) {
	var body store.DocumentsInput
	if !bindAndValidate(c, &body) {
		return
	}

	docs, err := h.store.UpsertDocuments(requestContext(c), c.Param("id"), body)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, docs)
}

// GET /api/employees/:id/documents
func (h *EmployeeHandler) GetDocuments(c *gin.Context) {
	docs, err := h.store.GetDocuments(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, docs)
}

package api

import (
	"github.com/gin-gonic/gin"

	"github.com/ajglobal/staffverify/internal/handlers"
)

func registerEmployeeRoutes(api *gin.RouterGroup, deps Dependencies) error {
	employeeHandler, err := handlers.NewEmployeeHandler(deps.Store, deps.Issuer)
	if err != nil {
		return err
	}
	credentialHandler, err := handlers.NewCredentialHandler(deps.Issuer)
	if err != nil {
		return err
	}

	employees := api.Group("/employees")
	{
		employees.POST("", employeeHandler.Create)
		employees.GET("", employeeHandler.List)
		employees.GET("/:id", employeeHandler.Get)
		employees.PATCH("/:id", employeeHandler.Update)
		employees.DELETE("/:id", employeeHandler.Delete)

		employees.PUT("/:id/driver", employeeHandler.PutDriver)
		employees.GET("/:id/driver", employeeHandler.GetDriver)
		employees.PUT("/:id/documents", employeeHandler.PutDocuments)
		employees.GET("/:id/documents", employeeHandler.GetDocuments)

		employees.POST("/:id/credential", credentialHandler.Issue)
		employees.GET("/:id/qr", credentialHandler.QR)
	}
	return nil
}

func registerSecurityRoutes(api *gin.RouterGroup, deps Dependencies) error {
	if deps.Audit == nil {
		return nil
	}

	securityHandler, err := handlers.NewSecurityHandler(deps.Audit)
	if err != nil {
		return err
	}

	api.GET("/security/audit", securityHandler.Audit)
	return nil
}

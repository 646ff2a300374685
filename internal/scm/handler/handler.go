package handler

import (
	"errors"
	"net/http"

	"github.com/bitfantasy/scm/internal/scm/service"
	"github.com/gin-gonic/gin"
)

// Handlers bundles every SCM HTTP handler for wiring.
type Handlers struct {
	Auth      *AuthHandler
	User      *UserHandler
	Supplier  *SupplierHandler
	Product   *ProductHandler
	Order     *OrderHandler
	Analytics *AnalyticsHandler
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Auth:      NewAuthHandler(services.Auth),
		User:      NewUserHandler(services.User),
		Supplier:  NewSupplierHandler(services.Supplier),
		Product:   NewProductHandler(services.Product),
		Order:     NewOrderHandler(services.Order),
		Analytics: NewAnalyticsHandler(services.Analytics, services.Dashboard),
	}
}

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": data})
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": message})
}

// respondError maps the service error taxonomy onto HTTP statuses: not found
// and invalid input are client errors, everything else (including a failed
// transaction, which the caller may retry) is a server error.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"code": 10002, "message": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
	}
}

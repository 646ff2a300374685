package service

import (
	"github.com/bitfantasy/scm/internal/config"
	"github.com/bitfantasy/scm/internal/scm/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Services bundles every SCM service for wiring.
type Services struct {
	Auth      *AuthService
	User      *UserService
	Supplier  *SupplierService
	Product   *ProductService
	Order     *OrderService
	Analytics *AnalyticsService
	Dashboard *DashboardService
	Audit     *AuditService
}

func NewServices(repos *repository.Repositories, rdb *redis.Client, cfg *config.Config, logger *zap.Logger) *Services {
	audit := NewAuditService(repos.Audit, logger)
	return &Services{
		Auth:      NewAuthService(repos.User, rdb, cfg),
		User:      NewUserService(repos.User, audit),
		Supplier:  NewSupplierService(repos.Supplier, audit),
		Product:   NewProductService(repos.Product, repos.Supplier, rdb, audit),
		Order:     NewOrderService(repos.Order, repos.Product, repos.Supplier, audit),
		Analytics: NewAnalyticsService(repos.Order, repos.Product),
		Dashboard: NewDashboardService(repos.Product, repos.Supplier, repos.Order),
		Audit:     audit,
	}
}

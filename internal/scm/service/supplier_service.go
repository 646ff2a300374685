package service

import (
	"context"
	"fmt"

	"github.com/bitfantasy/scm/internal/scm/entity"
	"github.com/bitfantasy/scm/internal/scm/repository"
	"github.com/google/uuid"
)

type SupplierService struct {
	repo  *repository.SupplierRepository
	audit *AuditService
}

func NewSupplierService(repo *repository.SupplierRepository, audit *AuditService) *SupplierService {
	return &SupplierService{repo: repo, audit: audit}
}

type SupplierRequest struct {
	Name        string `json:"name" binding:"required"`
	ContactInfo string `json:"contact_info"`
	Address     string `json:"address"`
}

func (s *SupplierService) Create(ctx context.Context, req SupplierRequest, userID string) (*entity.Supplier, error) {
	supplier := &entity.Supplier{
		ID:          uuid.New().String(),
		Name:        req.Name,
		ContactInfo: req.ContactInfo,
		Address:     req.Address,
	}
	if err := s.repo.Create(ctx, supplier); err != nil {
		return nil, fmt.Errorf("create supplier: %w", err)
	}
	s.audit.Record(ctx, "CREATE_SUPPLIER", "Supplier", supplier.ID, userID)
	return supplier, nil
}

func (s *SupplierService) Get(ctx context.Context, id string) (*entity.Supplier, error) {
	supplier, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "supplier "+id)
	}
	return supplier, nil
}

func (s *SupplierService) List(ctx context.Context) ([]entity.Supplier, error) {
	return s.repo.List(ctx)
}

func (s *SupplierService) Update(ctx context.Context, id string, req SupplierRequest, userID string) (*entity.Supplier, error) {
	supplier, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "supplier "+id)
	}
	supplier.Name = req.Name
	supplier.ContactInfo = req.ContactInfo
	supplier.Address = req.Address

	if err := s.repo.Update(ctx, supplier); err != nil {
		return nil, fmt.Errorf("update supplier: %w", err)
	}
	s.audit.Record(ctx, "UPDATE_SUPPLIER", "Supplier", supplier.ID, userID)
	return supplier, nil
}

func (s *SupplierService) Delete(ctx context.Context, id string, userID string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return notFoundOr(err, "supplier "+id)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete supplier: %w", err)
	}
	s.audit.Record(ctx, "DELETE_SUPPLIER", "Supplier", id, userID)
	return nil
}

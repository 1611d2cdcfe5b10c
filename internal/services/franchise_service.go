// internal/services/franchise_service.go
package services

import (
	"context"

	"github.com/javajoker/asset-audit/internal/models"
	"github.com/javajoker/asset-audit/internal/store"
)

type FranchiseService struct {
	store store.Store
}

func NewFranchiseService(st store.Store) *FranchiseService {
	return &FranchiseService{store: st}
}

func (s *FranchiseService) GetFranchise(ctx context.Context, id uint) (*models.Franchise, error) {
	f, err := s.store.GetFranchise(ctx, id)
	if err != nil {
		return nil, notFound("franchise", id, err)
	}
	return f, nil
}

func (s *FranchiseService) ListFranchises(ctx context.Context) ([]models.Franchise, error) {
	return s.store.ListFranchises(ctx)
}

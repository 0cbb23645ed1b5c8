package menu

import (
	"context"
	"fmt"

	"github.com/YelzhanWeb/orderhub/internal/adapter/logger"
	"github.com/YelzhanWeb/orderhub/internal/domain"
	"github.com/YelzhanWeb/orderhub/internal/interfaces"
)

type Service struct {
	repo   interfaces.MenuRepository
	logger logger.Logger
}

func NewService(repo interfaces.MenuRepository, logger logger.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// ListMenu returns the available items grouped by category
func (s *Service) ListMenu(ctx context.Context) ([]*domain.MenuItem, error) {
	items, err := s.repo.ListAvailable(ctx)
	if err != nil {
		s.logger.Error("db_query_failed", "Failed to fetch menu items", "", nil, err)
		return nil, fmt.Errorf("failed to list menu: %w", err)
	}
	return items, nil
}

// Seed replaces the whole menu with the sample menu
func (s *Service) Seed(ctx context.Context) (int, error) {
	count, err := s.repo.ReplaceAll(ctx, domain.SampleMenu())
	if err != nil {
		s.logger.Error("seed_failed", "Failed to seed menu items", "", nil, err)
		return 0, fmt.Errorf("failed to seed menu: %w", err)
	}

	s.logger.Info("menu_seeded", "Sample menu items created successfully", "", map[string]interface{}{
		"count": count,
	})
	return count, nil
}

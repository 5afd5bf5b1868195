package favorite

import (
	"context"

	"github.com/chapavet/marketplace/constant"
	"github.com/chapavet/marketplace/model"
	favoriterepo "github.com/chapavet/marketplace/repository/favorite"
	livestockrepo "github.com/chapavet/marketplace/repository/livestock"
	"github.com/chapavet/marketplace/utils/errors"
	"github.com/chapavet/marketplace/utils/logger"
	"go.uber.org/zap"
)

type FavoriteApp interface {
	Add(ctx context.Context, userID, listingID uint64) error
	Remove(ctx context.Context, userID, listingID uint64) error
	List(ctx context.Context, userID uint64) ([]model.LivestockItem, error)
}

type favoriteAppImpl struct {
	favoriteRepo  favoriterepo.FavoriteRepository
	livestockRepo livestockrepo.LivestockRepository
}

func NewFavoriteApp(favoriteRepo favoriterepo.FavoriteRepository, livestockRepo livestockrepo.LivestockRepository) FavoriteApp {
	return &favoriteAppImpl{favoriteRepo: favoriteRepo, livestockRepo: livestockRepo}
}

// Add is idempotent; saving the same listing twice is not an error.
func (s *favoriteAppImpl) Add(ctx context.Context, userID, listingID uint64) error {
	listing, err := s.livestockRepo.GetByID(ctx, listingID)
	if err != nil {
		logger.Error("[AddFavorite] err livestockRepo.GetByID", zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}
	if listing == nil {
		return errors.SetCustomError(constant.ErrNotFound)
	}

	if err := s.favoriteRepo.Add(ctx, userID, listingID); err != nil {
		logger.Error("[AddFavorite] err favoriteRepo.Add", zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}
	return nil
}

func (s *favoriteAppImpl) Remove(ctx context.Context, userID, listingID uint64) error {
	if err := s.favoriteRepo.Remove(ctx, userID, listingID); err != nil {
		logger.Error("[RemoveFavorite] err favoriteRepo.Remove", zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}
	return nil
}

func (s *favoriteAppImpl) List(ctx context.Context, userID uint64) ([]model.LivestockItem, error) {
	ids, err := s.favoriteRepo.ListIDs(ctx, userID)
	if err != nil {
		logger.Error("[ListFavorites] err favoriteRepo.ListIDs", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	items := make([]model.LivestockItem, 0, len(ids))
	for _, id := range ids {
		item, err := s.livestockRepo.GetByID(ctx, id)
		if err != nil {
			logger.Error("[ListFavorites] err livestockRepo.GetByID", zap.Uint64("listing_id", id), zap.String("error", err.Error()))
			return nil, errors.SetCustomError(constant.ErrInternal)
		}
		// listing deleted since it was saved
		if item == nil {
			continue
		}
		items = append(items, *item)
	}
	return items, nil
}

package livestock

import (
	"context"

	"github.com/chapavet/marketplace/cmd/config"
	"github.com/chapavet/marketplace/constant"
	"github.com/chapavet/marketplace/model"
	livestockrepo "github.com/chapavet/marketplace/repository/livestock"
	userrepo "github.com/chapavet/marketplace/repository/user"
	"github.com/chapavet/marketplace/utils/cache"
	"github.com/chapavet/marketplace/utils/errors"
	"github.com/chapavet/marketplace/utils/logger"
	"github.com/chapavet/marketplace/utils/text"
	"go.uber.org/zap"
)

type LivestockApp interface {
	Search(ctx context.Context, query, location string) ([]model.LivestockItem, error)
	Featured(ctx context.Context) ([]model.LivestockItem, error)
	ListByCategory(ctx context.Context, category string) ([]model.LivestockItem, error)
	Get(ctx context.Context, id uint64) (*model.LivestockItem, error)
	Create(ctx context.Context, sellerID uint64, req *model.CreateLivestockRequest) (*model.LivestockItem, error)
	SetVerified(ctx context.Context, id uint64, verified bool) error
	SetFeatured(ctx context.Context, id uint64, featured bool) error
}

type livestockAppImpl struct {
	config        *config.Config
	livestockRepo livestockrepo.LivestockRepository
	userRepo      userrepo.UserRepository
	cache         *cache.Cache
}

func NewLivestockApp(config *config.Config, livestockRepo livestockrepo.LivestockRepository, userRepo userrepo.UserRepository, cache *cache.Cache) LivestockApp {
	return &livestockAppImpl{
		config:        config,
		livestockRepo: livestockRepo,
		userRepo:      userRepo,
		cache:         cache,
	}
}

// catalog returns the available listings, memoised for Cache.CatalogTTL.
func (s *livestockAppImpl) catalog(ctx context.Context) ([]model.LivestockItem, error) {
	if v, ok := s.cache.Get(constant.CatalogCacheKey); ok {
		if items, ok := v.([]model.LivestockItem); ok {
			return items, nil
		}
	}

	items, err := s.livestockRepo.List(ctx, &model.LivestockFilter{Status: constant.ListingStatusAvailable})
	if err != nil {
		return nil, err
	}
	s.cache.Set(constant.CatalogCacheKey, items, s.config.Cache.CatalogTTL)
	return items, nil
}

func (s *livestockAppImpl) Search(ctx context.Context, query, location string) ([]model.LivestockItem, error) {
	items, err := s.catalog(ctx)
	if err != nil {
		logger.Error("[Search] err catalog", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	return SearchLivestock(items, query, location), nil
}

func (s *livestockAppImpl) Featured(ctx context.Context) ([]model.LivestockItem, error) {
	items, err := s.catalog(ctx)
	if err != nil {
		logger.Error("[Featured] err catalog", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	return FeaturedLivestock(items), nil
}

func (s *livestockAppImpl) ListByCategory(ctx context.Context, category string) ([]model.LivestockItem, error) {
	items, err := s.catalog(ctx)
	if err != nil {
		logger.Error("[ListByCategory] err catalog", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	return LivestockByCategory(items, category), nil
}

// Get reads through to the repository so reserved and sold listings stay reachable by id.
func (s *livestockAppImpl) Get(ctx context.Context, id uint64) (*model.LivestockItem, error) {
	item, err := s.livestockRepo.GetByID(ctx, id)
	if err != nil {
		logger.Error("[Get] err livestockRepo.GetByID", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	if item == nil {
		return nil, errors.SetCustomError(constant.ErrNotFound)
	}
	return item, nil
}

func (s *livestockAppImpl) Create(ctx context.Context, sellerID uint64, req *model.CreateLivestockRequest) (*model.LivestockItem, error) {
	seller, err := s.userRepo.Get(ctx, &model.UserFilter{ID: sellerID})
	if err != nil {
		logger.Error("[Create] err userRepo.Get", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	if seller == nil {
		return nil, errors.SetCustomError(constant.ErrUnauthorize)
	}
	if seller.Role != constant.RoleSeller && seller.Role != constant.RoleAdmin {
		return nil, errors.SetCustomError(constant.ErrForbidden)
	}

	item := &model.LivestockItem{
		Name:        text.SingleLine(req.Name),
		Category:    text.SingleLine(req.Category),
		Price:       text.SingleLine(req.Price),
		PriceTZS:    req.PriceTZS,
		Image:       req.Image,
		Location:    text.SingleLine(req.Location),
		Status:      constant.ListingStatusAvailable,
		Description: text.PlainText(req.Description),
		SellerID:    seller.ID,
		Details: model.LivestockDetails{
			Breed:  text.SingleLine(req.Details.Breed),
			Age:    text.SingleLine(req.Details.Age),
			Gender: text.SingleLine(req.Details.Gender),
			Type:   text.SingleLine(req.Details.Type),
			Weight: text.SingleLine(req.Details.Weight),
		},
		Seller: model.SellerInfo{
			Name:  seller.FullName,
			Phone: req.SellerPhone,
		},
	}
	if item.Name == "" || item.Category == "" {
		return nil, errors.SetCustomError(constant.ErrInvalidRequest)
	}

	created, err := s.livestockRepo.Create(ctx, item)
	if err != nil {
		logger.Error("[Create] err livestockRepo.Create", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	s.cache.Remove(constant.CatalogCacheKey)
	return created, nil
}

func (s *livestockAppImpl) SetVerified(ctx context.Context, id uint64, verified bool) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.livestockRepo.UpdateVerified(ctx, id, verified); err != nil {
		logger.Error("[SetVerified] err livestockRepo.UpdateVerified", zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}
	s.cache.Remove(constant.CatalogCacheKey)
	return nil
}

func (s *livestockAppImpl) SetFeatured(ctx context.Context, id uint64, featured bool) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.livestockRepo.UpdateFeatured(ctx, id, featured); err != nil {
		logger.Error("[SetFeatured] err livestockRepo.UpdateFeatured", zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}
	s.cache.Remove(constant.CatalogCacheKey)
	return nil
}

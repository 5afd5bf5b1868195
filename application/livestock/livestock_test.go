package livestock_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	applivestock "github.com/chapavet/marketplace/application/livestock"
	"github.com/chapavet/marketplace/cmd/config"
	"github.com/chapavet/marketplace/constant"
	livestockmocks "github.com/chapavet/marketplace/mocks/repository/livestock"
	usermocks "github.com/chapavet/marketplace/mocks/repository/user"
	"github.com/chapavet/marketplace/model"
	"github.com/chapavet/marketplace/utils/cache"
	cerr "github.com/chapavet/marketplace/utils/errors"
	"github.com/stretchr/testify/mock"
)

func testConfig() *config.Config {
	return &config.Config{Cache: config.CacheConfig{CatalogTTL: time.Minute}}
}

func TestLivestockApp_SearchUsesCachedCatalog(t *testing.T) {
	livestockRepo := livestockmocks.NewLivestockRepository(t)
	userRepo := usermocks.NewUserRepository(t)

	items := []model.LivestockItem{
		{ID: 1, Name: "Friesian Dairy Cow", Category: "cattle", Location: "Arusha", Verified: true},
		{ID: 2, Name: "Boer Goat", Category: "goats", Location: "Dodoma", Verified: true},
	}
	livestockRepo.
		On("List", mock.Anything, &model.LivestockFilter{Status: constant.ListingStatusAvailable}).
		Return(items, nil).
		Once()

	app := applivestock.NewLivestockApp(testConfig(), livestockRepo, userRepo, cache.New())

	first, err := app.Search(context.Background(), "cow", "")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(first) != 1 || first[0].ID != 1 {
		t.Fatalf("Search(cow) = %+v", first)
	}

	// second call must be served from the cache (List is expected Once)
	second, err := app.Search(context.Background(), "", "dodoma")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(second) != 1 || second[0].ID != 2 {
		t.Fatalf("Search(\"\", dodoma) = %+v", second)
	}

	featured, err := app.Featured(context.Background())
	if err != nil {
		t.Fatalf("Featured() error = %v", err)
	}
	if len(featured) != 2 {
		t.Fatalf("Featured() len = %d, want 2", len(featured))
	}
}

func TestLivestockApp_SearchRepoError(t *testing.T) {
	livestockRepo := livestockmocks.NewLivestockRepository(t)
	livestockRepo.On("List", mock.Anything, mock.Anything).Return(nil, errors.New("db down")).Once()

	app := applivestock.NewLivestockApp(testConfig(), livestockRepo, usermocks.NewUserRepository(t), cache.New())

	_, err := app.Search(context.Background(), "cow", "")
	var ce cerr.CustomError
	if !errors.As(err, &ce) || ce.ErrorCode() != constant.ErrorTypeCode[constant.ErrInternal] {
		t.Fatalf("Search() error = %v, want internal", err)
	}
}

func TestLivestockApp_Get(t *testing.T) {
	type fields struct {
		livestockRepo *livestockmocks.LivestockRepository
	}
	tests := []struct {
		name     string
		id       uint64
		mockCall func(f fields)
		want     *model.LivestockItem
		wantErr  bool
		errCode  constant.ErrorType
	}{
		{
			name: "success: found",
			id:   7,
			mockCall: func(f fields) {
				f.livestockRepo.On("GetByID", mock.Anything, uint64(7)).Return(&model.LivestockItem{ID: 7, Name: "Large White Pig"}, nil).Once()
			},
			want: &model.LivestockItem{ID: 7, Name: "Large White Pig"},
		},
		{
			name: "error: not found",
			id:   99,
			mockCall: func(f fields) {
				f.livestockRepo.On("GetByID", mock.Anything, uint64(99)).Return(nil, nil).Once()
			},
			wantErr: true,
			errCode: constant.ErrNotFound,
		},
		{
			name: "error: repository fails",
			id:   1,
			mockCall: func(f fields) {
				f.livestockRepo.On("GetByID", mock.Anything, uint64(1)).Return(nil, errors.New("db error")).Once()
			},
			wantErr: true,
			errCode: constant.ErrInternal,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			f := fields{livestockRepo: livestockmocks.NewLivestockRepository(t)}
			tt.mockCall(f)
			app := applivestock.NewLivestockApp(testConfig(), f.livestockRepo, usermocks.NewUserRepository(t), cache.New())

			got, err := app.Get(context.Background(), tt.id)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Get() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				var ce cerr.CustomError
				if !errors.As(err, &ce) {
					t.Fatalf("error type = %T, want CustomError", err)
				}
				if ce.ErrorCode() != constant.ErrorTypeCode[tt.errCode] {
					t.Fatalf("error code = %s, want %s", ce.ErrorCode(), constant.ErrorTypeCode[tt.errCode])
				}
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Get() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLivestockApp_Create(t *testing.T) {
	type fields struct {
		livestockRepo *livestockmocks.LivestockRepository
		userRepo      *usermocks.UserRepository
	}
	req := &model.CreateLivestockRequest{
		Name:        "<b>Jersey</b> Cow",
		Category:    "cattle",
		Price:       "TSh 1,900,000",
		PriceTZS:    1900000,
		Location:    "Moshi",
		Description: "<p>Calm, high butterfat milk</p>",
		Details:     model.LivestockDetails{Breed: "Jersey", Type: "Dairy Cow"},
		SellerPhone: "+255700000001",
	}
	tests := []struct {
		name     string
		mockCall func(f fields)
		wantErr  bool
		errCode  constant.ErrorType
	}{
		{
			name: "success: seller creates listing",
			mockCall: func(f fields) {
				f.userRepo.On("Get", mock.Anything, &model.UserFilter{ID: 5}).
					Return(&model.UserEntity{ID: 5, FullName: "Neema", Role: constant.RoleSeller}, nil).Once()
				f.livestockRepo.On("Create", mock.Anything, mock.MatchedBy(func(it *model.LivestockItem) bool {
					return it.Name == "Jersey Cow" &&
						it.Description == "Calm, high butterfat milk" &&
						it.SellerID == 5 &&
						it.Seller.Name == "Neema" &&
						it.Status == constant.ListingStatusAvailable &&
						!it.Verified
				})).Return(&model.LivestockItem{ID: 11, Name: "Jersey Cow"}, nil).Once()
			},
		},
		{
			name: "error: buyer cannot list",
			mockCall: func(f fields) {
				f.userRepo.On("Get", mock.Anything, &model.UserFilter{ID: 5}).
					Return(&model.UserEntity{ID: 5, Role: constant.RoleBuyer}, nil).Once()
			},
			wantErr: true,
			errCode: constant.ErrForbidden,
		},
		{
			name: "error: unknown user",
			mockCall: func(f fields) {
				f.userRepo.On("Get", mock.Anything, &model.UserFilter{ID: 5}).Return(nil, nil).Once()
			},
			wantErr: true,
			errCode: constant.ErrUnauthorize,
		},
		{
			name: "error: insert fails",
			mockCall: func(f fields) {
				f.userRepo.On("Get", mock.Anything, &model.UserFilter{ID: 5}).
					Return(&model.UserEntity{ID: 5, Role: constant.RoleAdmin}, nil).Once()
				f.livestockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.LivestockItem")).
					Return(nil, errors.New("insert failed")).Once()
			},
			wantErr: true,
			errCode: constant.ErrInternal,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			f := fields{
				livestockRepo: livestockmocks.NewLivestockRepository(t),
				userRepo:      usermocks.NewUserRepository(t),
			}
			tt.mockCall(f)

			c := cache.New()
			c.Set(constant.CatalogCacheKey, []model.LivestockItem{}, time.Hour)
			app := applivestock.NewLivestockApp(testConfig(), f.livestockRepo, f.userRepo, c)

			got, err := app.Create(context.Background(), 5, req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Create() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				var ce cerr.CustomError
				if !errors.As(err, &ce) || ce.ErrorCode() != constant.ErrorTypeCode[tt.errCode] {
					t.Fatalf("error = %v, want code %s", err, constant.ErrorTypeCode[tt.errCode])
				}
				return
			}
			if got.ID != 11 {
				t.Fatalf("Create() id = %d, want 11", got.ID)
			}
			if c.Has(constant.CatalogCacheKey) {
				t.Fatalf("catalog cache not invalidated after create")
			}
		})
	}
}

func TestLivestockApp_SetVerifiedInvalidatesCache(t *testing.T) {
	livestockRepo := livestockmocks.NewLivestockRepository(t)
	livestockRepo.On("GetByID", mock.Anything, uint64(4)).Return(&model.LivestockItem{ID: 4}, nil).Once()
	livestockRepo.On("UpdateVerified", mock.Anything, uint64(4), true).Return(nil).Once()

	c := cache.New()
	c.Set(constant.CatalogCacheKey, []model.LivestockItem{}, time.Hour)
	app := applivestock.NewLivestockApp(testConfig(), livestockRepo, usermocks.NewUserRepository(t), c)

	if err := app.SetVerified(context.Background(), 4, true); err != nil {
		t.Fatalf("SetVerified() error = %v", err)
	}
	if c.Has(constant.CatalogCacheKey) {
		t.Fatalf("catalog cache not invalidated")
	}
}

func TestLivestockApp_SetFeaturedNotFound(t *testing.T) {
	livestockRepo := livestockmocks.NewLivestockRepository(t)
	livestockRepo.On("GetByID", mock.Anything, uint64(404)).Return(nil, nil).Once()

	app := applivestock.NewLivestockApp(testConfig(), livestockRepo, usermocks.NewUserRepository(t), cache.New())

	err := app.SetFeatured(context.Background(), 404, true)
	if !cerr.Is(err, constant.ErrNotFound) {
		t.Fatalf("SetFeatured() error = %v, want not found", err)
	}
}

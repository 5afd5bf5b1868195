package favorite_test

import (
	"context"
	"errors"
	"testing"

	appfavorite "github.com/chapavet/marketplace/application/favorite"
	"github.com/chapavet/marketplace/constant"
	favoritemocks "github.com/chapavet/marketplace/mocks/repository/favorite"
	livestockmocks "github.com/chapavet/marketplace/mocks/repository/livestock"
	"github.com/chapavet/marketplace/model"
	cerr "github.com/chapavet/marketplace/utils/errors"
	"github.com/stretchr/testify/mock"
)

func TestFavoriteApp_Add(t *testing.T) {
	type fields struct {
		favoriteRepo  *favoritemocks.FavoriteRepository
		livestockRepo *livestockmocks.LivestockRepository
	}
	tests := []struct {
		name     string
		mockCall func(f fields)
		wantErr  bool
		errCode  constant.ErrorType
	}{
		{
			name: "success",
			mockCall: func(f fields) {
				f.livestockRepo.On("GetByID", mock.Anything, uint64(3)).Return(&model.LivestockItem{ID: 3}, nil).Once()
				f.favoriteRepo.On("Add", mock.Anything, uint64(1), uint64(3)).Return(nil).Once()
			},
		},
		{
			name: "error: listing not found",
			mockCall: func(f fields) {
				f.livestockRepo.On("GetByID", mock.Anything, uint64(3)).Return(nil, nil).Once()
			},
			wantErr: true,
			errCode: constant.ErrNotFound,
		},
		{
			name: "error: insert fails",
			mockCall: func(f fields) {
				f.livestockRepo.On("GetByID", mock.Anything, uint64(3)).Return(&model.LivestockItem{ID: 3}, nil).Once()
				f.favoriteRepo.On("Add", mock.Anything, uint64(1), uint64(3)).Return(errors.New("db error")).Once()
			},
			wantErr: true,
			errCode: constant.ErrInternal,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			f := fields{
				favoriteRepo:  favoritemocks.NewFavoriteRepository(t),
				livestockRepo: livestockmocks.NewLivestockRepository(t),
			}
			tt.mockCall(f)

			err := appfavorite.NewFavoriteApp(f.favoriteRepo, f.livestockRepo).Add(context.Background(), 1, 3)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Add() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !cerr.Is(err, tt.errCode) {
				t.Fatalf("Add() error = %v, want %s", err, constant.ErrorTypeCode[tt.errCode])
			}
		})
	}
}

func TestFavoriteApp_ListSkipsMissingListings(t *testing.T) {
	favoriteRepo := favoritemocks.NewFavoriteRepository(t)
	livestockRepo := livestockmocks.NewLivestockRepository(t)

	favoriteRepo.On("ListIDs", mock.Anything, uint64(1)).Return([]uint64{3, 4, 5}, nil).Once()
	livestockRepo.On("GetByID", mock.Anything, uint64(3)).Return(&model.LivestockItem{ID: 3, Name: "Boer Goat Buck"}, nil).Once()
	livestockRepo.On("GetByID", mock.Anything, uint64(4)).Return(nil, nil).Once()
	livestockRepo.On("GetByID", mock.Anything, uint64(5)).Return(&model.LivestockItem{ID: 5}, nil).Once()

	got, err := appfavorite.NewFavoriteApp(favoriteRepo, livestockRepo).List(context.Background(), 1)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 2 || got[0].ID != 3 || got[1].ID != 5 {
		t.Fatalf("List() = %+v", got)
	}
}

func TestFavoriteApp_Remove(t *testing.T) {
	favoriteRepo := favoritemocks.NewFavoriteRepository(t)
	favoriteRepo.On("Remove", mock.Anything, uint64(1), uint64(3)).Return(nil).Once()

	if err := appfavorite.NewFavoriteApp(favoriteRepo, livestockmocks.NewLivestockRepository(t)).Remove(context.Background(), 1, 3); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
}

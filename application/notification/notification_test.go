package notification_test

import (
	"context"
	"errors"
	"testing"

	appnotification "github.com/chapavet/marketplace/application/notification"
	"github.com/chapavet/marketplace/constant"
	notificationmocks "github.com/chapavet/marketplace/mocks/repository/notification"
	"github.com/chapavet/marketplace/model"
	cerr "github.com/chapavet/marketplace/utils/errors"
	"github.com/stretchr/testify/mock"
)

func TestNotificationApp_Create(t *testing.T) {
	repo := notificationmocks.NewNotificationRepository(t)
	repo.On("Create", mock.Anything, &model.Notification{
		UserID: 4,
		Kind:   constant.NotificationAdminBroadcast,
		Title:  "Vaccination drive",
		Body:   "Free FMD vaccines in Arusha this Saturday",
	}).Return(&model.Notification{ID: 1, UserID: 4}, nil).Once()

	got, err := appnotification.NewNotificationApp(repo).Create(context.Background(), &model.CreateNotificationRequest{
		UserID: 4,
		Kind:   constant.NotificationAdminBroadcast,
		Title:  "<h1>Vaccination drive</h1>",
		Body:   "Free FMD vaccines in   Arusha this Saturday",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if got.ID != 1 {
		t.Fatalf("Create() = %+v", got)
	}
}

func TestNotificationApp_MarkRead(t *testing.T) {
	tests := []struct {
		name    string
		found   bool
		repoErr error
		errCode constant.ErrorType
	}{
		{name: "success", found: true},
		{name: "error: not owned or missing", found: false, errCode: constant.ErrNotFound},
		{name: "error: repository fails", repoErr: errors.New("db error"), errCode: constant.ErrInternal},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			repo := notificationmocks.NewNotificationRepository(t)
			repo.On("MarkRead", mock.Anything, uint64(4), uint64(9)).Return(tt.found, tt.repoErr).Once()

			err := appnotification.NewNotificationApp(repo).MarkRead(context.Background(), 4, 9)
			if tt.errCode == constant.Successful {
				if err != nil {
					t.Fatalf("MarkRead() error = %v", err)
				}
				return
			}
			if !cerr.Is(err, tt.errCode) {
				t.Fatalf("MarkRead() error = %v, want %s", err, constant.ErrorTypeCode[tt.errCode])
			}
		})
	}
}

func TestNotificationApp_List(t *testing.T) {
	repo := notificationmocks.NewNotificationRepository(t)
	repo.On("ListByUser", mock.Anything, uint64(4), 50).Return([]model.Notification{{ID: 2}, {ID: 1}}, nil).Once()

	got, err := appnotification.NewNotificationApp(repo).List(context.Background(), 4)
	if err != nil || len(got) != 2 {
		t.Fatalf("List() = %+v, %v", got, err)
	}
}

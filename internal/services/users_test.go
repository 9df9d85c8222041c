package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/sbilibin2017/gw-messenger/internal/apperr"
	"github.com/sbilibin2017/gw-messenger/internal/models"
	"github.com/sbilibin2017/gw-messenger/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userMocks struct {
	reader *services.MockUserReader
	lister *services.MockUserLister
	cache  *services.MockProfileCache
}

func newUserService(t *testing.T) (*services.UserService, userMocks) {
	ctrl := gomock.NewController(t)
	m := userMocks{
		reader: services.NewMockUserReader(ctrl),
		lister: services.NewMockUserLister(ctrl),
		cache:  services.NewMockProfileCache(ctrl),
	}
	return services.NewUserService(m.reader, m.lister, m.cache), m
}

func TestUserService_Get(t *testing.T) {
	joined := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	row := &models.UserDB{
		Username:     "alice",
		PasswordHash: "HASH",
		FirstName:    "Alice",
		LastName:     "A",
		Phone:        "1",
		JoinedAt:     joined,
		LastLoginAt:  joined,
	}

	tests := []struct {
		name     string
		username string
		setup    func(m userMocks)
		want     *models.UserProfile
		wantKind apperr.Kind
	}{
		{
			name:     "cache hit",
			username: "alice",
			setup: func(m userMocks) {
				m.cache.EXPECT().Get(gomock.Any(), "alice").Return(row.Profile(), nil)
			},
			want: row.Profile(),
		},
		{
			name:     "cache miss populates cache",
			username: "alice",
			setup: func(m userMocks) {
				m.cache.EXPECT().Get(gomock.Any(), "alice").Return(nil, errors.New("cache miss"))
				m.reader.EXPECT().GetByUsername(gomock.Any(), "alice").Return(row, nil)
				m.cache.EXPECT().Add(gomock.Any(), row.Profile()).Return(nil)
			},
			want: row.Profile(),
		},
		{
			name:     "cache set failure is ignored",
			username: "alice",
			setup: func(m userMocks) {
				m.cache.EXPECT().Get(gomock.Any(), "alice").Return(nil, errors.New("redis down"))
				m.reader.EXPECT().GetByUsername(gomock.Any(), "alice").Return(row, nil)
				m.cache.EXPECT().Add(gomock.Any(), gomock.Any()).Return(errors.New("redis down"))
			},
			want: row.Profile(),
		},
		{
			name:     "not found",
			username: "ghost",
			setup: func(m userMocks) {
				m.cache.EXPECT().Get(gomock.Any(), "ghost").Return(nil, errors.New("cache miss"))
				m.reader.EXPECT().GetByUsername(gomock.Any(), "ghost").
					Return(nil, apperr.New(apperr.KindNotFound, "users.GetByUsername", "user not found"))
			},
			wantKind: apperr.KindNotFound,
		},
		{
			name:     "storage error",
			username: "alice",
			setup: func(m userMocks) {
				m.cache.EXPECT().Get(gomock.Any(), "alice").Return(nil, errors.New("cache miss"))
				m.reader.EXPECT().GetByUsername(gomock.Any(), "alice").Return(nil, errors.New("db error"))
			},
			wantKind: apperr.KindInternal,
		},
		{
			name:     "invalid username",
			username: "",
			setup:    func(m userMocks) {},
			wantKind: apperr.KindValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newUserService(t)
			tt.setup(m)

			got, err := svc.Get(context.Background(), tt.username)
			if tt.want == nil {
				require.Error(t, err)
				assert.Nil(t, got)
				assert.Equal(t, tt.wantKind, apperr.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUserService_GetWithoutCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	reader := services.NewMockUserReader(ctrl)
	svc := services.NewUserService(reader, services.NewMockUserLister(ctrl), nil)

	reader.EXPECT().GetByUsername(gomock.Any(), "bob").Return(&models.UserDB{Username: "bob", PasswordHash: "HASH"}, nil)

	got, err := svc.Get(context.Background(), "bob")
	require.NoError(t, err)
	assert.Equal(t, "bob", got.Username)
}

func TestUserService_List(t *testing.T) {
	t.Run("returns users", func(t *testing.T) {
		svc, m := newUserService(t)
		users := []models.UserSummary{{Username: "alice"}, {Username: "bob"}}
		m.lister.EXPECT().List(gomock.Any()).Return(users, nil)

		got, err := svc.List(context.Background())
		require.NoError(t, err)
		assert.Equal(t, users, got)
	})

	t.Run("storage error", func(t *testing.T) {
		svc, m := newUserService(t)
		m.lister.EXPECT().List(gomock.Any()).Return(nil, errors.New("db error"))

		got, err := svc.List(context.Background())
		assert.Error(t, err)
		assert.Nil(t, got)
		assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
	})
}

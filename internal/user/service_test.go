package user_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/vivaahaverse/vivaah/internal/user"
)

func TestService_Signup(t *testing.T) {
	type testCase struct {
		name      string
		params    user.SignupParams
		setupMock func(repo *user.MockRepository)
		wantErr   error
		wantRole  user.Role
	}

	tests := []testCase{
		{
			name:   "DefaultsToClient",
			params: user.SignupParams{Name: "Asha", Email: "  Asha@Example.COM ", Password: "s3cret"},
			setupMock: func(repo *user.MockRepository) {
				repo.EXPECT().
					CreateUser(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, u *user.User) error {
						assert.Equal(t, "asha@example.com", u.Email)
						assert.NotEqual(t, "s3cret", u.PasswordHash)
						assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cret")))
						u.ID = uuid.New()
						return nil
					})
			},
			wantRole: user.RoleClient,
		},
		{
			name:   "Vendor",
			params: user.SignupParams{Email: "v@example.com", Password: "pw", Role: "vendor"},
			setupMock: func(repo *user.MockRepository) {
				repo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantRole: user.RoleVendor,
		},
		{
			name:    "MissingEmail",
			params:  user.SignupParams{Email: "  ", Password: "pw"},
			wantErr: user.ErrValidation,
		},
		{
			name:    "MissingPassword",
			params:  user.SignupParams{Email: "a@example.com"},
			wantErr: user.ErrValidation,
		},
		{
			name:    "UnknownRole",
			params:  user.SignupParams{Email: "a@example.com", Password: "pw", Role: "PLANNER"},
			wantErr: user.ErrValidation,
		},
		{
			name:   "EmailTaken",
			params: user.SignupParams{Email: "a@example.com", Password: "pw"},
			setupMock: func(repo *user.MockRepository) {
				repo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Return(user.ErrEmailTaken)
			},
			wantErr: user.ErrEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := user.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := user.NewService(repo, user.NewMockTokenIssuer(ctrl))
			got, err := svc.Signup(context.Background(), tt.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantRole, got.Role)
			assert.False(t, got.CreatedAt.IsZero())
		})
	}
}

func TestService_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	stored := &user.User{ID: uuid.New(), Email: "asha@example.com", PasswordHash: string(hash), Role: user.RoleClient}

	t.Run("Success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := user.NewMockRepository(ctrl)
		tokens := user.NewMockTokenIssuer(ctrl)

		repo.EXPECT().GetUserByEmail(gomock.Any(), "asha@example.com").Return(stored, nil)
		tokens.EXPECT().Issue(stored.ID, "CLIENT").Return("signed", nil)

		got, token, err := user.NewService(repo, tokens).Login(context.Background(), " ASHA@example.com", "s3cret ")
		require.NoError(t, err)
		assert.Equal(t, stored.ID, got.ID)
		assert.Equal(t, "signed", token)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := user.NewMockRepository(ctrl)

		repo.EXPECT().GetUserByEmail(gomock.Any(), gomock.Any()).Return(stored, nil)

		_, _, err := user.NewService(repo, user.NewMockTokenIssuer(ctrl)).Login(context.Background(), "asha@example.com", "nope")
		assert.ErrorIs(t, err, user.ErrInvalidCredentials)
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := user.NewMockRepository(ctrl)

		repo.EXPECT().GetUserByEmail(gomock.Any(), gomock.Any()).Return(nil, user.ErrNotFound)

		_, _, err := user.NewService(repo, user.NewMockTokenIssuer(ctrl)).Login(context.Background(), "who@example.com", "pw")
		assert.ErrorIs(t, err, user.ErrInvalidCredentials)
	})

	t.Run("StoreFailure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := user.NewMockRepository(ctrl)

		repo.EXPECT().GetUserByEmail(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))

		_, _, err := user.NewService(repo, user.NewMockTokenIssuer(ctrl)).Login(context.Background(), "a@example.com", "pw")
		require.Error(t, err)
		assert.NotErrorIs(t, err, user.ErrInvalidCredentials)
	})
}

func TestService_Authenticate(t *testing.T) {
	id := uuid.New()

	t.Run("Success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := user.NewMockRepository(ctrl)
		tokens := user.NewMockTokenIssuer(ctrl)

		tokens.EXPECT().Verify("signed").Return(id, nil)
		repo.EXPECT().GetUser(gomock.Any(), id).Return(&user.User{ID: id, Role: user.RoleVendor}, nil)

		got, err := user.NewService(repo, tokens).Authenticate(context.Background(), "signed")
		require.NoError(t, err)
		assert.Equal(t, id, got.ID)
	})

	t.Run("BadToken", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		tokens := user.NewMockTokenIssuer(ctrl)

		tokens.EXPECT().Verify("forged").Return(uuid.Nil, errors.New("signature is invalid"))

		_, err := user.NewService(user.NewMockRepository(ctrl), tokens).Authenticate(context.Background(), "forged")
		assert.ErrorIs(t, err, user.ErrInvalidToken)
	})

	t.Run("DeletedUser", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := user.NewMockRepository(ctrl)
		tokens := user.NewMockTokenIssuer(ctrl)

		tokens.EXPECT().Verify("signed").Return(id, nil)
		repo.EXPECT().GetUser(gomock.Any(), id).Return(nil, user.ErrNotFound)

		_, err := user.NewService(repo, tokens).Authenticate(context.Background(), "signed")
		assert.ErrorIs(t, err, user.ErrInvalidToken)
	})
}

func TestService_UpdateBudget(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := user.NewMockRepository(ctrl)
	svc := user.NewService(repo, nil)
	id := uuid.New()

	_, err := svc.UpdateBudget(context.Background(), id, user.UpdateBudgetParams{Limit: -1})
	assert.ErrorIs(t, err, user.ErrValidation)

	repo.EXPECT().UpdateBudgetLimit(gomock.Any(), id, int64(1500000)).Return(&user.User{ID: id, BudgetLimit: 1500000}, nil)

	got, err := svc.UpdateBudget(context.Background(), id, user.UpdateBudgetParams{Limit: 1500000})
	require.NoError(t, err)
	assert.Equal(t, int64(1500000), got.BudgetLimit)
}

func TestParseRole(t *testing.T) {
	r, err := user.ParseRole("")
	require.NoError(t, err)
	assert.Equal(t, user.RoleClient, r)

	r, err = user.ParseRole(" Vendor ")
	require.NoError(t, err)
	assert.Equal(t, user.RoleVendor, r)
}

package service

import (
	"context"
	"errors"
	"testing"

	"yamdb/internal/http-api/dto"
	"yamdb/internal/http-api/models"
	"yamdb/internal/http-api/policy"
	"yamdb/internal/http-api/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var userAdmin = policy.Actor{ID: "admin-id", Role: models.RoleAdmin}

func TestUserCreate_LookupFailureIsNotAConflict(t *testing.T) {
	storeDown := errors.New("connection reset")

	tests := []struct {
		name  string
		setup func(users *MockUserRepository)
	}{
		{
			name: "username lookup fails",
			setup: func(users *MockUserRepository) {
				users.On("FindByUsername", mock.Anything, "carol").Return(nil, storeDown)
			},
		},
		{
			name: "email lookup fails",
			setup: func(users *MockUserRepository) {
				users.On("FindByUsername", mock.Anything, "carol").Return(nil, repository.ErrNotFound)
				users.On("FindByEmail", mock.Anything, "carol@example.com").Return(nil, storeDown)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserRepository)
			tt.setup(users)
			svc := NewUserService(users, discardLogger())

			_, err := svc.Create(context.Background(), userAdmin, dto.CreateUserRequest{Username: "carol", Email: "carol@example.com"})
			assert.ErrorIs(t, err, storeDown)
			var verr *ValidationError
			assert.False(t, errors.As(err, &verr))
			users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestUserCreate_TakenUsername(t *testing.T) {
	users := new(MockUserRepository)
	users.On("FindByUsername", mock.Anything, "carol").Return(&models.User{ID: "other-id"}, nil)
	users.On("FindByEmail", mock.Anything, "carol@example.com").Return(nil, repository.ErrNotFound)
	svc := NewUserService(users, discardLogger())

	_, err := svc.Create(context.Background(), userAdmin, dto.CreateUserRequest{Username: "carol", Email: "carol@example.com"})
	var verr *ValidationError
	if assert.ErrorAs(t, err, &verr) {
		assert.Contains(t, verr.Fields, "username")
		assert.NotContains(t, verr.Fields, "email")
	}
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

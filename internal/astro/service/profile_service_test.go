package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/AnthoniusHendriyanto/askastro-service/internal/astro/domain"
	"github.com/AnthoniusHendriyanto/askastro-service/internal/astro/service"
	apperr "github.com/AnthoniusHendriyanto/askastro-service/internal/errors"
	"github.com/AnthoniusHendriyanto/askastro-service/internal/mocks"
	"github.com/AnthoniusHendriyanto/askastro-service/internal/ratelimit"
	"github.com/AnthoniusHendriyanto/askastro-service/internal/zodiac"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileService_GetDOB(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockUserRepository(ctrl)
	s := service.NewProfileService(mockRepo, ratelimit.NewLimiter(), nil, nil)

	dob := time.Date(1992, time.March, 25, 0, 0, 0, 0, time.UTC)
	mockRepo.EXPECT().GetDOBStatus(gomock.Any(), testEmail).Return(&domain.DOBStatus{DOB: &dob, Collected: true}, nil)

	profile, err := s.GetDOB(context.Background(), testEmail, "")
	require.NoError(t, err)
	assert.True(t, profile.Collected)
	assert.Equal(t, zodiac.Aries, profile.Sign)
	require.NotNil(t, profile.Characteristics)
}

func TestProfileService_GetDOB_NotCollected(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockUserRepository(ctrl)
	s := service.NewProfileService(mockRepo, ratelimit.NewLimiter(), nil, nil)

	mockRepo.EXPECT().GetDOBStatus(gomock.Any(), testEmail).Return(&domain.DOBStatus{}, nil)

	profile, err := s.GetDOB(context.Background(), testEmail, testEmail)
	require.NoError(t, err)
	assert.False(t, profile.Collected)
	assert.Nil(t, profile.DOB)
	assert.Empty(t, profile.Sign)
}

func TestProfileService_GetDOB_Errors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockUserRepository(ctrl)
	s := service.NewProfileService(mockRepo, ratelimit.NewLimiter(), nil, nil)

	_, err := s.GetDOB(context.Background(), testEmail, "someone@else.com")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	mockRepo.EXPECT().GetDOBStatus(gomock.Any(), testEmail).Return(nil, nil)
	_, err = s.GetDOB(context.Background(), testEmail, "")
	assert.ErrorIs(t, err, apperr.ErrUserNotFound)
}

func TestProfileService_UpdateDOB_Stores(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockUserRepository(ctrl)
	s := service.NewProfileService(mockRepo, ratelimit.NewLimiter(), nil, nil)

	want := time.Date(1990, time.August, 1, 0, 0, 0, 0, time.UTC)
	mockRepo.EXPECT().GetCurrentDOB(gomock.Any(), testEmail).Return(&domain.DOBStatus{}, nil)
	mockRepo.EXPECT().UpdateDOB(gomock.Any(), testEmail, want).Return(nil)
	mockRepo.EXPECT().InvalidateCache(
		domain.DOBCheckCacheKey(testEmail),
		domain.UserDOBCheckCacheKey(testEmail),
		domain.SessionCacheKey(testEmail),
		domain.UserCacheKey(testEmail),
	)

	update, err := s.UpdateDOB(context.Background(), testEmail, "1.2.3.4", testEmail, "1990-08-01")
	require.NoError(t, err)
	assert.True(t, update.Changed)
	assert.Equal(t, zodiac.Leo, update.Profile.Sign)
	assert.True(t, update.Profile.Collected)
}

func TestProfileService_UpdateDOB_Unchanged(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockUserRepository(ctrl)
	s := service.NewProfileService(mockRepo, ratelimit.NewLimiter(), nil, nil)

	current := time.Date(1990, time.August, 1, 0, 0, 0, 0, time.UTC)
	mockRepo.EXPECT().GetCurrentDOB(gomock.Any(), testEmail).Return(&domain.DOBStatus{DOB: &current, Collected: true}, nil)

	update, err := s.UpdateDOB(context.Background(), testEmail, "", testEmail, "1990-08-01")
	require.NoError(t, err)
	assert.False(t, update.Changed)
}

func TestProfileService_UpdateDOB_Validation(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		dob     string
		kind    error
		message string
	}{
		{name: "missing fields", email: testEmail, dob: "", kind: apperr.ErrValidation, message: "Email and date of birth are required."},
		{name: "other account", email: "other@example.com", dob: "1990-08-01", kind: apperr.ErrUnauthorized},
		{name: "bad format", email: testEmail, dob: "01/08/1990", kind: apperr.ErrValidation, message: "Invalid date format. Please use YYYY-MM-DD."},
		{name: "future", email: testEmail, dob: "2999-01-01", kind: apperr.ErrValidation, message: "Date of birth cannot be in the future."},
		{name: "too old", email: testEmail, dob: "1900-01-01", kind: apperr.ErrValidation, message: "You must be between 13 and 100 years old."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			s := service.NewProfileService(mocks.NewMockUserRepository(ctrl), ratelimit.NewLimiter(), nil, nil)

			_, err := s.UpdateDOB(context.Background(), testEmail, "", tt.email, tt.dob)
			assert.ErrorIs(t, err, tt.kind)
			if tt.message != "" {
				assert.Equal(t, tt.message, apperr.UserMessage(err))
			}
		})
	}
}

func TestProfileService_UpdateDOB_RateLimited(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s := service.NewProfileService(mocks.NewMockUserRepository(ctrl), ratelimit.NewLimiter(), nil, nil)

	for i := 0; i < service.DefaultProfileRateLimit; i++ {
		_, err := s.UpdateDOB(context.Background(), testEmail, "", testEmail, "not-a-date")
		require.ErrorIs(t, err, apperr.ErrValidation)
	}

	_, err := s.UpdateDOB(context.Background(), testEmail, "", testEmail, "not-a-date")
	assert.ErrorIs(t, err, apperr.ErrRateLimited)
	assert.Equal(t, "Too many update attempts. Please try again later.", apperr.UserMessage(err))
}

func TestProfileService_AllowUpdate_SharesTheUpdateLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s := service.NewProfileService(mocks.NewMockUserRepository(ctrl), ratelimit.NewLimiter(), nil, nil)

	for i := 0; i < service.DefaultProfileRateLimit; i++ {
		require.NoError(t, s.AllowUpdate(testEmail, "1.2.3.4"))
	}

	_, err := s.UpdateDOB(context.Background(), testEmail, "1.2.3.4", testEmail, "1990-08-01")
	assert.ErrorIs(t, err, apperr.ErrRateLimited)
	assert.NoError(t, s.AllowUpdate("other@example.com", "1.2.3.4"))
}

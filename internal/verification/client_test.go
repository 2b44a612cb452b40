package verification_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamehub/topup-service/internal/orders"
	"gamehub/topup-service/internal/verification"
	mock_verification "gamehub/topup-service/internal/verification/mocks"
)

func TestClient_Verify(t *testing.T) {
	tests := []struct {
		name           string
		resp           *orders.Verification
		respErr        error
		wantOutcome    verification.Outcome
		wantErr        error
		wantInvalidate bool
	}{
		{
			name:           "confirmed invalidates cache",
			resp:           &orders.Verification{Outcome: "CONFIRMED", CreditedAmount: 3000},
			wantOutcome:    verification.Outcome{Status: verification.StatusConfirmed, CreditedAmount: 3000},
			wantInvalidate: true,
		},
		{
			name:           "failed invalidates cache",
			resp:           &orders.Verification{Outcome: "failed", ReasonCode: "DECLINED"},
			wantOutcome:    verification.Outcome{Status: verification.StatusFailed, Reason: "DECLINED"},
			wantInvalidate: true,
		},
		{
			name:        "pending leaves cache alone",
			resp:        &orders.Verification{Outcome: "PENDING"},
			wantOutcome: verification.Outcome{Status: verification.StatusPending},
		},
		{
			name:    "transport error",
			respErr: errors.New("connection refused"),
		},
		{
			name:    "unknown outcome",
			resp:    &orders.Verification{Outcome: "REVERSED"},
			wantErr: verification.ErrUnknownOutcome,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			backend := mock_verification.NewMockBackend(ctrl)
			cache := mock_verification.NewMockInvalidator(ctrl)

			backend.EXPECT().VerifyTopUpPayment(gomock.Any(), "user-1", "TOP-1").Return(tt.resp, tt.respErr)
			if tt.wantInvalidate {
				cache.EXPECT().Invalidate(gomock.Any(), "user-1").Return(nil)
			}

			got, err := verification.NewClient(backend, cache).Verify(context.Background(), "user-1", "TOP-1")
			switch {
			case tt.respErr != nil:
				assert.ErrorIs(t, err, tt.respErr)
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.wantOutcome, got)
			}
		})
	}
}

func TestClient_CheckPending_Idempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	backend := mock_verification.NewMockBackend(ctrl)
	cache := mock_verification.NewMockInvalidator(ctrl)

	backend.EXPECT().
		CheckPendingTopUp(gomock.Any(), "user-1", "TOP-1").
		Return(&orders.Verification{Outcome: "PENDING"}, nil).
		Times(3)

	client := verification.NewClient(backend, cache)
	for i := 0; i < 3; i++ {
		got, err := client.CheckPending(context.Background(), "user-1", "TOP-1")
		require.NoError(t, err)
		assert.Equal(t, verification.StatusPending, got.Status)
	}
}

func TestClient_InvalidationFailureDoesNotMaskOutcome(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	backend := mock_verification.NewMockBackend(ctrl)
	cache := mock_verification.NewMockInvalidator(ctrl)

	backend.EXPECT().CheckPendingTopUp(gomock.Any(), "user-1", "TOP-1").
		Return(&orders.Verification{Outcome: "CONFIRMED", CreditedAmount: 500}, nil)
	cache.EXPECT().Invalidate(gomock.Any(), "user-1").Return(errors.New("redis down"))

	got, err := verification.NewClient(backend, cache).CheckPending(context.Background(), "user-1", "TOP-1")
	require.NoError(t, err)
	assert.Equal(t, verification.Outcome{Status: verification.StatusConfirmed, CreditedAmount: 500}, got)
}

package application

import (
	"context"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupPaymentService() (*PaymentService, redismock.ClientMock) {
	db, mock := redismock.NewClientMock()
	return NewPaymentService(db, testLogger()), mock
}

func TestPaymentComplete_Success(t *testing.T) {
	svc, mock := setupPaymentService()
	defer mock.ClearExpect()
	ctx := context.Background()

	mock.ExpectHGetAll("payment:p1").SetVal(map[string]string{
		"payment_id": "p1",
		"user_id":    "u1",
		"event_id":   "e1",
		"amount":     "10",
		"status":     "pending",
	})
	mock.ExpectHSet("payment:p1", "status", "completed").SetVal(1)
	mock.ExpectSet("payment:done:e1:u1", "p1", paymentTTL).SetVal("OK")

	p, err := svc.Complete(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, "u1", p.UserID)
	assert.Equal(t, "e1", p.EventID)
	assert.Equal(t, PaymentCompleted, p.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentComplete_UnknownSession(t *testing.T) {
	svc, mock := setupPaymentService()
	defer mock.ClearExpect()

	mock.ExpectHGetAll("payment:ghost").SetVal(map[string]string{})

	_, err := svc.Complete(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentCompleted_Lookup(t *testing.T) {
	svc, mock := setupPaymentService()
	defer mock.ClearExpect()
	ctx := context.Background()

	mock.ExpectGet("payment:done:e1:u1").SetVal("p1")
	done, err := svc.Completed(ctx, "u1", "e1")
	require.NoError(t, err)
	assert.True(t, done)

	mock.ExpectGet("payment:done:e1:u2").RedisNil()
	done, err = svc.Completed(ctx, "u2", "e1")
	require.NoError(t, err)
	assert.False(t, done, "an expired or absent marker reads as not paid")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentConsume(t *testing.T) {
	svc, mock := setupPaymentService()
	defer mock.ClearExpect()

	mock.ExpectDel("payment:done:e1:u1").SetVal(1)
	require.NoError(t, svc.Consume(context.Background(), "u1", "e1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

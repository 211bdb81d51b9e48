package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ErrPaymentRequired gates the join branch for priced events.
var ErrPaymentRequired = errors.New("payment required")

const paymentTTL = 10 * time.Minute

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
)

type Payment struct {
	ID      string        `json:"payment_id"`
	UserID  string        `json:"user_id"`
	EventID string        `json:"event_id"`
	Amount  float64       `json:"amount"`
	Status  PaymentStatus `json:"status"`
}

// PaymentGate is what the session controller needs from payments: start a
// session for a priced join, check whether one has completed, and consume
// it once the join lands.
type PaymentGate interface {
	Start(ctx context.Context, userID, eventID string, amount float64) (Payment, error)
	Complete(ctx context.Context, paymentID string) (Payment, error)
	Completed(ctx context.Context, userID, eventID string) (bool, error)
	Consume(ctx context.Context, userID, eventID string) error
}

// PaymentService keeps simulated payment sessions in redis hashes with a
// short TTL. Completion stands in for the card processor callback.
type PaymentService struct {
	Redis  *redis.Client
	Logger *logrus.Logger
}

func NewPaymentService(rdb *redis.Client, logger *logrus.Logger) *PaymentService {
	return &PaymentService{Redis: rdb, Logger: logger}
}

func paymentKey(id string) string { return "payment:" + id }

func paymentDoneKey(eventID, userID string) string {
	return fmt.Sprintf("payment:done:%s:%s", eventID, userID)
}

func (s *PaymentService) Start(ctx context.Context, userID, eventID string, amount float64) (Payment, error) {
	p := Payment{
		ID:      fmt.Sprintf("payment_%s_%d", userID, time.Now().UnixNano()),
		UserID:  userID,
		EventID: eventID,
		Amount:  amount,
		Status:  PaymentPending,
	}
	key := paymentKey(p.ID)
	pipe := s.Redis.Pipeline()
	pipe.HSet(ctx, key, map[string]any{
		"payment_id": p.ID,
		"user_id":    p.UserID,
		"event_id":   p.EventID,
		"amount":     p.Amount,
		"status":     string(p.Status),
		"created_at": time.Now().Unix(),
	})
	pipe.Expire(ctx, key, paymentTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return Payment{}, err
	}
	s.Logger.WithFields(logrus.Fields{"payment_id": p.ID, "event_id": eventID}).Info("payment session created")
	return p, nil
}

func (s *PaymentService) Complete(ctx context.Context, paymentID string) (Payment, error) {
	key := paymentKey(paymentID)
	data, err := s.Redis.HGetAll(ctx, key).Result()
	if err != nil {
		return Payment{}, err
	}
	if len(data) == 0 {
		return Payment{}, ErrNotFound
	}
	p := Payment{
		ID:      data["payment_id"],
		UserID:  data["user_id"],
		EventID: data["event_id"],
		Status:  PaymentCompleted,
	}
	pipe := s.Redis.Pipeline()
	pipe.HSet(ctx, key, "status", string(PaymentCompleted))
	pipe.Set(ctx, paymentDoneKey(p.EventID, p.UserID), p.ID, paymentTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return Payment{}, err
	}
	s.Logger.WithField("payment_id", p.ID).Info("payment completed")
	return p, nil
}

func (s *PaymentService) Completed(ctx context.Context, userID, eventID string) (bool, error) {
	_, err := s.Redis.Get(ctx, paymentDoneKey(eventID, userID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *PaymentService) Consume(ctx context.Context, userID, eventID string) error {
	return s.Redis.Del(ctx, paymentDoneKey(eventID, userID)).Err()
}

var _ PaymentGate = (*PaymentService)(nil)

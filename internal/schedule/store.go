// Package schedule serves the gateway fee schedule currently in force. Finance
// publishes schedules to Mongo; the environment supplies the fallback.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gamehub/topup-service/internal/fees"
)

const Collection = "fee_schedules"

const (
	SourceEnv   = "env"
	SourceMongo = "mongo"
)

// Doc is a published fee schedule. PercentageFee is a decimal string so
// rates like 0.015 survive the round trip exactly.
type Doc struct {
	ID                     primitive.ObjectID `bson:"_id,omitempty"`
	Currency               string             `bson:"currency"`
	PercentageFee          string             `bson:"percentageFee"`
	FlatFee                int64              `bson:"flatFee"`
	FlatFeeWaiverThreshold int64              `bson:"flatFeeWaiverThreshold"`
	FeeCap                 int64              `bson:"feeCap"`
	MinAmount              int64              `bson:"minAmount"`
	MaxAmount              int64              `bson:"maxAmount"`
	Active                 bool               `bson:"active"`
	EffectiveFrom          time.Time          `bson:"effectiveFrom"`
}

// Calculator converts d into a validated calculator. Zero limits fall back to
// the ones in fallback.
func (d Doc) Calculator(fallback fees.Calculator) (fees.Calculator, error) {
	pct, err := decimal.NewFromString(d.PercentageFee)
	if err != nil {
		return fees.Calculator{}, fmt.Errorf("%w: percentage %q: %v", fees.ErrInvalidSchedule, d.PercentageFee, err)
	}
	calc := fees.Calculator{
		Schedule: fees.Schedule{
			PercentageFee:          pct,
			FlatFee:                d.FlatFee,
			FlatFeeWaiverThreshold: d.FlatFeeWaiverThreshold,
			FeeCap:                 d.FeeCap,
		},
		MinAmount: d.MinAmount,
		MaxAmount: d.MaxAmount,
	}
	if calc.MinAmount == 0 {
		calc.MinAmount = fallback.MinAmount
	}
	if calc.MaxAmount == 0 {
		calc.MaxAmount = fallback.MaxAmount
	}
	if err := calc.Schedule.Validate(); err != nil {
		return fees.Calculator{}, err
	}
	return calc, nil
}

// Current is the schedule in force and where it came from.
type Current struct {
	Calculator fees.Calculator `json:"calculator"`
	Source     string          `json:"source"`
	ScheduleID string          `json:"scheduleId,omitempty"`
	LoadedAt   time.Time       `json:"loadedAt"`
}

type finder interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult
}

type Store struct {
	coll     finder
	currency string
	fallback fees.Calculator
	now      func() time.Time
	current  atomic.Pointer[Current]
}

func NewStore(db *mongo.Database, currency string, fallback fees.Calculator) *Store {
	var coll finder
	if db != nil {
		coll = db.Collection(Collection)
	}
	return newStore(coll, currency, fallback)
}

func newStore(coll finder, currency string, fallback fees.Calculator) *Store {
	s := &Store{coll: coll, currency: currency, fallback: fallback, now: time.Now}
	s.current.Store(&Current{Calculator: fallback, Source: SourceEnv, LoadedAt: s.now()})
	return s
}

// Calculator returns the calculator currently in force.
func (s *Store) Calculator() fees.Calculator {
	return s.current.Load().Calculator
}

func (s *Store) Current() Current {
	return *s.current.Load()
}

// Refresh loads the newest active schedule for the store's currency. With no
// published schedule the env fallback applies; an unreadable or invalid one
// keeps whatever is in force.
func (s *Store) Refresh(ctx context.Context) error {
	if s.coll == nil {
		return nil
	}
	now := s.now()
	filter := bson.M{
		"active":        true,
		"currency":      s.currency,
		"effectiveFrom": bson.M{"$lte": now},
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "effectiveFrom", Value: -1}})

	var doc Doc
	err := s.coll.FindOne(ctx, filter, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		if s.current.Load().Source != SourceEnv {
			log.Printf("[schedule] no active %s schedule, using env fallback", s.currency)
		}
		s.current.Store(&Current{Calculator: s.fallback, Source: SourceEnv, LoadedAt: now})
		return nil
	}
	if err != nil {
		return fmt.Errorf("load fee schedule: %w", err)
	}

	calc, err := doc.Calculator(s.fallback)
	if err != nil {
		return fmt.Errorf("fee schedule %s: %w", doc.ID.Hex(), err)
	}
	prev := s.current.Load()
	s.current.Store(&Current{Calculator: calc, Source: SourceMongo, ScheduleID: doc.ID.Hex(), LoadedAt: now})
	if prev.ScheduleID != doc.ID.Hex() {
		log.Printf("[schedule] fee schedule %s in force (pct=%s flat=%d cap=%d)", doc.ID.Hex(), doc.PercentageFee, doc.FlatFee, doc.FeeCap)
	}
	return nil
}

// Run refreshes the schedule every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Refresh(ctx); err != nil {
				log.Printf("[schedule] refresh failed: %v", err)
			}
		}
	}
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	intervalserrors "slotbook/internal/intervals/errors"
	"slotbook/pkg/config"
	mongotx "slotbook/pkg/db/mongo"
	"slotbook/pkg/model"
)

const CollectionName = "TimeIntervals"

type IntervalRepository interface {
	ReplaceForUser(ctx context.Context, userID string, intervals []*model.TimeInterval) error
	FindByUser(ctx context.Context, userID string) ([]*model.TimeInterval, error)
	FindByUserAndWeekDay(ctx context.Context, userID string, weekDay int) (*model.TimeInterval, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoIntervalRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoIntervalRepository(cfg *config.Config) IntervalRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoIntervalRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoIntervalRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

// ReplaceForUser swaps the user's whole weekly configuration in one
// shot. Resetting availability is always a bulk operation, never a
// per-window edit.
func (r *mongoIntervalRepository) ReplaceForUser(ctx context.Context, userID string, intervals []*model.TimeInterval) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if _, err := r.collection.DeleteMany(ctx, bson.M{"user_id": userID}); err != nil {
		return fmt.Errorf("failed to clear existing intervals: %w", err)
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	docs := make([]any, 0, len(intervals))
	for _, iv := range intervals {
		iv.UserID = userID
		iv.CreatedAt = now
		docs = append(docs, iv)
	}

	if len(docs) == 0 {
		return nil
	}

	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert intervals: %w", err)
	}
	return nil
}

func (r *mongoIntervalRepository) FindByUser(ctx context.Context, userID string) ([]*model.TimeInterval, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "week_day", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query intervals: %w", err)
	}
	defer cursor.Close(ctx)

	var intervals []*model.TimeInterval
	if err = cursor.All(ctx, &intervals); err != nil {
		return nil, fmt.Errorf("failed to decode intervals: %w", err)
	}
	return intervals, nil
}

func (r *mongoIntervalRepository) FindByUserAndWeekDay(ctx context.Context, userID string, weekDay int) (*model.TimeInterval, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var iv model.TimeInterval
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID, "week_day": weekDay}).Decode(&iv)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: user %s week day %d", intervalserrors.ErrNotFound, userID, weekDay)
		}
		return nil, fmt.Errorf("failed to find interval: %w", err)
	}
	return &iv, nil
}

func (r *mongoIntervalRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}

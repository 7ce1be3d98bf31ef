package pbx

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo persists call events in the "call_events" collection.
type MongoRepo struct {
	coll *mongo.Collection
}

func NewMongoRepo(db *mongo.Database) *MongoRepo {
	return &MongoRepo{coll: db.Collection("call_events")}
}

func (r *MongoRepo) Insert(ctx context.Context, ev *CallEvent) error {
	if _, err := r.coll.InsertOne(ctx, ev); err != nil {
		return fmt.Errorf("call_events insert: %w", err)
	}
	return nil
}

func (r *MongoRepo) FindByID(ctx context.Context, id string) (*CallEvent, error) {
	var ev CallEvent
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&ev)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("call_events find: %w", err)
	}
	return &ev, nil
}

func (r *MongoRepo) List(ctx context.Context, f EventFilter) ([]CallEvent, error) {
	filter := bson.M{}
	if f.AgentID != "" {
		filter["agent_id"] = f.AgentID
	}
	if f.Processed != nil {
		filter["processed"] = *f.Processed
	}

	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("call_events list: %w", err)
	}
	var out []CallEvent
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("call_events list decode: %w", err)
	}
	return out, nil
}

func (r *MongoRepo) set(ctx context.Context, id string, set bson.M) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("call_events update: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepo) MarkProcessed(ctx context.Context, id, processedAt string) error {
	return r.set(ctx, id, bson.M{"processed": true, "processed_at": processedAt})
}

func (r *MongoRepo) AttachCall(ctx context.Context, id, callID, processedAt string) error {
	return r.set(ctx, id, bson.M{"processed": true, "processed_at": processedAt, "call_id": callID})
}

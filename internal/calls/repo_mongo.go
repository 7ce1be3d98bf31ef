package calls

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo persists calls in the "calls" collection.
type MongoRepo struct {
	coll *mongo.Collection
}

func NewMongoRepo(db *mongo.Database) *MongoRepo {
	return &MongoRepo{coll: db.Collection("calls")}
}

func (r *MongoRepo) Insert(ctx context.Context, call *Call) error {
	if _, err := r.coll.InsertOne(ctx, call); err != nil {
		return fmt.Errorf("calls insert: %w", err)
	}
	return nil
}

func (r *MongoRepo) FindByID(ctx context.Context, id string) (*Call, error) {
	var call Call
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&call)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("calls find: %w", err)
	}
	return &call, nil
}

func mongoFilter(f Filter) bson.M {
	filter := bson.M{}
	if f.Search != "" {
		filter["$or"] = bson.A{
			bson.M{"caller_number": bson.M{"$regex": f.Search, "$options": "i"}},
			bson.M{"contact_name": bson.M{"$regex": f.Search, "$options": "i"}},
			bson.M{"notes": bson.M{"$regex": f.Search, "$options": "i"}},
		}
	}
	if f.CallType != "" {
		filter["call_type"] = f.CallType
	}
	if f.Priority != "" {
		filter["priority"] = f.Priority
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	ts := bson.M{}
	if f.DateFrom != "" {
		ts["$gte"] = f.DateFrom
	}
	if f.DateTo != "" {
		ts["$lte"] = f.DateTo
	}
	if len(ts) > 0 {
		filter["timestamp"] = ts
	}
	return filter
}

func (r *MongoRepo) List(ctx context.Context, f Filter) ([]Call, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = listCap
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit)
	cur, err := r.coll.Find(ctx, mongoFilter(f), opts)
	if err != nil {
		return nil, fmt.Errorf("calls list: %w", err)
	}
	var out []Call
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("calls list decode: %w", err)
	}
	return out, nil
}

func (r *MongoRepo) Update(ctx context.Context, id string, p Patch) error {
	set := bson.M{}
	if p.Duration != nil {
		set["duration"] = *p.Duration
	}
	if p.Notes != nil {
		set["notes"] = *p.Notes
	}
	if p.CallType != nil {
		set["call_type"] = *p.CallType
	}
	if p.Priority != nil {
		set["priority"] = *p.Priority
	}
	if p.Status != nil {
		set["status"] = *p.Status
	}
	if p.ResolutionNotes != nil {
		set["resolution_notes"] = *p.ResolutionNotes
	}
	if len(set) == 0 {
		return nil
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("calls update: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepo) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

func (r *MongoRepo) CountSince(ctx context.Context, ts string) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"timestamp": bson.M{"$gte": ts}})
}

func (r *MongoRepo) GroupCount(ctx context.Context, field string) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$" + field, "count": bson.M{"$sum": 1}}}},
	}
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("calls group by %s: %w", field, err)
	}
	var rows []struct {
		ID    *string `bson:"_id"`
		Count int64   `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("calls group decode: %w", err)
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		if row.ID != nil {
			out[*row.ID] = row.Count
		}
	}
	return out, nil
}

func (r *MongoRepo) AverageDuration(ctx context.Context) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": nil, "avg_duration": bson.M{"$avg": "$duration"}}}},
	}
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("calls avg duration: %w", err)
	}
	var rows []struct {
		Avg *float64 `bson:"avg_duration"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, fmt.Errorf("calls avg decode: %w", err)
	}
	if len(rows) == 0 || rows[0].Avg == nil {
		return 0, nil
	}
	return *rows[0].Avg, nil
}

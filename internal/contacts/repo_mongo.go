package contacts

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const listCap = 1000

// MongoRepo persists contacts in the "contacts" collection.
type MongoRepo struct {
	coll *mongo.Collection
}

func NewMongoRepo(db *mongo.Database) *MongoRepo {
	return &MongoRepo{coll: db.Collection("contacts")}
}

func (r *MongoRepo) Insert(ctx context.Context, c *Contact) error {
	if _, err := r.coll.InsertOne(ctx, c); err != nil {
		return fmt.Errorf("contacts insert: %w", err)
	}
	return nil
}

func (r *MongoRepo) findOne(ctx context.Context, filter bson.M) (*Contact, error) {
	var c Contact
	err := r.coll.FindOne(ctx, filter).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("contacts find: %w", err)
	}
	return &c, nil
}

func (r *MongoRepo) FindByID(ctx context.Context, id string) (*Contact, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *MongoRepo) FindByPhone(ctx context.Context, phone string) (*Contact, error) {
	return r.findOne(ctx, bson.M{"phone_number": phone})
}

func (r *MongoRepo) List(ctx context.Context, f Filter) ([]Contact, error) {
	filter := bson.M{}
	if f.Search != "" {
		filter["$or"] = bson.A{
			bson.M{"name": bson.M{"$regex": f.Search, "$options": "i"}},
			bson.M{"phone_number": bson.M{"$regex": f.Search, "$options": "i"}},
			bson.M{"email": bson.M{"$regex": f.Search, "$options": "i"}},
			bson.M{"company": bson.M{"$regex": f.Search, "$options": "i"}},
		}
	}
	if f.Tag != "" {
		filter["tags"] = f.Tag
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(listCap)
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("contacts list: %w", err)
	}
	var out []Contact
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("contacts list decode: %w", err)
	}
	return out, nil
}

func (r *MongoRepo) Update(ctx context.Context, id string, p Patch) error {
	set := bson.M{}
	if p.PhoneNumber != nil {
		set["phone_number"] = *p.PhoneNumber
	}
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.Email != nil {
		set["email"] = *p.Email
	}
	if p.Address != nil {
		set["address"] = *p.Address
	}
	if p.Company != nil {
		set["company"] = *p.Company
	}
	if p.Tags != nil {
		set["tags"] = *p.Tags
	}
	if p.UpdatedAt != nil {
		set["updated_at"] = *p.UpdatedAt
	}
	if len(set) == 0 {
		return nil
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("contacts update: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepo) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("contacts delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepo) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

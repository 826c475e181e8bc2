package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"voting/internal/core/model"
)

const queryTimeout = 5 * time.Second

// UserRepository is the credential store. Lookups return nil, nil when
// no user matches.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error
	MarkVoted(ctx context.Context, id primitive.ObjectID) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByNationalID(ctx context.Context, nationalID model.NationalID) (*model.User, error)
	FindAdmin(ctx context.Context) (*model.User, error)
}

type MongoUserRepository struct {
	collection *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{
		collection: db.Collection(usersCollection),
	}
}

func (r *MongoUserRepository) Create(ctx context.Context, user *model.User) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, user)
	return classifyWriteError(err)
}

func (r *MongoUserRepository) SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	return r.set(ctx, id, bson.M{"password": hash})
}

// MarkVoted only ever sets isVoted to true.
func (r *MongoUserRepository) MarkVoted(ctx context.Context, id primitive.ObjectID) error {
	return r.set(ctx, id, bson.M{"isVoted": true})
}

// set writes only the named fields so concurrent writers to other fields
// of the same user are preserved.
func (r *MongoUserRepository) set(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return classifyWriteError(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MongoUserRepository) FindByNationalID(ctx context.Context, nationalID model.NationalID) (*model.User, error) {
	return r.findOne(ctx, bson.M{"aadharCardNumber": nationalID})
}

func (r *MongoUserRepository) FindAdmin(ctx context.Context) (*model.User, error) {
	return r.findOne(ctx, bson.M{"role": model.RoleAdmin})
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var user model.User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

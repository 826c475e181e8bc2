package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"voting/internal/core/model"
)

// CandidateRepository is the candidate store. Update and Delete return
// nil, nil when the id does not match a candidate.
type CandidateRepository interface {
	Create(ctx context.Context, candidate *model.Candidate) error
	Update(ctx context.Context, id string, patch model.CandidatePatch) (*model.Candidate, error)
	Delete(ctx context.Context, id string) (*model.Candidate, error)
	FindByID(ctx context.Context, id string) (*model.Candidate, error)
	FindSummaries(ctx context.Context) ([]*model.CandidateSummary, error)
	FindAllByVoteCount(ctx context.Context) ([]*model.Candidate, error)
	// AppendVote records a vote and bumps the count in one document write.
	// It returns ErrNotFound if the candidate does not exist.
	AppendVote(ctx context.Context, candidateID, userID string) error
}

type MongoCandidateRepository struct {
	collection *mongo.Collection
}

func NewMongoCandidateRepository(db *mongo.Database) *MongoCandidateRepository {
	return &MongoCandidateRepository{
		collection: db.Collection(candidatesCollection),
	}
}

func (r *MongoCandidateRepository) Create(ctx context.Context, candidate *model.Candidate) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if candidate.ID.IsZero() {
		candidate.ID = primitive.NewObjectID()
	}
	if candidate.Votes == nil {
		candidate.Votes = []model.Vote{}
	}
	_, err := r.collection.InsertOne(ctx, candidate)
	return err
}

func (r *MongoCandidateRepository) Update(ctx context.Context, id string, patch model.CandidatePatch) (*model.Candidate, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	if patch.Empty() {
		return r.FindByID(ctx, id)
	}

	set := bson.M{}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Party != nil {
		set["party"] = *patch.Party
	}
	if patch.Age != nil {
		set["age"] = *patch.Age
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var candidate model.Candidate
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&candidate)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &candidate, nil
}

func (r *MongoCandidateRepository) Delete(ctx context.Context, id string) (*model.Candidate, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var candidate model.Candidate
	err = r.collection.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&candidate)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &candidate, nil
}

func (r *MongoCandidateRepository) FindByID(ctx context.Context, id string) (*model.Candidate, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var candidate model.Candidate
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&candidate)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &candidate, nil
}

func (r *MongoCandidateRepository) FindSummaries(ctx context.Context) ([]*model.CandidateSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.Find().
		SetProjection(bson.M{"name": 1, "party": 1}).
		SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	summaries := []*model.CandidateSummary{}
	if err = cursor.All(ctx, &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

// FindAllByVoteCount sorts by count descending; ObjectIDs break ties in insertion order.
func (r *MongoCandidateRepository) FindAllByVoteCount(ctx context.Context) ([]*model.Candidate, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "voteCount", Value: -1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	candidates := []*model.Candidate{}
	if err = cursor.All(ctx, &candidates); err != nil {
		return nil, err
	}
	return candidates, nil
}

func (r *MongoCandidateRepository) AppendVote(ctx context.Context, candidateID, userID string) error {
	cid, err := primitive.ObjectIDFromHex(candidateID)
	if err != nil {
		return ErrNotFound
	}
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	update := bson.M{
		"$push": bson.M{"votes": model.Vote{User: uid, VotedAt: time.Now().UTC()}},
		"$inc":  bson.M{"voteCount": 1},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": cid}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

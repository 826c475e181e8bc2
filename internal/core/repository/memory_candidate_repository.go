package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"voting/internal/core/model"
)

// inMemoryCandidateRepository keeps candidates in insertion order so that
// ties in the vote count sort by arrival, like ObjectID order in Mongo.
type inMemoryCandidateRepository struct {
	candidates []*model.Candidate
	mutex      sync.RWMutex
}

func NewInMemoryCandidateRepository() CandidateRepository {
	return &inMemoryCandidateRepository{}
}

func (r *inMemoryCandidateRepository) Create(_ context.Context, candidate *model.Candidate) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if candidate.ID.IsZero() {
		candidate.ID = primitive.NewObjectID()
	}
	if r.indexOf(candidate.ID) >= 0 {
		return fmt.Errorf("candidate with ID %s already exists", candidate.ID.Hex())
	}
	if candidate.Votes == nil {
		candidate.Votes = []model.Vote{}
	}

	r.candidates = append(r.candidates, cloneCandidate(candidate))
	return nil
}

func (r *inMemoryCandidateRepository) Update(_ context.Context, id string, patch model.CandidatePatch) (*model.Candidate, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	i := r.lookup(id)
	if i < 0 {
		return nil, nil
	}
	patch.Apply(r.candidates[i])
	return cloneCandidate(r.candidates[i]), nil
}

func (r *inMemoryCandidateRepository) Delete(_ context.Context, id string) (*model.Candidate, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	i := r.lookup(id)
	if i < 0 {
		return nil, nil
	}
	deleted := r.candidates[i]
	r.candidates = append(r.candidates[:i], r.candidates[i+1:]...)
	return deleted, nil
}

func (r *inMemoryCandidateRepository) FindByID(_ context.Context, id string) (*model.Candidate, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	i := r.lookup(id)
	if i < 0 {
		return nil, nil
	}
	return cloneCandidate(r.candidates[i]), nil
}

func (r *inMemoryCandidateRepository) FindSummaries(_ context.Context) ([]*model.CandidateSummary, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	summaries := make([]*model.CandidateSummary, 0, len(r.candidates))
	for _, c := range r.candidates {
		summaries = append(summaries, &model.CandidateSummary{ID: c.ID, Name: c.Name, Party: c.Party})
	}
	return summaries, nil
}

func (r *inMemoryCandidateRepository) FindAllByVoteCount(_ context.Context) ([]*model.Candidate, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := make([]*model.Candidate, 0, len(r.candidates))
	for _, c := range r.candidates {
		result = append(result, cloneCandidate(c))
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].VoteCount > result[j].VoteCount
	})
	return result, nil
}

func (r *inMemoryCandidateRepository) AppendVote(_ context.Context, candidateID, userID string) error {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	i := r.lookup(candidateID)
	if i < 0 {
		return ErrNotFound
	}
	c := r.candidates[i]
	c.Votes = append(c.Votes, model.Vote{User: uid, VotedAt: time.Now().UTC()})
	c.VoteCount++
	return nil
}

func (r *inMemoryCandidateRepository) lookup(id string) int {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return -1
	}
	return r.indexOf(oid)
}

func (r *inMemoryCandidateRepository) indexOf(id primitive.ObjectID) int {
	for i, c := range r.candidates {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func cloneCandidate(c *model.Candidate) *model.Candidate {
	out := *c
	out.Votes = append([]model.Vote{}, c.Votes...)
	return &out
}

package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Vote struct {
	User    primitive.ObjectID `json:"user" bson:"user"`
	VotedAt time.Time          `json:"votedAt" bson:"votedAt"`
}

// Candidate holds its cast votes inline. VoteCount always equals len(Votes).
type Candidate struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Party     string             `json:"party" bson:"party"`
	Age       int                `json:"age" bson:"age"`
	Votes     []Vote             `json:"votes" bson:"votes"`
	VoteCount int                `json:"voteCount" bson:"voteCount"`
}

func NewCandidate(name, party string, age int) *Candidate {
	return &Candidate{
		ID:    primitive.NewObjectID(),
		Name:  name,
		Party: party,
		Age:   age,
		Votes: []Vote{},
	}
}

// CandidatePatch carries the fields an update may change. Nil fields are left alone.
type CandidatePatch struct {
	Name  *string `json:"name,omitempty"`
	Party *string `json:"party,omitempty"`
	Age   *int    `json:"age,omitempty"`
}

func (p CandidatePatch) Empty() bool {
	return p.Name == nil && p.Party == nil && p.Age == nil
}

func (p CandidatePatch) Apply(c *Candidate) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Party != nil {
		c.Party = *p.Party
	}
	if p.Age != nil {
		c.Age = *p.Age
	}
}

// CandidateSummary is the public listing projection.
type CandidateSummary struct {
	ID    primitive.ObjectID `json:"id" bson:"_id"`
	Name  string             `json:"name" bson:"name"`
	Party string             `json:"party" bson:"party"`
}

// TallyEntry is one row of the vote count, ordered by Count descending.
type TallyEntry struct {
	Party string `json:"party"`
	Count int    `json:"count"`
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"voting/internal/core/model"
)

// setupTestDB connects to TEST_MONGODB_URI and returns a fresh database
// that is dropped when the test ends.
func setupTestDB(t *testing.T) *mongo.Database {
	t.Helper()
	uri := os.Getenv("TEST_MONGODB_URI")
	if uri == "" {
		t.Skip("TEST_MONGODB_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	db := client.Database(fmt.Sprintf("voting_test_%d", time.Now().UnixNano()))
	if err := EnsureIndexes(ctx, db); err != nil {
		t.Fatalf("EnsureIndexes failed: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})
	return db
}

func TestMongoUserRepository(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewMongoUserRepository(db)

	admin := model.NewUser("Admin", "999988887777", model.RoleAdmin)
	if err := repo.Create(ctx, admin); err != nil {
		t.Fatalf("Create admin failed: %v", err)
	}
	if err := repo.Create(ctx, model.NewUser("Admin2", "555566667777", model.RoleAdmin)); !errors.Is(err, ErrAdminExists) {
		t.Errorf("Expected ErrAdminExists from partial index, got %v", err)
	}
	if err := repo.Create(ctx, model.NewUser("Dup", "999988887777", model.RoleVoter)); !errors.Is(err, ErrDuplicateNationalID) {
		t.Errorf("Expected ErrDuplicateNationalID from unique index, got %v", err)
	}

	voter := model.NewUser("Voter", "111122223333", model.RoleVoter)
	if err := voter.SetPassword("pw"); err != nil {
		t.Fatalf("SetPassword failed: %v", err)
	}
	if err := repo.Create(ctx, voter); err != nil {
		t.Fatalf("Create voter failed: %v", err)
	}

	found, err := repo.FindByNationalID(ctx, "111122223333")
	if err != nil || found == nil {
		t.Fatalf("FindByNationalID returned %v, %v", found, err)
	}
	if !found.CheckPassword("pw") {
		t.Error("Expected stored hash to verify")
	}

	if err := repo.MarkVoted(ctx, voter.ID); err != nil {
		t.Fatalf("MarkVoted failed: %v", err)
	}
	rotated := model.NewUser("", "", model.RoleVoter)
	if err := rotated.SetPassword("pw2"); err != nil {
		t.Fatalf("SetPassword failed: %v", err)
	}
	if err := repo.SetPassword(ctx, voter.ID, rotated.Password); err != nil {
		t.Fatalf("repo SetPassword failed: %v", err)
	}
	reloaded, err := repo.FindByID(ctx, voter.ID.Hex())
	if err != nil || reloaded == nil {
		t.Fatalf("FindByID returned %v, %v", reloaded, err)
	}
	if !reloaded.IsVoted || !reloaded.CheckPassword("pw2") || reloaded.Name != "Voter" {
		t.Errorf("Expected targeted writes to keep other fields, got %+v", reloaded)
	}
	if err := repo.MarkVoted(ctx, primitive.NewObjectID()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown user, got %v", err)
	}

	if got, err := repo.FindByID(ctx, "65f0c0ffee0000000000abcd"); got != nil || err != nil {
		t.Errorf("Expected absent user, got %v, %v", got, err)
	}
}

func TestMongoCandidateRepository(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewMongoCandidateRepository(db)

	a := model.NewCandidate("A", "PA", 40)
	b := model.NewCandidate("B", "PB", 41)
	for _, c := range []*model.Candidate{a, b} {
		if err := repo.Create(ctx, c); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	voter := model.NewUser("v", "", model.RoleVoter).ID.Hex()
	if err := repo.AppendVote(ctx, b.ID.Hex(), voter); err != nil {
		t.Fatalf("AppendVote failed: %v", err)
	}
	if err := repo.AppendVote(ctx, "65f0c0ffee0000000000abcd", voter); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	sorted, err := repo.FindAllByVoteCount(ctx)
	if err != nil {
		t.Fatalf("FindAllByVoteCount failed: %v", err)
	}
	if len(sorted) != 2 || sorted[0].ID != b.ID || sorted[0].VoteCount != 1 || len(sorted[0].Votes) != 1 {
		t.Errorf("Expected B first with one vote, got %+v", sorted)
	}

	summaries, err := repo.FindSummaries(ctx)
	if err != nil || len(summaries) != 2 || summaries[0].Name != "A" {
		t.Errorf("Unexpected summaries %v, %v", summaries, err)
	}

	age := 60
	updated, err := repo.Update(ctx, a.ID.Hex(), model.CandidatePatch{Age: &age})
	if err != nil || updated == nil || updated.Age != 60 || updated.Name != "A" {
		t.Errorf("Expected partial update, got %+v, %v", updated, err)
	}

	deleted, err := repo.Delete(ctx, a.ID.Hex())
	if err != nil || deleted == nil || deleted.ID != a.ID {
		t.Fatalf("Delete returned %v, %v", deleted, err)
	}
	if got, _ := repo.Delete(ctx, a.ID.Hex()); got != nil {
		t.Error("Expected second delete to find nothing")
	}
}

package repository

import (
	"context"
	"errors"
	"testing"

	"voting/internal/core/model"
)

func TestInMemoryUserRepositoryConstraints(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryUserRepository()

	admin := model.NewUser("Admin", "999988887777", model.RoleAdmin)
	if err := repo.Create(ctx, admin); err != nil {
		t.Fatalf("Create admin failed: %v", err)
	}
	if err := repo.Create(ctx, model.NewUser("Admin2", "555566667777", model.RoleAdmin)); !errors.Is(err, ErrAdminExists) {
		t.Errorf("Expected ErrAdminExists, got %v", err)
	}
	if err := repo.Create(ctx, model.NewUser("Dup", "999988887777", model.RoleVoter)); !errors.Is(err, ErrDuplicateNationalID) {
		t.Errorf("Expected ErrDuplicateNationalID, got %v", err)
	}

	voter := model.NewUser("Voter", "111122223333", model.RoleVoter)
	if err := repo.Create(ctx, voter); err != nil {
		t.Fatalf("Create voter failed: %v", err)
	}

	found, err := repo.FindByNationalID(ctx, "111122223333")
	if err != nil || found == nil || found.ID != voter.ID {
		t.Fatalf("FindByNationalID returned %v, %v", found, err)
	}
	found.IsVoted = true
	if stored, _ := repo.FindByID(ctx, voter.ID.Hex()); stored.IsVoted {
		t.Error("Expected returned user to be a copy")
	}
	if err := repo.MarkVoted(ctx, voter.ID); err != nil {
		t.Fatalf("MarkVoted failed: %v", err)
	}
	if err := repo.SetPassword(ctx, voter.ID, "new-hash"); err != nil {
		t.Fatalf("SetPassword failed: %v", err)
	}
	stored, _ := repo.FindByID(ctx, voter.ID.Hex())
	if !stored.IsVoted || stored.Password != "new-hash" {
		t.Errorf("Expected both field writes to persist, got isVoted=%v password=%q", stored.IsVoted, stored.Password)
	}

	if got, err := repo.FindByID(ctx, "zzz"); got != nil || err != nil {
		t.Errorf("Expected absent result for malformed id, got %v, %v", got, err)
	}
	if got, _ := repo.FindAdmin(ctx); got == nil || got.ID != admin.ID {
		t.Errorf("Expected FindAdmin to return the admin, got %v", got)
	}
	ghost := model.NewUser("Ghost", "123123123123", model.RoleVoter).ID
	if err := repo.MarkVoted(ctx, ghost); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound marking unknown user, got %v", err)
	}
	if err := repo.SetPassword(ctx, ghost, "hash"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound setting password of unknown user, got %v", err)
	}
}

func TestInMemoryCandidateRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryCandidateRepository()

	a := model.NewCandidate("A", "PA", 40)
	b := model.NewCandidate("B", "PB", 41)
	c := model.NewCandidate("C", "PC", 42)
	for _, cand := range []*model.Candidate{a, b, c} {
		if err := repo.Create(ctx, cand); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	voter := model.NewUser("v", "", model.RoleVoter).ID.Hex()
	for _, id := range []string{c.ID.Hex(), c.ID.Hex(), b.ID.Hex()} {
		if err := repo.AppendVote(ctx, id, voter); err != nil {
			t.Fatalf("AppendVote failed: %v", err)
		}
	}
	if err := repo.AppendVote(ctx, "65f0c0ffee0000000000abcd", voter); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	sorted, err := repo.FindAllByVoteCount(ctx)
	if err != nil {
		t.Fatalf("FindAllByVoteCount failed: %v", err)
	}
	wantOrder := []string{"C", "B", "A"}
	for i, cand := range sorted {
		if cand.Name != wantOrder[i] {
			t.Errorf("Position %d: expected %s, got %s", i, wantOrder[i], cand.Name)
		}
		if cand.VoteCount != len(cand.Votes) {
			t.Errorf("%s: voteCount %d != len(votes) %d", cand.Name, cand.VoteCount, len(cand.Votes))
		}
	}

	name := "A2"
	updated, err := repo.Update(ctx, a.ID.Hex(), model.CandidatePatch{Name: &name})
	if err != nil || updated == nil || updated.Name != "A2" || updated.Party != "PA" {
		t.Errorf("Expected partial update, got %+v, %v", updated, err)
	}
	if got, err := repo.Update(ctx, "65f0c0ffee0000000000abcd", model.CandidatePatch{Name: &name}); got != nil || err != nil {
		t.Errorf("Expected nil, nil for unknown id, got %v, %v", got, err)
	}

	summaries, _ := repo.FindSummaries(ctx)
	if len(summaries) != 3 || summaries[0].Name != "A2" {
		t.Errorf("Expected summaries in insertion order, got %v", summaries)
	}

	deleted, err := repo.Delete(ctx, b.ID.Hex())
	if err != nil || deleted == nil || deleted.ID != b.ID {
		t.Fatalf("Delete returned %v, %v", deleted, err)
	}
	if got, _ := repo.FindByID(ctx, b.ID.Hex()); got != nil {
		t.Error("Expected deleted candidate to be gone")
	}
	if got, _ := repo.Delete(ctx, b.ID.Hex()); got != nil {
		t.Error("Expected second delete to find nothing")
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"voting/internal/core/model"
	"voting/internal/core/repository"
)

const (
	summariesCacheKey = "candidates:summaries"
	tallyCacheKey     = "candidates:tally"

	// cacheVersionKey holds the generation suffixed to every read key.
	// Invalidation rotates it, so a read that started before a write
	// stores its result under a key nobody reads again.
	cacheVersionKey = "candidates:version"
)

// Cache is the read-through cache for the public candidate reads.
// Any Get error is treated as a miss.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type CandidateInput struct {
	Name  string `json:"name"`
	Party string `json:"party"`
	Age   int    `json:"age"`
}

type CandidateService interface {
	Create(ctx context.Context, callerID string, in CandidateInput) (*model.Candidate, error)
	Update(ctx context.Context, callerID, candidateID string, patch model.CandidatePatch) (*model.Candidate, error)
	Delete(ctx context.Context, callerID, candidateID string) (*model.Candidate, error)
	Vote(ctx context.Context, callerID, candidateID string) error
	Tally(ctx context.Context) ([]model.TallyEntry, error)
	List(ctx context.Context) ([]*model.CandidateSummary, error)
}

type candidateService struct {
	candidateRepo repository.CandidateRepository
	userRepo      repository.UserRepository
	authorizer    *Authorizer
	cache         Cache
	cacheTTL      time.Duration
}

// NewCandidateService builds the service. cache may be nil.
func NewCandidateService(
	candidateRepo repository.CandidateRepository,
	userRepo repository.UserRepository,
	authorizer *Authorizer,
	cache Cache,
	cacheTTL time.Duration,
) CandidateService {
	return &candidateService{
		candidateRepo: candidateRepo,
		userRepo:      userRepo,
		authorizer:    authorizer,
		cache:         cache,
		cacheTTL:      cacheTTL,
	}
}

// requireAdmin fails closed: a missing caller or a lookup error both deny.
func (s *candidateService) requireAdmin(ctx context.Context, callerID string) error {
	_, err := s.authorizer.Require(ctx, callerID, model.CapManageCandidates)
	if err == nil {
		return nil
	}
	if KindOf(err) == KindInternal {
		slog.WarnContext(ctx, "admin check failed", "user_id", callerID, "error", err)
	}
	return ErrNotAdmin
}

func (s *candidateService) Create(ctx context.Context, callerID string, in CandidateInput) (*model.Candidate, error) {
	if err := s.requireAdmin(ctx, callerID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Party) == "" {
		return nil, ErrCandidateFields
	}

	candidate := model.NewCandidate(strings.TrimSpace(in.Name), strings.TrimSpace(in.Party), in.Age)
	if err := s.candidateRepo.Create(ctx, candidate); err != nil {
		return nil, fmt.Errorf("create candidate: %w", err)
	}
	s.invalidate(ctx)
	return candidate, nil
}

func (s *candidateService) Update(ctx context.Context, callerID, candidateID string, patch model.CandidatePatch) (*model.Candidate, error) {
	if err := s.requireAdmin(ctx, callerID); err != nil {
		return nil, err
	}
	if (patch.Name != nil && strings.TrimSpace(*patch.Name) == "") ||
		(patch.Party != nil && strings.TrimSpace(*patch.Party) == "") {
		return nil, ErrCandidateFields
	}

	candidate, err := s.candidateRepo.Update(ctx, candidateID, patch)
	if err != nil {
		return nil, fmt.Errorf("update candidate: %w", err)
	}
	if candidate == nil {
		return nil, ErrCandidateNotFound
	}
	s.invalidate(ctx)
	return candidate, nil
}

func (s *candidateService) Delete(ctx context.Context, callerID, candidateID string) (*model.Candidate, error) {
	if err := s.requireAdmin(ctx, callerID); err != nil {
		return nil, err
	}

	candidate, err := s.candidateRepo.Delete(ctx, candidateID)
	if err != nil {
		return nil, fmt.Errorf("delete candidate: %w", err)
	}
	if candidate == nil {
		return nil, ErrCandidateNotFound
	}
	s.invalidate(ctx)
	return candidate, nil
}

// Vote records callerID's single vote for candidateID. The candidate write
// and the voter flag write are separate documents with no transaction
// around them; concurrent requests from one voter can both pass the
// isVoted check.
func (s *candidateService) Vote(ctx context.Context, callerID, candidateID string) error {
	candidate, err := s.candidateRepo.FindByID(ctx, candidateID)
	if err != nil {
		return fmt.Errorf("find candidate: %w", err)
	}
	if candidate == nil {
		return ErrCandidateNotFound
	}

	user, err := s.authorizer.Require(ctx, callerID, model.CapCastVote)
	switch {
	case err == nil:
	case errors.Is(err, ErrCapabilityDenied):
		return ErrAdminCannotVote
	default:
		return err
	}
	if user.IsVoted {
		return ErrAlreadyVoted
	}

	if err := s.candidateRepo.AppendVote(ctx, candidateID, user.ID.Hex()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCandidateNotFound
		}
		return fmt.Errorf("append vote: %w", err)
	}
	s.invalidate(ctx)

	if err := s.userRepo.MarkVoted(ctx, user.ID); err != nil {
		return fmt.Errorf("mark user voted: %w", err)
	}
	return nil
}

func (s *candidateService) Tally(ctx context.Context) ([]model.TallyEntry, error) {
	key := s.versionedKey(ctx, tallyCacheKey)
	var tally []model.TallyEntry
	if s.cached(ctx, key, &tally) {
		return tally, nil
	}

	candidates, err := s.candidateRepo.FindAllByVoteCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("list candidates by vote count: %w", err)
	}
	tally = make([]model.TallyEntry, 0, len(candidates))
	for _, c := range candidates {
		tally = append(tally, model.TallyEntry{Party: c.Party, Count: c.VoteCount})
	}

	s.store(ctx, key, tally)
	return tally, nil
}

func (s *candidateService) List(ctx context.Context) ([]*model.CandidateSummary, error) {
	key := s.versionedKey(ctx, summariesCacheKey)
	var summaries []*model.CandidateSummary
	if s.cached(ctx, key, &summaries) {
		return summaries, nil
	}

	summaries, err := s.candidateRepo.FindSummaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}

	s.store(ctx, key, summaries)
	return summaries, nil
}

func (s *candidateService) versionedKey(ctx context.Context, base string) string {
	version := "0"
	var current string
	if s.cached(ctx, cacheVersionKey, &current) && current != "" {
		version = current
	}
	return base + ":" + version
}

func (s *candidateService) cached(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	return s.cache.Get(ctx, key, dest) == nil
}

func (s *candidateService) store(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.cacheTTL); err != nil {
		slog.WarnContext(ctx, "cache write failed", "key", key, "error", err)
	}
}

func (s *candidateService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	stale := []string{
		s.versionedKey(ctx, summariesCacheKey),
		s.versionedKey(ctx, tallyCacheKey),
	}
	if err := s.cache.Set(ctx, cacheVersionKey, uuid.NewString(), 0); err != nil {
		slog.WarnContext(ctx, "cache invalidation failed", "error", err)
		return
	}
	if err := s.cache.Delete(ctx, stale...); err != nil {
		slog.WarnContext(ctx, "cache cleanup failed", "error", err)
	}
}

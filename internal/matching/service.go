// internal/matching/service.go

package matching

import (
	"context"
	"errors"
	"log"

	"github.com/adeolasoneye/mingle-backend/internal/config"
	"github.com/adeolasoneye/mingle-backend/internal/directory"
)

var (
	ErrCannotLikeSelf   = errors.New("cannot like yourself")
	ErrAlreadyLiked     = errors.New("already liked this user")
	ErrLikeNotFound     = errors.New("you have not liked this user")
	ErrRecordNotFound   = errors.New("match record not found")
	ErrTargetNotFound   = errors.New("target user not found")
	ErrNoIncomingLike   = errors.New("no incoming like to respond to")
	ErrAlreadyResponded = errors.New("like has already been responded to")
)

// Notifier dispatches best-effort match notifications. Failures never
// affect the like path.
type Notifier interface {
	NotifyMutualMatch(ctx context.Context, userID, otherUserID int64)
}

type Service interface {
	// Like Store
	Like(ctx context.Context, likerID, likedID int64) (*Record, error)
	Unlike(ctx context.Context, likerID, likedID int64) (*Record, error)
	HasLiked(ctx context.Context, likerID, likedID int64) (bool, error)

	// Match Resolver
	GetLikedByMe(ctx context.Context, userID int64) ([]*LikedUser, error)
	GetMatchedUsers(ctx context.Context, userID int64) ([]*MatchedUser, error)
	IsMutuallyMatched(ctx context.Context, userA, userB int64) (bool, error)
	CheckStatus(ctx context.Context, currentUserID, targetUserID int64) (*PairStatus, error)
	CountLikedMe(ctx context.Context, userID int64) (int64, error)

	// Receiver action on an incoming like
	Respond(ctx context.Context, userID, otherUserID int64, status string) (*Record, error)
}

type service struct {
	repo     Repository
	users    directory.Directory
	cache    *CountCache
	notifier Notifier
	policy   string
}

// NewService creates the matching service. cache and notifier may be nil.
func NewService(repo Repository, users directory.Directory, cache *CountCache, notifier Notifier, policy string) Service {
	if policy == "" {
		policy = config.MatchPolicyStrict
	}
	return &service{
		repo:     repo,
		users:    users,
		cache:    cache,
		notifier: notifier,
		policy:   policy,
	}
}

// Like records a directed interest edge. If the reverse edge already
// expresses interest, both directions are promoted to accepted. The two
// promotions are independent single-row writes: readers may briefly
// observe one side updated before the other, and mutuality must always
// be re-derived from both rows.
func (s *service) Like(ctx context.Context, likerID, likedID int64) (*Record, error) {
	if likerID == likedID {
		recordLike("self")
		return nil, ErrCannotLikeSelf
	}

	exists, err := s.users.Exists(ctx, likedID)
	if err != nil {
		return nil, err
	}
	if !exists {
		recordLike("target_missing")
		return nil, ErrTargetNotFound
	}

	record := &Record{
		UserID:        likerID,
		MatchedUserID: likedID,
		Status:        StatusPending,
	}

	if err := s.repo.CreateRecord(ctx, record); err != nil {
		if errors.Is(err, ErrAlreadyLiked) {
			recordLike("duplicate")
		}
		return nil, err
	}

	recordLike("created")
	s.cache.Invalidate(ctx, likedID)

	// A reverse edge with live interest means this like completes a
	// mutual match: promote both directions.
	reverse, err := s.repo.GetRecord(ctx, likedID, likerID)
	switch {
	case err == nil && reverse.Active():
		if err := s.repo.UpdateStatus(ctx, likerID, likedID, StatusAccepted); err != nil {
			log.Printf("matching: failed to accept %d->%d: %v", likerID, likedID, err)
		} else {
			record.Status = StatusAccepted
		}
		if err := s.repo.UpdateStatus(ctx, likedID, likerID, StatusAccepted); err != nil {
			log.Printf("matching: failed to accept %d->%d: %v", likedID, likerID, err)
		}
		recordMutualMatch()
		if s.notifier != nil {
			go s.notifier.NotifyMutualMatch(context.Background(), likerID, likedID)
		}
	case err != nil && !errors.Is(err, ErrRecordNotFound):
		// The like itself is durable; only the promotion check failed.
		log.Printf("matching: reverse lookup %d->%d failed: %v", likedID, likerID, err)
	}

	return record, nil
}

func (s *service) Unlike(ctx context.Context, likerID, likedID int64) (*Record, error) {
	record, err := s.repo.GetRecord(ctx, likerID, likedID)
	if errors.Is(err, ErrRecordNotFound) {
		return nil, ErrLikeNotFound
	}
	if err != nil {
		return nil, err
	}

	// A rejected edge is terminal and stays in place: deleting it would
	// clear the way for a fresh like against the same user.
	if !record.Active() {
		return nil, ErrLikeNotFound
	}

	if err := s.repo.DeleteRecord(ctx, likerID, likedID); err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return nil, ErrLikeNotFound
		}
		return nil, err
	}

	recordUnlike()
	s.cache.Invalidate(ctx, likedID)

	// The reverse record is left untouched: with one direction gone the
	// pair no longer derives as matched.
	return record, nil
}

func (s *service) HasLiked(ctx context.Context, likerID, likedID int64) (bool, error) {
	return s.repo.HasActiveLike(ctx, likerID, likedID)
}

func (s *service) GetLikedByMe(ctx context.Context, userID int64) ([]*LikedUser, error) {
	records, err := s.repo.ListOutgoingActive(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.MatchedUserID)
	}

	infos, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	liked := make([]*LikedUser, 0, len(records))
	for _, r := range records {
		info, ok := infos[r.MatchedUserID]
		if !ok {
			// Deleted accounts drop out of the list silently.
			continue
		}
		liked = append(liked, &LikedUser{
			User:    info,
			Status:  r.Status,
			Score:   r.Score,
			LikedAt: r.CreatedAt,
		})
	}

	return liked, nil
}

func (s *service) GetMatchedUsers(ctx context.Context, userID int64) ([]*MatchedUser, error) {
	var entries []*MatchEntry
	var err error

	if s.policy == config.MatchPolicyEitherAccepted {
		entries, err = s.repo.ListMatchedEither(ctx, userID)
	} else {
		entries, err = s.repo.ListMatchedStrict(ctx, userID)
	}
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.OtherID)
	}

	infos, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	matched := make([]*MatchedUser, 0, len(entries))
	for _, e := range entries {
		info, ok := infos[e.OtherID]
		if !ok {
			continue
		}
		matched = append(matched, &MatchedUser{
			User:          info,
			Score:         e.Score,
			MatchedAt:     e.MatchedAt,
			InitiatedByMe: e.InitiatedByMe,
		})
	}

	return matched, nil
}

// IsMutuallyMatched is the strict predicate: both directional records
// must exist with live interest. The conversation gate depends on this
// answer being identical no matter which of the two users asks.
func (s *service) IsMutuallyMatched(ctx context.Context, userA, userB int64) (bool, error) {
	return s.repo.ArePairActive(ctx, userA, userB)
}

func (s *service) CheckStatus(ctx context.Context, currentUserID, targetUserID int64) (*PairStatus, error) {
	recordStatusCheck()

	status := &PairStatus{}

	mine, err := s.repo.GetRecord(ctx, currentUserID, targetUserID)
	if err != nil && !errors.Is(err, ErrRecordNotFound) {
		return nil, err
	}
	theirs, err := s.repo.GetRecord(ctx, targetUserID, currentUserID)
	if err != nil && !errors.Is(err, ErrRecordNotFound) {
		return nil, err
	}

	if mine != nil {
		status.MyStatus = &mine.Status
		status.HasLiked = mine.Active()
	}
	if theirs != nil {
		status.TheirStatus = &theirs.Status
	}
	status.IsMatched = mine != nil && mine.Active() && theirs != nil && theirs.Active()

	return status, nil
}

func (s *service) CountLikedMe(ctx context.Context, userID int64) (int64, error) {
	if count, ok := s.cache.Get(ctx, userID); ok {
		return count, nil
	}

	count, err := s.repo.CountLikedMe(ctx, userID)
	if err != nil {
		return 0, err
	}

	s.cache.Set(ctx, userID, count)
	return count, nil
}

// Respond lets the receiver accept or reject an incoming like. Only a
// pending record can be responded to; accepted and rejected are
// terminal for the directed edge.
func (s *service) Respond(ctx context.Context, userID, otherUserID int64, status string) (*Record, error) {
	incoming, err := s.repo.GetRecord(ctx, otherUserID, userID)
	if errors.Is(err, ErrRecordNotFound) {
		return nil, ErrNoIncomingLike
	}
	if err != nil {
		return nil, err
	}

	if incoming.Status != StatusPending {
		return nil, ErrAlreadyResponded
	}

	if err := s.repo.UpdateStatus(ctx, otherUserID, userID, status); err != nil {
		return nil, err
	}
	incoming.Status = status

	if status == StatusAccepted {
		// If the receiver also has a live outgoing edge, accepting
		// completes the mutual match.
		outgoing, err := s.repo.GetRecord(ctx, userID, otherUserID)
		if err == nil && outgoing.Active() {
			if err := s.repo.UpdateStatus(ctx, userID, otherUserID, StatusAccepted); err != nil {
				log.Printf("matching: failed to accept %d->%d: %v", userID, otherUserID, err)
			}
			recordMutualMatch()
			if s.notifier != nil {
				go s.notifier.NotifyMutualMatch(context.Background(), userID, otherUserID)
			}
		}
	}

	s.cache.Invalidate(ctx, userID)
	return incoming, nil
}

package matching_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adeolasoneye/mingle-backend/internal/config"
	"github.com/adeolasoneye/mingle-backend/internal/directory"
	"github.com/adeolasoneye/mingle-backend/internal/matching"
)

//
// Test fakes
//

type pairKey struct {
	userID        int64
	matchedUserID int64
}

// fakeRepo is an in-memory Repository with the same error contract as
// the Postgres implementation.
type fakeRepo struct {
	mu      sync.Mutex
	nextID  int64
	records map[pairKey]*matching.Record
	order   []pairKey
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		records: make(map[pairKey]*matching.Record),
	}
}

func (f *fakeRepo) CreateRecord(ctx context.Context, record *matching.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := pairKey{record.UserID, record.MatchedUserID}
	if _, exists := f.records[key]; exists {
		return matching.ErrAlreadyLiked
	}

	f.nextID++
	record.ID = f.nextID
	record.CreatedAt = time.Now()
	record.UpdatedAt = record.CreatedAt

	stored := *record
	f.records[key] = &stored
	f.order = append(f.order, key)
	return nil
}

func (f *fakeRepo) GetRecord(ctx context.Context, userID, matchedUserID int64) (*matching.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	record, ok := f.records[pairKey{userID, matchedUserID}]
	if !ok {
		return nil, matching.ErrRecordNotFound
	}
	copied := *record
	return &copied, nil
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, userID, matchedUserID int64, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	record, ok := f.records[pairKey{userID, matchedUserID}]
	if !ok {
		return matching.ErrRecordNotFound
	}
	record.Status = status
	record.UpdatedAt = time.Now()
	return nil
}

func (f *fakeRepo) DeleteRecord(ctx context.Context, userID, matchedUserID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := pairKey{userID, matchedUserID}
	if _, ok := f.records[key]; !ok {
		return matching.ErrRecordNotFound
	}
	delete(f.records, key)
	return nil
}

func (f *fakeRepo) HasActiveLike(ctx context.Context, likerID, likedID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	record, ok := f.records[pairKey{likerID, likedID}]
	return ok && record.Active(), nil
}

func (f *fakeRepo) ListOutgoingActive(ctx context.Context, userID int64) ([]*matching.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*matching.Record
	for _, key := range f.order {
		record, ok := f.records[key]
		if !ok || key.userID != userID || !record.Active() {
			continue
		}
		copied := *record
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeRepo) ListMatchedStrict(ctx context.Context, userID int64) ([]*matching.MatchEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*matching.MatchEntry
	for _, key := range f.order {
		record, ok := f.records[key]
		if !ok || key.userID != userID || record.Status != matching.StatusAccepted {
			continue
		}
		reverse, ok := f.records[pairKey{key.matchedUserID, key.userID}]
		if !ok || reverse.Status != matching.StatusAccepted {
			continue
		}
		out = append(out, &matching.MatchEntry{
			OtherID:       key.matchedUserID,
			Score:         record.Score,
			MatchedAt:     laterOf(record.UpdatedAt, reverse.UpdatedAt),
			InitiatedByMe: !record.CreatedAt.After(reverse.CreatedAt),
		})
	}
	return out, nil
}

func (f *fakeRepo) ListMatchedEither(ctx context.Context, userID int64) ([]*matching.MatchEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	seen := make(map[int64]bool)
	var out []*matching.MatchEntry
	for _, key := range f.order {
		record, ok := f.records[key]
		if !ok || record.Status != matching.StatusAccepted {
			continue
		}
		var otherID int64
		initiated := false
		switch userID {
		case key.userID:
			otherID = key.matchedUserID
			initiated = true
		case key.matchedUserID:
			otherID = key.userID
		default:
			continue
		}
		if seen[otherID] {
			continue
		}
		seen[otherID] = true
		out = append(out, &matching.MatchEntry{
			OtherID:       otherID,
			Score:         record.Score,
			MatchedAt:     record.UpdatedAt,
			InitiatedByMe: initiated,
		})
	}
	return out, nil
}

func (f *fakeRepo) ArePairActive(ctx context.Context, userA, userB int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	forward, ok := f.records[pairKey{userA, userB}]
	if !ok || !forward.Active() {
		return false, nil
	}
	reverse, ok := f.records[pairKey{userB, userA}]
	return ok && reverse.Active(), nil
}

func (f *fakeRepo) CountLikedMe(ctx context.Context, userID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var count int64
	for key, record := range f.records {
		if key.matchedUserID == userID && record.Active() {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepo) ForceStatus(ctx context.Context, userID, matchedUserID int64, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := pairKey{userID, matchedUserID}
	if record, ok := f.records[key]; ok {
		record.Status = status
		record.UpdatedAt = time.Now()
		return nil
	}

	f.nextID++
	now := time.Now()
	f.records[key] = &matching.Record{
		ID:            f.nextID,
		UserID:        userID,
		MatchedUserID: matchedUserID,
		Status:        status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	f.order = append(f.order, key)
	return nil
}

func (f *fakeRepo) DeleteUserRecords(ctx context.Context, userID int64) (int64, []int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var deleted int64
	seen := make(map[int64]bool)
	var others []int64
	for key := range f.records {
		if key.userID != userID && key.matchedUserID != userID {
			continue
		}
		delete(f.records, key)
		deleted++
		if key.userID == userID && !seen[key.matchedUserID] {
			seen[key.matchedUserID] = true
			others = append(others, key.matchedUserID)
		}
	}
	return deleted, others, nil
}

func (f *fakeRepo) CollectStats(ctx context.Context) (*matching.Stats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	stats := &matching.Stats{CollectedAt: time.Now()}
	for key, record := range f.records {
		stats.TotalRecords++
		switch record.Status {
		case matching.StatusPending:
			stats.PendingRecords++
		case matching.StatusRejected:
			stats.RejectedCount++
		case matching.StatusAccepted:
			reverse, ok := f.records[pairKey{key.matchedUserID, key.userID}]
			if ok && reverse.Status == matching.StatusAccepted && key.userID < key.matchedUserID {
				stats.AcceptedPairs++
			}
		}
	}
	return stats, nil
}

func laterOf(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

// fakeDirectory serves a fixed set of users
type fakeDirectory struct {
	users map[int64]*directory.User
}

func newFakeDirectory(ids ...int64) *fakeDirectory {
	users := make(map[int64]*directory.User, len(ids))
	for _, id := range ids {
		users[id] = &directory.User{ID: id, Username: "user", DisplayName: "User"}
	}
	return &fakeDirectory{users: users}
}

func (f *fakeDirectory) GetByID(ctx context.Context, userID int64) (*directory.User, error) {
	user, ok := f.users[userID]
	if !ok {
		return nil, directory.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeDirectory) GetByIDs(ctx context.Context, userIDs []int64) (map[int64]*directory.Info, error) {
	result := make(map[int64]*directory.Info, len(userIDs))
	for _, id := range userIDs {
		if user, ok := f.users[id]; ok {
			result[id] = directory.InfoOf(user)
		}
	}
	return result, nil
}

func (f *fakeDirectory) Exists(ctx context.Context, userID int64) (bool, error) {
	_, ok := f.users[userID]
	return ok, nil
}

func (f *fakeDirectory) UpdateLastActive(ctx context.Context, userID int64) error { return nil }

func (f *fakeDirectory) SetOnline(ctx context.Context, userID int64, online bool) error { return nil }

func newTestService(t *testing.T, ids ...int64) (matching.Service, *fakeRepo) {
	t.Helper()
	repo := newFakeRepo()
	svc := matching.NewService(repo, newFakeDirectory(ids...), matching.NewCountCache(nil), nil, config.MatchPolicyStrict)
	return svc, repo
}

//
// Like Store
//

func TestLikeCreatesPendingRecord(t *testing.T) {
	svc, _ := newTestService(t, 1, 2)
	ctx := context.Background()

	record, err := svc.Like(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, matching.StatusPending, record.Status)
	assert.Equal(t, int64(1), record.UserID)
	assert.Equal(t, int64(2), record.MatchedUserID)

	// The edge is one-directional.
	liked, err := svc.HasLiked(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, liked)

	reverse, err := svc.HasLiked(ctx, 2, 1)
	require.NoError(t, err)
	assert.False(t, reverse)
}

func TestLikeSelfRejected(t *testing.T) {
	svc, repo := newTestService(t, 1)
	ctx := context.Background()

	_, err := svc.Like(ctx, 1, 1)
	assert.ErrorIs(t, err, matching.ErrCannotLikeSelf)
	assert.Empty(t, repo.records)
}

func TestLikeUnknownTarget(t *testing.T) {
	svc, _ := newTestService(t, 1)
	ctx := context.Background()

	_, err := svc.Like(ctx, 1, 99)
	assert.ErrorIs(t, err, matching.ErrTargetNotFound)
}

func TestDuplicateLikeLeavesStateUnchanged(t *testing.T) {
	svc, repo := newTestService(t, 1, 2)
	ctx := context.Background()

	_, err := svc.Like(ctx, 1, 2)
	require.NoError(t, err)

	before, err := repo.GetRecord(ctx, 1, 2)
	require.NoError(t, err)

	_, err = svc.Like(ctx, 1, 2)
	assert.ErrorIs(t, err, matching.ErrAlreadyLiked)

	after, err := repo.GetRecord(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestUnlikeRemovesOnlyOwnEdge(t *testing.T) {
	svc, _ := newTestService(t, 1, 2)
	ctx := context.Background()

	_, err := svc.Like(ctx, 1, 2)
	require.NoError(t, err)
	_, err = svc.Like(ctx, 2, 1)
	require.NoError(t, err)

	_, err = svc.Unlike(ctx, 1, 2)
	require.NoError(t, err)

	liked, err := svc.HasLiked(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, liked)

	// The other user's edge survives.
	theirs, err := svc.HasLiked(ctx, 2, 1)
	require.NoError(t, err)
	assert.True(t, theirs)

	matched, err := svc.IsMutuallyMatched(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, matched)
}

func TestUnlikeRejectedEdgeKeepsRejectionTerminal(t *testing.T) {
	svc, repo := newTestService(t, 1, 2)
	ctx := context.Background()

	_, err := svc.Like(ctx, 1, 2)
	require.NoError(t, err)
	_, err = svc.Respond(ctx, 2, 1, matching.StatusRejected)
	require.NoError(t, err)

	// The rejected row cannot be cleared by its owner.
	_, err = svc.Unlike(ctx, 1, 2)
	assert.ErrorIs(t, err, matching.ErrLikeNotFound)

	record, err := repo.GetRecord(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, matching.StatusRejected, record.Status)

	// So a repeat like still fails on the existing row.
	_, err = svc.Like(ctx, 1, 2)
	assert.ErrorIs(t, err, matching.ErrAlreadyLiked)
}

func TestUnlikeWithoutLike(t *testing.T) {
	svc, _ := newTestService(t, 1, 2)
	ctx := context.Background()

	_, err := svc.Unlike(ctx, 1, 2)
	assert.ErrorIs(t, err, matching.ErrLikeNotFound)
}

//
// Match Resolver
//

func TestMutualLikePromotesBothDirections(t *testing.T) {
	svc, repo := newTestService(t, 1, 2)
	ctx := context.Background()

	_, err := svc.Like(ctx, 1, 2)
	require.NoError(t, err)

	record, err := svc.Like(ctx, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, matching.StatusAccepted, record.Status)

	forward, err := repo.GetRecord(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, matching.StatusAccepted, forward.Status)

	reverse, err := repo.GetRecord(ctx, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, matching.StatusAccepted, reverse.Status)
}

func TestIsMutuallyMatchedSymmetric(t *testing.T) {
	svc, _ := newTestService(t, 1, 2)
	ctx := context.Background()

	_, err := svc.Like(ctx, 1, 2)
	require.NoError(t, err)
	_, err = svc.Like(ctx, 2, 1)
	require.NoError(t, err)

	ab, err := svc.IsMutuallyMatched(ctx, 1, 2)
	require.NoError(t, err)
	ba, err := svc.IsMutuallyMatched(ctx, 2, 1)
	require.NoError(t, err)

	assert.True(t, ab)
	assert.Equal(t, ab, ba)
}

func TestSingleDirectionIsNotAMatch(t *testing.T) {
	svc, _ := newTestService(t, 1, 2)
	ctx := context.Background()

	_, err := svc.Like(ctx, 1, 2)
	require.NoError(t, err)

	matched, err := svc.IsMutuallyMatched(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, matched)

	matches, err := svc.GetMatchedUsers(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestMatchedUsersListsBothSides(t *testing.T) {
	svc, _ := newTestService(t, 1, 2, 3)
	ctx := context.Background()

	// 1 and 2 match; 3 only liked 1.
	_, err := svc.Like(ctx, 1, 2)
	require.NoError(t, err)
	_, err = svc.Like(ctx, 2, 1)
	require.NoError(t, err)
	_, err = svc.Like(ctx, 3, 1)
	require.NoError(t, err)

	ones, err := svc.GetMatchedUsers(ctx, 1)
	require.NoError(t, err)
	require.Len(t, ones, 1)
	assert.Equal(t, int64(2), ones[0].User.ID)
	assert.True(t, ones[0].InitiatedByMe)

	twos, err := svc.GetMatchedUsers(ctx, 2)
	require.NoError(t, err)
	require.Len(t, twos, 1)
	assert.Equal(t, int64(1), twos[0].User.ID)

	threes, err := svc.GetMatchedUsers(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, threes)
}

func TestCheckStatusIsReadOnly(t *testing.T) {
	svc, repo := newTestService(t, 1, 2)
	ctx := context.Background()

	_, err := svc.Like(ctx, 1, 2)
	require.NoError(t, err)

	first, err := svc.CheckStatus(ctx, 1, 2)
	require.NoError(t, err)
	second, err := svc.CheckStatus(ctx, 1, 2)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.True(t, first.HasLiked)
	assert.False(t, first.IsMatched)
	require.NotNil(t, first.MyStatus)
	assert.Equal(t, matching.StatusPending, *first.MyStatus)
	assert.Nil(t, first.TheirStatus)

	record, err := repo.GetRecord(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, matching.StatusPending, record.Status)
}

func TestCheckStatusBetweenStrangers(t *testing.T) {
	svc, _ := newTestService(t, 1, 2)
	ctx := context.Background()

	status, err := svc.CheckStatus(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, status.HasLiked)
	assert.False(t, status.IsMatched)
	assert.Nil(t, status.MyStatus)
	assert.Nil(t, status.TheirStatus)
}

func TestGetLikedByMeSkipsDeletedAccounts(t *testing.T) {
	repo := newFakeRepo()
	dir := newFakeDirectory(1, 2)
	svc := matching.NewService(repo, dir, matching.NewCountCache(nil), nil, config.MatchPolicyStrict)
	ctx := context.Background()

	_, err := svc.Like(ctx, 1, 2)
	require.NoError(t, err)

	// Account 2 disappears after the like was stored.
	delete(dir.users, 2)

	liked, err := svc.GetLikedByMe(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, liked)
}

func TestGetMatchedUsersSkipsDeletedAccounts(t *testing.T) {
	repo := newFakeRepo()
	dir := newFakeDirectory(1, 2, 3)
	svc := matching.NewService(repo, dir, matching.NewCountCache(nil), nil, config.MatchPolicyStrict)
	ctx := context.Background()

	// 1 matches with both 2 and 3.
	for _, other := range []int64{2, 3} {
		_, err := svc.Like(ctx, 1, other)
		require.NoError(t, err)
		_, err = svc.Like(ctx, other, 1)
		require.NoError(t, err)
	}

	// Account 3 disappears; the match rows remain.
	delete(dir.users, 3)

	matched, err := svc.GetMatchedUsers(ctx, 1)
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, int64(2), matched[0].User.ID)
}

func TestCountLikedMe(t *testing.T) {
	svc, _ := newTestService(t, 1, 2, 3)
	ctx := context.Background()

	_, err := svc.Like(ctx, 2, 1)
	require.NoError(t, err)
	_, err = svc.Like(ctx, 3, 1)
	require.NoError(t, err)

	count, err := svc.CountLikedMe(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

//
// Respond
//

func TestRespondAcceptCompletesMatch(t *testing.T) {
	svc, repo := newTestService(t, 3, 4)
	ctx := context.Background()

	_, err := svc.Like(ctx, 3, 4)
	require.NoError(t, err)

	record, err := svc.Respond(ctx, 4, 3, matching.StatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, matching.StatusAccepted, record.Status)

	incoming, err := repo.GetRecord(ctx, 3, 4)
	require.NoError(t, err)
	assert.Equal(t, matching.StatusAccepted, incoming.Status)
}

func TestRespondRejectIsTerminal(t *testing.T) {
	svc, _ := newTestService(t, 1, 2)
	ctx := context.Background()

	_, err := svc.Like(ctx, 1, 2)
	require.NoError(t, err)

	_, err = svc.Respond(ctx, 2, 1, matching.StatusRejected)
	require.NoError(t, err)

	_, err = svc.Respond(ctx, 2, 1, matching.StatusAccepted)
	assert.ErrorIs(t, err, matching.ErrAlreadyResponded)

	// A rejected edge no longer counts as interest.
	liked, err := svc.HasLiked(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, liked)
}

func TestRespondWithoutIncomingLike(t *testing.T) {
	svc, _ := newTestService(t, 1, 2)
	ctx := context.Background()

	_, err := svc.Respond(ctx, 2, 1, matching.StatusAccepted)
	assert.ErrorIs(t, err, matching.ErrNoIncomingLike)
}

//
// Policy
//

func TestEitherAcceptedPolicyWidensList(t *testing.T) {
	repo := newFakeRepo()
	dir := newFakeDirectory(1, 2)
	strict := matching.NewService(repo, dir, matching.NewCountCache(nil), nil, config.MatchPolicyStrict)
	either := matching.NewService(repo, dir, matching.NewCountCache(nil), nil, config.MatchPolicyEitherAccepted)
	ctx := context.Background()

	// 1 likes 2, and 2 accepts without liking back.
	_, err := strict.Like(ctx, 1, 2)
	require.NoError(t, err)
	_, err = strict.Respond(ctx, 2, 1, matching.StatusAccepted)
	require.NoError(t, err)

	strictList, err := strict.GetMatchedUsers(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, strictList)

	eitherList, err := either.GetMatchedUsers(ctx, 1)
	require.NoError(t, err)
	require.Len(t, eitherList, 1)
	assert.Equal(t, int64(2), eitherList[0].User.ID)

	// The gate predicate does not widen with the policy.
	matched, err := either.IsMutuallyMatched(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, matched)
}

package matching_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adeolasoneye/mingle-backend/internal/matching"
)

func TestDeleteUserRecordsReportsCounterparties(t *testing.T) {
	svc, repo := newTestService(t, 1, 2, 3)
	ctx := context.Background()

	// 1 liked 2 and 3; 2 liked 1 back.
	_, err := svc.Like(ctx, 1, 2)
	require.NoError(t, err)
	_, err = svc.Like(ctx, 1, 3)
	require.NoError(t, err)
	_, err = svc.Like(ctx, 2, 1)
	require.NoError(t, err)

	removed, others, err := repo.DeleteUserRecords(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)

	// Users 2 and 3 each lost an incoming like and need their cached
	// counts dropped.
	assert.ElementsMatch(t, []int64{2, 3}, others)
}

func TestClearUserRecordsRemovesBothDirections(t *testing.T) {
	svc, repo := newTestService(t, 1, 2)
	ctx := context.Background()

	_, err := svc.Like(ctx, 1, 2)
	require.NoError(t, err)
	_, err = svc.Like(ctx, 2, 1)
	require.NoError(t, err)

	admin := matching.NewAdminService(repo, matching.NewCountCache(nil))
	removed, err := admin.ClearUserRecords(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	matched, err := svc.IsMutuallyMatched(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, matched)

	count, err := svc.CountLikedMe(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

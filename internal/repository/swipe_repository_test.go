package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/coder47007/Campus-Match-App-sub001/internal/db"
	svcErr "github.com/coder47007/Campus-Match-App-sub001/internal/errors"
	"github.com/coder47007/Campus-Match-App-sub001/internal/repository"
)

// setup in-memory DB
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		NowFunc:        func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := database.AutoMigrate(&db.Swipe{}, &db.Match{}, &db.Message{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return database
}

func TestCreateSwipeRejectsDuplicate(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewSwipeRepository(dbase)

	err := repo.Create(ctx, nil, &db.Swipe{SwiperID: 1, SwipedID: 2, IsLike: true})
	assert.NoError(t, err)

	// second decision for the same ordered pair is rejected, not overwritten
	err = repo.Create(ctx, nil, &db.Swipe{SwiperID: 1, SwipedID: 2, IsLike: false})
	assert.ErrorIs(t, err, svcErr.ErrAlreadyDecided)

	// the reverse direction is a different pair
	err = repo.Create(ctx, nil, &db.Swipe{SwiperID: 2, SwipedID: 1, IsLike: true})
	assert.NoError(t, err)

	var count int64
	dbase.Model(&db.Swipe{}).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestLatestByWindow(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewSwipeRepository(dbase)

	require.NoError(t, repo.Create(ctx, nil, &db.Swipe{SwiperID: 1, SwipedID: 2, IsLike: true}))
	require.NoError(t, repo.Create(ctx, nil, &db.Swipe{SwiperID: 1, SwipedID: 3, IsLike: false}))

	// age the first swipe out of the window
	old := time.Now().UTC().Add(-time.Minute)
	require.NoError(t, dbase.Model(&db.Swipe{}).
		Where("swiper_id = ? AND swiped_id = ?", 1, 2).
		UpdateColumn("created_at", old).Error)

	swipe, err := repo.LatestBy(ctx, nil, 1, time.Now().UTC().Add(-30*time.Second))
	require.NoError(t, err)
	require.NotNil(t, swipe)
	assert.Equal(t, uint64(3), swipe.SwipedID)

	// no swipe within the window
	swipe, err = repo.LatestBy(ctx, nil, 2, time.Now().UTC().Add(-30*time.Second))
	require.NoError(t, err)
	assert.Nil(t, swipe)
}

func TestGetLikersExcludesPassed(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewSwipeRepository(dbase)

	// students 1,2 liked student 99
	require.NoError(t, repo.Create(ctx, nil, &db.Swipe{SwiperID: 1, SwipedID: 99, IsLike: true}))
	require.NoError(t, repo.Create(ctx, nil, &db.Swipe{SwiperID: 2, SwipedID: 99, IsLike: true}))
	// student 99 passed on student 2 → excluded
	require.NoError(t, repo.Create(ctx, nil, &db.Swipe{SwiperID: 99, SwipedID: 2, IsLike: false}))

	swipes, _, err := repo.GetLikers(ctx, 99, nil, 10)
	require.NoError(t, err)
	require.Len(t, swipes, 1)
	assert.Equal(t, uint64(1), swipes[0].SwiperID)
}

func TestGetNewLikersExcludesMutual(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewSwipeRepository(dbase)

	// student 1 liked 99 and 99 liked back → mutual, excluded
	require.NoError(t, repo.Create(ctx, nil, &db.Swipe{SwiperID: 1, SwipedID: 99, IsLike: true}))
	require.NoError(t, repo.Create(ctx, nil, &db.Swipe{SwiperID: 99, SwipedID: 1, IsLike: true}))
	// student 2 liked 99, not mutual
	require.NoError(t, repo.Create(ctx, nil, &db.Swipe{SwiperID: 2, SwipedID: 99, IsLike: true}))

	swipes, _, err := repo.GetNewLikers(ctx, 99, nil, 10)
	require.NoError(t, err)
	require.Len(t, swipes, 1)
	assert.Equal(t, uint64(2), swipes[0].SwiperID)
}

func TestGetLikersPagination(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewSwipeRepository(dbase)

	base := time.Now().UTC().Truncate(time.Millisecond).Add(-time.Hour)
	for i := uint64(1); i <= 5; i++ {
		require.NoError(t, repo.Create(ctx, nil, &db.Swipe{SwiperID: i, SwipedID: 99, IsLike: true}))
		require.NoError(t, dbase.Model(&db.Swipe{}).
			Where("swiper_id = ? AND swiped_id = ?", i, 99).
			UpdateColumn("created_at", base.Add(time.Duration(i)*time.Minute)).Error)
	}

	page1, next, err := repo.GetLikers(ctx, 99, nil, 3)
	require.NoError(t, err)
	require.Len(t, page1, 3)
	require.NotNil(t, next)
	assert.Equal(t, uint64(5), page1[0].SwiperID) // newest first

	page2, next2, err := repo.GetLikers(ctx, 99, next, 3)
	require.NoError(t, err)
	require.Len(t, page2, 2)
	assert.Nil(t, next2)
	assert.Equal(t, uint64(2), page2[0].SwiperID)
	assert.Equal(t, uint64(1), page2[1].SwiperID)
}

func TestMatchCanonicalOrdering(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewMatchRepository(dbase)

	match, err := repo.CreateForPair(ctx, nil, 42, 7)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), match.StudentA)
	assert.Equal(t, uint64(42), match.StudentB)

	// order-insensitive lookup
	found, err := repo.GetByPair(ctx, nil, 42, 7)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, match.ID, found.ID)
}

func TestMessageCascadeDelete(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	matchRepo := repository.NewMatchRepository(dbase)
	msgRepo := repository.NewMessageRepository(dbase)

	match, err := matchRepo.CreateForPair(ctx, nil, 1, 2)
	require.NoError(t, err)
	require.NoError(t, msgRepo.Create(ctx, nil, &db.Message{MatchID: match.ID, SenderID: 1, Body: "hey"}))
	require.NoError(t, msgRepo.Create(ctx, nil, &db.Message{MatchID: match.ID, SenderID: 2, Body: "hi"}))

	require.NoError(t, msgRepo.DeleteByMatch(ctx, nil, match.ID))
	require.NoError(t, matchRepo.Delete(ctx, nil, match.ID))

	var msgCount, matchCount int64
	dbase.Model(&db.Message{}).Count(&msgCount)
	dbase.Model(&db.Match{}).Count(&matchCount)
	assert.Equal(t, int64(0), msgCount)
	assert.Equal(t, int64(0), matchCount)
}

package rewind_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/coder47007/Campus-Match-App-sub001/internal/app"
	"github.com/coder47007/Campus-Match-App-sub001/internal/cache"
	"github.com/coder47007/Campus-Match-App-sub001/internal/config"
	"github.com/coder47007/Campus-Match-App-sub001/internal/db"
	svcErr "github.com/coder47007/Campus-Match-App-sub001/internal/errors"
	"github.com/coder47007/Campus-Match-App-sub001/internal/presence"
	"github.com/coder47007/Campus-Match-App-sub001/internal/service/rewind"
	"github.com/coder47007/Campus-Match-App-sub001/internal/service/swipe"
)

// setupServices wires a rewind service and a swipe service over the same
// isolated DB + Redis, seeded with two students who can match.
func setupServices(t *testing.T) (*rewind.Service, *swipe.Service, *app.AppContext) {
	t.Helper()

	dbName := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{
		NowFunc:                func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, gdb.AutoMigrate(
		&db.Student{}, &db.Subscription{}, &db.Swipe{}, &db.Match{}, &db.Message{}, &db.Block{},
	))

	now := time.Now().UTC()
	reset := now.Add(24 * time.Hour)
	for i := uint64(1); i <= 3; i++ {
		gender := "female"
		if i == 1 {
			gender = "male"
		}
		require.NoError(t, gdb.Create(&db.Student{
			ID: i, Name: fmt.Sprintf("student%d", i),
			Email:        fmt.Sprintf("s%d@campus.edu", i),
			PasswordHash: "x", Gender: gender,
			SuperLikesRemaining: 3, SuperLikesResetAt: reset,
			RewindsRemaining: 3, RewindsResetAt: reset,
		}).Error)
		require.NoError(t, gdb.Create(&db.Subscription{
			StudentID: i, Plan: "free",
			SwipesRemaining: 100, SwipesResetAt: now.Add(12 * time.Hour),
			BoostsResetAt: reset,
		}).Error)
	}
	// student2 already liked student1
	require.NoError(t, gdb.Create(&db.Swipe{SwiperID: 2, SwipedID: 1, IsLike: true}).Error)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()
	redisCache := cache.NewRedisCache(cfg)

	registry := presence.NewLocalRegistry(redisCache, "test-instance")
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	appCtx := app.New(gdb, redisCache, registry, log)
	return rewind.NewService(appCtx), swipe.NewService(appCtx), appCtx
}

func TestUndoLastSwipe(t *testing.T) {
	ctx := context.Background()
	rewindSvc, swipeSvc, appCtx := setupServices(t)

	_, err := swipeSvc.PutSwipe(ctx, swipe.Request{SwiperID: 1, SwipedID: 3, IsLike: true})
	require.NoError(t, err)

	resp, err := rewindSvc.UndoLastSwipe(ctx, 1)
	require.NoError(t, err)
	assert.True(t, resp.Success)

	var count int64
	appCtx.DB.Model(&db.Swipe{}).Where("swiper_id = ?", 1).Count(&count)
	assert.Equal(t, int64(0), count)

	var student db.Student
	require.NoError(t, appCtx.DB.First(&student, 1).Error)
	assert.Equal(t, 2, student.RewindsRemaining)
}

// TestUndoDissolvesMatch is the full scenario: a super-like forms a match,
// messages are exchanged, then the undo removes the swipe, the match and
// its conversation, refunds the super-like and consumes one rewind.
func TestUndoDissolvesMatch(t *testing.T) {
	ctx := context.Background()
	rewindSvc, swipeSvc, appCtx := setupServices(t)

	resp, err := swipeSvc.PutSwipe(ctx, swipe.Request{SwiperID: 1, SwipedID: 2, IsLike: true, IsSuperLike: true})
	require.NoError(t, err)
	require.True(t, resp.Matched)

	var student db.Student
	require.NoError(t, appCtx.DB.First(&student, 1).Error)
	require.Equal(t, 2, student.SuperLikesRemaining)

	require.NoError(t, appCtx.DB.Create(&db.Message{MatchID: resp.Match.MatchID, SenderID: 2, Body: "hi!"}).Error)

	undo, err := rewindSvc.UndoLastSwipe(ctx, 1)
	require.NoError(t, err)
	assert.True(t, undo.Success)
	assert.Contains(t, undo.Message, "match")

	var swipes, matches, msgs int64
	appCtx.DB.Model(&db.Swipe{}).Where("swiper_id = ? AND swiped_id = ?", 1, 2).Count(&swipes)
	appCtx.DB.Model(&db.Match{}).Count(&matches)
	appCtx.DB.Model(&db.Message{}).Count(&msgs)
	assert.Equal(t, int64(0), swipes)
	assert.Equal(t, int64(0), matches)
	assert.Equal(t, int64(0), msgs)

	// the other direction's swipe is untouched
	var reverse int64
	appCtx.DB.Model(&db.Swipe{}).Where("swiper_id = ? AND swiped_id = ?", 2, 1).Count(&reverse)
	assert.Equal(t, int64(1), reverse)

	require.NoError(t, appCtx.DB.First(&student, 1).Error)
	assert.Equal(t, 3, student.SuperLikesRemaining) // refunded
	assert.Equal(t, 2, student.RewindsRemaining)    // consumed
}

// TestUndoWindowExpired: a swipe older than 30 seconds is no longer
// eligible and nothing is mutated.
func TestUndoWindowExpired(t *testing.T) {
	ctx := context.Background()
	rewindSvc, swipeSvc, appCtx := setupServices(t)

	_, err := swipeSvc.PutSwipe(ctx, swipe.Request{SwiperID: 1, SwipedID: 3, IsLike: true})
	require.NoError(t, err)

	rewindSvc.SetNow(func() time.Time { return time.Now().UTC().Add(time.Minute) })

	_, err = rewindSvc.UndoLastSwipe(ctx, 1)
	assert.ErrorIs(t, err, svcErr.ErrNothingToUndo)

	var count int64
	appCtx.DB.Model(&db.Swipe{}).Where("swiper_id = ?", 1).Count(&count)
	assert.Equal(t, int64(1), count)

	var student db.Student
	require.NoError(t, appCtx.DB.First(&student, 1).Error)
	assert.Equal(t, 3, student.RewindsRemaining)
}

// TestUndoNoRewindsRemaining: exhausted rewinds with a future reset reject
// the undo with no ledger change.
func TestUndoNoRewindsRemaining(t *testing.T) {
	ctx := context.Background()
	rewindSvc, swipeSvc, appCtx := setupServices(t)

	_, err := swipeSvc.PutSwipe(ctx, swipe.Request{SwiperID: 1, SwipedID: 3, IsLike: true})
	require.NoError(t, err)

	require.NoError(t, appCtx.DB.Model(&db.Student{}).
		Where("id = ?", 1).
		UpdateColumn("rewinds_remaining", 0).Error)

	_, err = rewindSvc.UndoLastSwipe(ctx, 1)
	assert.ErrorIs(t, err, svcErr.ErrNoRewindsRemaining)

	var count int64
	appCtx.DB.Model(&db.Swipe{}).Where("swiper_id = ?", 1).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestUndoNothingToUndo(t *testing.T) {
	ctx := context.Background()
	rewindSvc, _, _ := setupServices(t)

	_, err := rewindSvc.UndoLastSwipe(ctx, 1)
	assert.ErrorIs(t, err, svcErr.ErrNothingToUndo)
}

// TestSecondUndoTargetsNext: undo is strictly last-swipe-only; a second
// call targets whatever swipe is then the most recent.
func TestSecondUndoTargetsNext(t *testing.T) {
	ctx := context.Background()
	rewindSvc, swipeSvc, appCtx := setupServices(t)

	_, err := swipeSvc.PutSwipe(ctx, swipe.Request{SwiperID: 1, SwipedID: 2, IsLike: false})
	require.NoError(t, err)
	// age the first swipe slightly so ordering is unambiguous
	require.NoError(t, appCtx.DB.Model(&db.Swipe{}).
		Where("swiper_id = ? AND swiped_id = ?", 1, 2).
		UpdateColumn("created_at", time.Now().UTC().Add(-5*time.Second)).Error)

	_, err = swipeSvc.PutSwipe(ctx, swipe.Request{SwiperID: 1, SwipedID: 3, IsLike: true})
	require.NoError(t, err)

	_, err = rewindSvc.UndoLastSwipe(ctx, 1)
	require.NoError(t, err)

	var remaining []db.Swipe
	require.NoError(t, appCtx.DB.Where("swiper_id = ?", 1).Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, uint64(2), remaining[0].SwipedID) // newest (1→3) was undone

	_, err = rewindSvc.UndoLastSwipe(ctx, 1)
	require.NoError(t, err)

	var count int64
	appCtx.DB.Model(&db.Swipe{}).Where("swiper_id = ?", 1).Count(&count)
	assert.Equal(t, int64(0), count)
}

// Package likes exposes the "who liked you" surface: liker feeds with
// cursor pagination and a cache-first like count.
package likes

import (
	"context"
	"strconv"
	"time"

	"github.com/coder47007/Campus-Match-App-sub001/internal/app"
	"github.com/coder47007/Campus-Match-App-sub001/internal/db"
	svcErr "github.com/coder47007/Campus-Match-App-sub001/internal/errors"
	"github.com/coder47007/Campus-Match-App-sub001/internal/repository"
)

const pageSize = 20

// Liker is one entry in the liked-you feed.
type Liker struct {
	StudentID     uint64 `json:"student_id"`
	UnixTimestamp int64  `json:"unix_timestamp"`
}

// ListResponse is a page of likers plus the token for the next page.
type ListResponse struct {
	Likers              []Liker `json:"likers"`
	NextPaginationToken *string `json:"next_pagination_token,omitempty"`
}

// CountResponse reports how many students liked the viewer.
type CountResponse struct {
	Count uint64 `json:"count"`
}

type Service struct {
	appCtx    *app.AppContext
	swipeRepo *repository.SwipeRepository
}

func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:    appCtx,
		swipeRepo: repository.NewSwipeRepository(appCtx.DB),
	}
}

// ListLikedYou returns the students who liked the viewer, excluding anyone
// the viewer already passed on. Cursor pagination via paginationToken.
func (s *Service) ListLikedYou(ctx context.Context, viewerID uint64, paginationToken *string) (*ListResponse, error) {
	s.appCtx.Logger.Debug("ListLikedYou called", "viewer", viewerID)

	swipes, nextToken, err := s.swipeRepo.GetLikers(ctx, viewerID, paginationToken, pageSize)
	if err != nil {
		return nil, err
	}
	return buildList(swipes, nextToken), nil
}

// ListNewLikedYou returns likers the viewer has not liked back yet.
func (s *Service) ListNewLikedYou(ctx context.Context, viewerID uint64, paginationToken *string) (*ListResponse, error) {
	s.appCtx.Logger.Debug("ListNewLikedYou called", "viewer", viewerID)

	swipes, nextToken, err := s.swipeRepo.GetNewLikers(ctx, viewerID, paginationToken, pageSize)
	if err != nil {
		return nil, err
	}
	return buildList(swipes, nextToken), nil
}

// CountLikedYou returns how many students liked the viewer.
// Cache-first strategy:
//  1. Attempts to read from Redis (likes:count:studentID).
//  2. On cache miss, falls back to the DB count.
//  3. On DB fetch, updates Redis with a 1h TTL.
func (s *Service) CountLikedYou(ctx context.Context, viewerID uint64) (*CountResponse, error) {
	s.appCtx.Logger.Debug("CountLikedYou called", "viewer", viewerID)

	if viewerID == 0 {
		return nil, svcErr.ErrNotFound
	}

	if n, hit, err := s.appCtx.RedisCache.GetLikeCount(ctx, viewerID); err == nil && hit && n >= 0 {
		return &CountResponse{Count: uint64(n)}, nil
	}

	count, err := s.swipeRepo.CountLikers(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	_ = s.appCtx.RedisCache.Set(ctx, s.appCtx.RedisCache.KeyForLikeCount(viewerID), strconv.FormatInt(count, 10), time.Hour)

	return &CountResponse{Count: uint64(count)}, nil
}

func buildList(swipes []db.Swipe, nextToken *string) *ListResponse {
	resp := &ListResponse{}
	for _, sw := range swipes {
		resp.Likers = append(resp.Likers, Liker{
			StudentID:     sw.SwiperID,
			UnixTimestamp: sw.CreatedAt.UnixMilli(),
		})
	}
	resp.NextPaginationToken = nextToken
	return resp
}

// Package swipe implements the swipe engine: recording directional
// decisions, gating them on consumable resources, and creating a match
// when reciprocity is found.
package swipe

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/coder47007/Campus-Match-App-sub001/internal/app"
	"github.com/coder47007/Campus-Match-App-sub001/internal/db"
	"github.com/coder47007/Campus-Match-App-sub001/internal/dispatch"
	svcErr "github.com/coder47007/Campus-Match-App-sub001/internal/errors"
	"github.com/coder47007/Campus-Match-App-sub001/internal/observability/metrics"
	"github.com/coder47007/Campus-Match-App-sub001/internal/repository"
	"github.com/coder47007/Campus-Match-App-sub001/internal/resource"
)

// Request is a single directional decision by Swiper about Swiped.
type Request struct {
	SwiperID    uint64 `json:"-"`
	SwipedID    uint64 `json:"swiped_id" binding:"required"`
	IsLike      bool   `json:"is_like"`
	IsSuperLike bool   `json:"is_super_like"`
}

// Response reports whether the swipe completed a mutual match. Match is
// the swiper's view: the other party's public summary.
type Response struct {
	Matched bool                   `json:"matched"`
	Match   *dispatch.MatchSummary `json:"match,omitempty"`
}

// Service contains the swipe state machine on top of the repository,
// tracker and dispatcher layers.
type Service struct {
	appCtx      *app.AppContext
	swipeRepo   *repository.SwipeRepository
	matchRepo   *repository.MatchRepository
	studentRepo *repository.StudentRepository
	tracker     *resource.Tracker
}

func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:      appCtx,
		swipeRepo:   repository.NewSwipeRepository(appCtx.DB),
		matchRepo:   repository.NewMatchRepository(appCtx.DB),
		studentRepo: repository.NewStudentRepository(appCtx.DB),
		tracker:     resource.NewTracker(),
	}
}

// Tracker exposes the service's tracker. Test use only (clock override).
func (s *Service) Tracker() *resource.Tracker { return s.tracker }

// PutSwipe records a decision for the ordered pair (swiper, swiped).
//
// The whole sequence runs in one transaction so the duplicate guard, the
// resource decrements and the reciprocity read see a consistent ledger
// view: a rejected swipe never leaves a consumed super-like behind.
//
// Sequence:
//  1. Swiped student must exist.
//  2. Blocked if a block relation exists in either direction.
//  3. AlreadyDecided if a swipe for the pair exists (PK backstop on insert).
//  4. Free-tier swipe quota gate, then super-like gate if applicable.
//  5. Insert the swipe.
//  6. On a like, read the reverse swipe; if it is a like, create the match
//     in canonical order. Only the newest swipe triggers match creation.
//
// Push notifications and cache updates happen after commit and are
// best-effort.
func (s *Service) PutSwipe(ctx context.Context, req Request) (*Response, error) {
	log := s.appCtx.Logger
	log.Debug("PutSwipe called",
		"swiper", req.SwiperID, "swiped", req.SwipedID,
		"like", req.IsLike, "super", req.IsSuperLike,
	)

	if req.SwiperID == 0 || req.SwipedID == 0 {
		return nil, svcErr.ErrInvalidArgument
	}
	if req.SwiperID == req.SwipedID {
		return nil, svcErr.ErrInvalidArgument
	}

	var created *db.Match
	err := s.appCtx.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := s.studentRepo.GetByID(ctx, tx, req.SwipedID); err != nil {
			return err
		}

		blocked, err := s.studentRepo.IsBlockedEither(ctx, tx, req.SwiperID, req.SwipedID)
		if err != nil {
			return err
		}
		if blocked {
			return svcErr.ErrBlocked
		}

		if existing, err := s.swipeRepo.Get(ctx, tx, req.SwiperID, req.SwipedID); err != nil {
			return err
		} else if existing != nil {
			return svcErr.ErrAlreadyDecided
		}

		quota, err := s.tracker.TryConsume(ctx, tx, req.SwiperID, resource.KindSwipeQuota)
		if err != nil {
			return err
		}
		if !quota.Granted {
			return svcErr.ErrNoSwipesRemaining
		}

		if req.IsSuperLike {
			grant, err := s.tracker.TryConsume(ctx, tx, req.SwiperID, resource.KindSuperLike)
			if err != nil {
				return err
			}
			if !grant.Granted {
				return svcErr.ErrNoSuperLikesRemaining
			}
		}

		swipe := &db.Swipe{
			SwiperID:    req.SwiperID,
			SwipedID:    req.SwipedID,
			IsLike:      req.IsLike,
			IsSuperLike: req.IsSuperLike,
		}
		if err := s.swipeRepo.Create(ctx, tx, swipe); err != nil {
			return err
		}

		if !req.IsLike {
			return nil
		}

		reverse, err := s.swipeRepo.Get(ctx, tx, req.SwipedID, req.SwiperID)
		if err != nil {
			return err
		}
		if reverse != nil && reverse.IsLike {
			match, err := s.matchRepo.CreateForPair(ctx, tx, req.SwiperID, req.SwipedID)
			if err != nil {
				return err
			}
			created = match
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterSwipe(ctx, req)

	if created == nil {
		return &Response{Matched: false}, nil
	}

	metrics.MatchesCreatedTotal.Inc()
	log.Info("match created", "match_id", created.ID, "a", created.StudentA, "b", created.StudentB)

	swiperView := s.notifyBothParties(ctx, created, req.SwiperID, req.SwipedID)
	return &Response{Matched: true, Match: swiperView}, nil
}

// afterSwipe performs the post-commit side effects: metrics and the
// recipient's like-count cache. Failures here are swallowed.
func (s *Service) afterSwipe(ctx context.Context, req Request) {
	decision := "pass"
	if req.IsSuperLike {
		decision = "super_like"
	} else if req.IsLike {
		decision = "like"
	}
	metrics.SwipesTotal.WithLabelValues(decision).Inc()

	if req.IsLike {
		key := s.appCtx.RedisCache.KeyForLikeCount(req.SwipedID)
		_, _ = s.appCtx.RedisCache.Incr(ctx, key)
		_ = s.appCtx.RedisCache.Client.Expire(ctx, key, time.Hour).Err()
	}
}

// notifyBothParties builds each side's view of the match and pushes
// NewMatch to whoever is online. Returns the swiper's view for the
// response. Profile lookup failures degrade to an id-only summary.
func (s *Service) notifyBothParties(ctx context.Context, match *db.Match, swiperID, swipedID uint64) *dispatch.MatchSummary {
	swiperView := s.summaryFor(ctx, match, swipedID)
	swipedView := s.summaryFor(ctx, match, swiperID)

	s.appCtx.Dispatcher.NotifyMatch(swiperID, *swiperView)
	s.appCtx.Dispatcher.NotifyMatch(swipedID, *swipedView)

	return swiperView
}

// summaryFor builds a match summary where otherID is the party being
// looked at.
func (s *Service) summaryFor(ctx context.Context, match *db.Match, otherID uint64) *dispatch.MatchSummary {
	summary := &dispatch.MatchSummary{
		MatchID:      match.ID,
		OtherPartyID: otherID,
		CreatedAt:    match.CreatedAt,
	}
	profile, err := s.studentRepo.PublicProfile(ctx, otherID)
	if err != nil {
		s.appCtx.Logger.Warn("profile lookup failed for match summary", "student", otherID, "err", err)
		return summary
	}
	summary.OtherPartyName = profile.Name
	summary.OtherPartyPhotoURL = profile.PhotoURL
	summary.OtherPartyMajor = profile.Major
	return summary
}

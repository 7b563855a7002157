// Package rewind implements the rewind engine: undoing a student's single
// most recent swipe within a short validity window, including rollback of
// any match and conversation the swipe produced.
package rewind

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/coder47007/Campus-Match-App-sub001/internal/app"
	svcErr "github.com/coder47007/Campus-Match-App-sub001/internal/errors"
	"github.com/coder47007/Campus-Match-App-sub001/internal/observability/metrics"
	"github.com/coder47007/Campus-Match-App-sub001/internal/repository"
	"github.com/coder47007/Campus-Match-App-sub001/internal/resource"
)

// UndoWindow bounds how far back an undo may reach. Only the most recent
// swipe, and only within this window, is eligible; this keeps an undo from
// rewriting arbitrarily old history.
const UndoWindow = 30 * time.Second

// Response carries the outcome of an undo attempt.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type Service struct {
	appCtx    *app.AppContext
	swipeRepo *repository.SwipeRepository
	matchRepo *repository.MatchRepository
	msgRepo   *repository.MessageRepository
	tracker   *resource.Tracker
	now       func() time.Time
}

func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:    appCtx,
		swipeRepo: repository.NewSwipeRepository(appCtx.DB),
		matchRepo: repository.NewMatchRepository(appCtx.DB),
		msgRepo:   repository.NewMessageRepository(appCtx.DB),
		tracker:   resource.NewTracker(),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// SetNow overrides the clock. Test use only.
func (s *Service) SetNow(now func() time.Time) {
	s.now = now
	s.tracker.SetNow(now)
}

// UndoLastSwipe reverses the student's most recent swipe from the last 30
// seconds.
//
// The multi-step delete runs in one transaction: messages before match
// before swipe, then the super-like refund and the rewind decrement. A
// failure at any step rolls the whole undo back, so a consumed rewind
// always has its effect applied.
//
// A second consecutive undo targets whatever swipe is then the newest, not
// the one already undone. Destroying a match this way is permanent.
func (s *Service) UndoLastSwipe(ctx context.Context, studentID uint64) (*Response, error) {
	log := s.appCtx.Logger
	log.Debug("UndoLastSwipe called", "student", studentID)

	var matchDissolved bool
	err := s.appCtx.DB.Transaction(func(tx *gorm.DB) error {
		// Availability check up front so NothingToUndo is only reported
		// when an undo could actually have been paid for.
		bal, err := s.tracker.Balance(ctx, tx, studentID, resource.KindRewind)
		if err != nil {
			return err
		}
		if !bal.Granted {
			return svcErr.ErrNoRewindsRemaining
		}

		swipe, err := s.swipeRepo.LatestBy(ctx, tx, studentID, s.now().Add(-UndoWindow))
		if err != nil {
			return err
		}
		if swipe == nil {
			return svcErr.ErrNothingToUndo
		}

		match, err := s.matchRepo.GetByPair(ctx, tx, studentID, swipe.SwipedID)
		if err != nil {
			return err
		}
		if match != nil {
			// Messages first, then the match, to respect referential order.
			if err := s.msgRepo.DeleteByMatch(ctx, tx, match.ID); err != nil {
				return err
			}
			if err := s.matchRepo.Delete(ctx, tx, match.ID); err != nil {
				return err
			}
			matchDissolved = true
		}

		if err := s.swipeRepo.Delete(ctx, tx, swipe.SwiperID, swipe.SwipedID); err != nil {
			return err
		}

		if swipe.IsSuperLike {
			if err := s.tracker.Refund(ctx, tx, studentID, resource.KindSuperLike); err != nil {
				return err
			}
		}

		grant, err := s.tracker.TryConsume(ctx, tx, studentID, resource.KindRewind)
		if err != nil {
			return err
		}
		if !grant.Granted {
			// Lost the race for the last rewind; undo nothing.
			return svcErr.ErrNoRewindsRemaining
		}
		return nil
	})
	if err != nil {
		metrics.RewindsTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	metrics.RewindsTotal.WithLabelValues("ok").Inc()
	log.Info("swipe rewound", "student", studentID, "match_dissolved", matchDissolved)

	msg := "Your last swipe was undone."
	if matchDissolved {
		msg = "Your last swipe was undone; the match and its conversation were removed."
	}
	return &Response{Success: true, Message: msg}, nil
}

// Package resources exposes consumable balances (rewinds, super-likes,
// swipe quota, boosts) and boost activation.
package resources

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/coder47007/Campus-Match-App-sub001/internal/app"
	"github.com/coder47007/Campus-Match-App-sub001/internal/db"
	svcErr "github.com/coder47007/Campus-Match-App-sub001/internal/errors"
	"github.com/coder47007/Campus-Match-App-sub001/internal/resource"
)

// BoostDuration is how long an activated boost keeps the profile promoted.
const BoostDuration = 30 * time.Minute

// Balance reports one consumable's state. ResetsAt is zero for unlimited
// plans.
type Balance struct {
	Kind      resource.Kind `json:"kind"`
	Remaining int           `json:"remaining"`
	ResetsAt  time.Time     `json:"resets_at"`
}

// BoostResponse reports the window an activated boost covers.
type BoostResponse struct {
	Active    bool      `json:"active"`
	ExpiresAt time.Time `json:"expires_at"`
	Remaining int       `json:"remaining"`
}

type Service struct {
	appCtx  *app.AppContext
	tracker *resource.Tracker
}

func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:  appCtx,
		tracker: resource.NewTracker(),
	}
}

// Tracker exposes the service's tracker. Test use only (clock override).
func (s *Service) Tracker() *resource.Tracker { return s.tracker }

// GetBalance returns remaining/resetsAt for one kind, applying the lazy
// reset first so the caller always sees a current value.
func (s *Service) GetBalance(ctx context.Context, studentID uint64, kind resource.Kind) (*Balance, error) {
	grant, err := s.tracker.Balance(ctx, s.appCtx.DB, studentID, kind)
	if err != nil {
		return nil, err
	}
	return &Balance{Kind: kind, Remaining: grant.Remaining, ResetsAt: grant.ResetAt}, nil
}

// GetBalances returns the state of every consumable kind.
func (s *Service) GetBalances(ctx context.Context, studentID uint64) ([]Balance, error) {
	kinds := []resource.Kind{
		resource.KindSwipeQuota,
		resource.KindSuperLike,
		resource.KindRewind,
		resource.KindBoost,
	}
	out := make([]Balance, 0, len(kinds))
	for _, kind := range kinds {
		b, err := s.GetBalance(ctx, studentID, kind)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, nil
}

// ActivateBoost consumes one boost and opens the promotion window.
// Consume and window write share a transaction so a failed write refunds
// the unit.
func (s *Service) ActivateBoost(ctx context.Context, studentID uint64) (*BoostResponse, error) {
	var resp BoostResponse
	err := s.appCtx.DB.Transaction(func(tx *gorm.DB) error {
		grant, err := s.tracker.TryConsume(ctx, tx, studentID, resource.KindBoost)
		if err != nil {
			return err
		}
		if !grant.Granted {
			return svcErr.ErrNoBoostsRemaining
		}

		expires := time.Now().UTC().Add(BoostDuration)
		if err := tx.WithContext(ctx).
			Model(&db.Subscription{}).
			Where("student_id = ?", studentID).
			Update("boost_expires_at", expires).Error; err != nil {
			return err
		}

		resp = BoostResponse{Active: true, ExpiresAt: expires, Remaining: grant.Remaining}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.appCtx.Logger.Info("boost activated", "student", studentID, "expires_at", resp.ExpiresAt)
	return &resp, nil
}

package resource

import "time"

// Kind identifies a consumable resource gating an action.
type Kind string

const (
	KindSuperLike  Kind = "super_like"
	KindRewind     Kind = "rewind"
	KindBoost      Kind = "boost"
	KindSwipeQuota Kind = "swipe_quota"
)

// Subscription plan tiers.
const (
	PlanFree = "free"
	PlanPlus = "plus"
	PlanGold = "gold"
)

// Unlimited is the allotment value meaning the kind is never exhausted for
// the plan. UnlimitedSentinel is what callers see as "remaining" in that
// case.
const (
	Unlimited         = -1
	UnlimitedSentinel = 999
)

// Allotment is the per-period grant for one kind under one plan.
type Allotment struct {
	Amount int
	Period time.Duration
}

const day = 24 * time.Hour

// planAllotments is the per-plan allotment table. Only the amounts and
// periods differ per kind; the consume/reset mechanics are shared.
var planAllotments = map[string]map[Kind]Allotment{
	PlanFree: {
		KindSuperLike:  {Amount: 1, Period: day},
		KindRewind:     {Amount: 3, Period: day},
		KindBoost:      {Amount: 0, Period: 30 * day},
		KindSwipeQuota: {Amount: 100, Period: 12 * time.Hour},
	},
	PlanPlus: {
		KindSuperLike:  {Amount: 5, Period: day},
		KindRewind:     {Amount: Unlimited},
		KindBoost:      {Amount: 1, Period: 30 * day},
		KindSwipeQuota: {Amount: Unlimited},
	},
	PlanGold: {
		KindSuperLike:  {Amount: Unlimited},
		KindRewind:     {Amount: Unlimited},
		KindBoost:      {Amount: 5, Period: 30 * day},
		KindSwipeQuota: {Amount: Unlimited},
	},
}

// AllotmentFor returns the allotment for a plan and kind. Unknown plans
// fall back to free tier.
func AllotmentFor(plan string, kind Kind) Allotment {
	kinds, ok := planAllotments[plan]
	if !ok {
		kinds = planAllotments[PlanFree]
	}
	return kinds[kind]
}

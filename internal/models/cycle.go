package models

import "time"

// CycleDuration is the fixed accountability window opened by a user's first
// goal. It is deliberately not configurable per user.
const CycleDuration = 24 * time.Hour

// CycleState enumerates what a user's cycle looks like at a given instant.
type CycleState string

const (
	CycleNone    CycleState = "none"
	CycleActive  CycleState = "active"
	CycleExpired CycleState = "expired"
)

// CycleStatus is the derived countdown view of a user's cycle. It is computed
// from CycleStart and the clock on every read; nothing stores it.
type CycleStatus struct {
	State     CycleState    `json:"state"`
	Remaining time.Duration `json:"-"`
	// RemainingSeconds is what the frontend polls for its countdown.
	RemainingSeconds int64 `json:"remainingSeconds"`
}

// CycleStatusAt computes the cycle status for a user at the given instant.
// An expired cycle is advisory display state only: it never deletes goals or
// resets the user. The only state-clearing transition is a fully completed
// cycle.
func CycleStatusAt(user *User, now time.Time) CycleStatus {
	if user.CycleStart == nil {
		return CycleStatus{State: CycleNone}
	}

	remaining := user.CycleStart.Add(CycleDuration).Sub(now)
	if remaining <= 0 {
		return CycleStatus{State: CycleExpired}
	}

	return CycleStatus{
		State:            CycleActive,
		Remaining:        remaining,
		RemainingSeconds: int64(remaining.Seconds()),
	}
}

// Package plan defines the daily-protocol structure produced by the
// recommendation service and the closed set of natural action types the
// generator is allowed to emit.
package plan

import (
	"fmt"

	"github.com/avelichka/skinform/internal/common"
)

// Action types the generative model may recommend. Anything outside this set
// is rejected before a plan is persisted, regardless of what the prompt said.
const (
	ActionIceDip    = "ice_dip"
	ActionJuice     = "juice"
	ActionTea       = "tea"
	ActionMassage   = "massage"
	ActionExercise  = "exercise"
	ActionDiet      = "diet"
	ActionHydration = "hydration"
	ActionMask      = "mask"
	ActionBreathing = "breathing"
	ActionSleep     = "sleep"
)

var allowedActionTypes = map[string]struct{}{
	ActionIceDip:    {},
	ActionJuice:     {},
	ActionTea:       {},
	ActionMassage:   {},
	ActionExercise:  {},
	ActionDiet:      {},
	ActionHydration: {},
	ActionMask:      {},
	ActionBreathing: {},
	ActionSleep:     {},
}

// AllowedActionType reports whether t is in the recommendation allow-list.
func AllowedActionType(t string) bool {
	_, ok := allowedActionTypes[t]
	return ok
}

// DailyAction is a single recommended activity within a day.
type DailyAction struct {
	ID              string `json:"id"`
	Type            string `json:"type"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"duration_minutes,omitempty"`
	Quantity        string `json:"quantity,omitempty"`
	TimeOfDay       string `json:"time_of_day,omitempty"`
}

// DayPlan is one day of the protocol.
type DayPlan struct {
	DayNumber int           `json:"day_number"`
	Date      string        `json:"date"`
	FocusArea string        `json:"focus_area"`
	Actions   []DailyAction `json:"actions"`
}

// RootCauseAnalysis summarizes what the model identified from the answers.
type RootCauseAnalysis struct {
	IdentifiedIssues    []string `json:"identified_issues"`
	ContributingFactors []string `json:"contributing_factors"`
}

// DailyProtocol is the full multi-day plan.
type DailyProtocol struct {
	RoutineName       string            `json:"routine_name"`
	TotalDays         int               `json:"total_days"`
	Overview          string            `json:"overview"`
	RootCauseAnalysis RootCauseAnalysis `json:"root_cause_analysis"`
	Days              []DayPlan         `json:"days"`
	GeneralTips       []string          `json:"general_tips"`
}

// Sanitize enforces the allow-list structurally: actions whose type is not
// allowed are dropped and reported. The protocol is rejected when it has no
// days, or when dropping disallowed actions leaves any day empty.
func (p *DailyProtocol) Sanitize() (dropped []DailyAction, err error) {
	if len(p.Days) == 0 {
		return nil, fmt.Errorf("%w: protocol has no days", common.ErrValidation)
	}

	for i := range p.Days {
		day := &p.Days[i]
		kept := day.Actions[:0]
		for _, a := range day.Actions {
			if AllowedActionType(a.Type) {
				kept = append(kept, a)
			} else {
				dropped = append(dropped, a)
			}
		}
		day.Actions = kept
		if len(day.Actions) == 0 {
			return dropped, fmt.Errorf("%w: day %d has no allowed actions", common.ErrValidation, day.DayNumber)
		}
	}

	return dropped, nil
}

package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelichka/skinform/internal/common"
)

func protocolWith(days ...DayPlan) *DailyProtocol {
	return &DailyProtocol{
		RoutineName: "Test Protocol",
		TotalDays:   len(days),
		Days:        days,
	}
}

func TestAllowedActionType(t *testing.T) {
	for _, typ := range []string{
		ActionIceDip, ActionJuice, ActionTea, ActionMassage, ActionExercise,
		ActionDiet, ActionHydration, ActionMask, ActionBreathing, ActionSleep,
	} {
		assert.True(t, AllowedActionType(typ), typ)
	}

	assert.False(t, AllowedActionType("retinoid"))
	assert.False(t, AllowedActionType("medication"))
	assert.False(t, AllowedActionType(""))
}

func TestSanitize_AllAllowedKeepsEverything(t *testing.T) {
	p := protocolWith(DayPlan{
		DayNumber: 1,
		Actions: []DailyAction{
			{ID: "a1", Type: ActionIceDip},
			{ID: "a2", Type: ActionTea},
		},
	})

	dropped, err := p.Sanitize()
	require.NoError(t, err)
	assert.Empty(t, dropped)
	assert.Len(t, p.Days[0].Actions, 2)
}

func TestSanitize_DropsDisallowedActions(t *testing.T) {
	p := protocolWith(DayPlan{
		DayNumber: 1,
		Actions: []DailyAction{
			{ID: "a1", Type: ActionJuice},
			{ID: "a2", Type: "prescription"},
			{ID: "a3", Type: ActionSleep},
		},
	})

	dropped, err := p.Sanitize()
	require.NoError(t, err)
	require.Len(t, dropped, 1)
	assert.Equal(t, "a2", dropped[0].ID)

	require.Len(t, p.Days[0].Actions, 2)
	assert.Equal(t, "a1", p.Days[0].Actions[0].ID)
	assert.Equal(t, "a3", p.Days[0].Actions[1].ID)
}

func TestSanitize_RejectsDayLeftEmpty(t *testing.T) {
	p := protocolWith(
		DayPlan{DayNumber: 1, Actions: []DailyAction{{ID: "a1", Type: ActionMask}}},
		DayPlan{DayNumber: 2, Actions: []DailyAction{{ID: "b1", Type: "chemical_peel"}}},
	)

	_, err := p.Sanitize()
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestSanitize_RejectsEmptyProtocol(t *testing.T) {
	p := &DailyProtocol{RoutineName: "empty"}
	_, err := p.Sanitize()
	assert.ErrorIs(t, err, common.ErrValidation)
}

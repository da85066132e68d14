package planner

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelichka/skinform/internal/common"
)

func protocolJSON(t *testing.T, actionTypes ...string) []byte {
	t.Helper()

	actions := make([]map[string]any, 0, len(actionTypes))
	for i, at := range actionTypes {
		actions = append(actions, map[string]any{
			"id":    "action_" + string(rune('1'+i)),
			"type":  at,
			"title": "do " + at,
		})
	}

	raw, err := json.Marshal(map[string]any{
		"routine_name": "Glow Reset",
		"total_days":   1,
		"overview":     "one day",
		"root_cause_analysis": map[string]any{
			"identified_issues":    []string{"dullness"},
			"contributing_factors": []string{"sleep"},
		},
		"days": []map[string]any{{
			"day_number": 1,
			"date":       "2025-01-24",
			"focus_area": "hydration",
			"actions":    actions,
		}},
		"general_tips": []string{"drink water"},
	})
	require.NoError(t, err)
	return raw
}

func TestDecodeProtocol_KeepsAllowedActions(t *testing.T) {
	protocol, dropped, err := decodeProtocol(protocolJSON(t, "ice_dip", "tea"))
	require.NoError(t, err)
	assert.Empty(t, dropped)
	require.Len(t, protocol.Days, 1)
	assert.Len(t, protocol.Days[0].Actions, 2)
}

func TestDecodeProtocol_DropsDisallowedActions(t *testing.T) {
	protocol, dropped, err := decodeProtocol(protocolJSON(t, "juice", "retinol_serum"))
	require.NoError(t, err)
	require.Len(t, dropped, 1)
	assert.Equal(t, "retinol_serum", dropped[0].Type)
	assert.Len(t, protocol.Days[0].Actions, 1)
}

func TestDecodeProtocol_RejectsEmptiedDay(t *testing.T) {
	_, _, err := decodeProtocol(protocolJSON(t, "retinol_serum"))
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestDecodeProtocol_RejectsMalformedJSON(t *testing.T) {
	_, _, err := decodeProtocol([]byte("plans are: drink water"))
	require.Error(t, err)
}

func TestBuildUserPrompt(t *testing.T) {
	form := json.RawMessage(`{
		"step1": {"age": "25-34", "skinType": "Dry"},
		"step2": null,
		"step5": {"sleepHours": 7}
	}`)

	start := time.Date(2025, 1, 24, 10, 0, 0, 0, time.UTC)
	prompt, err := buildUserPrompt(form, 7, start)
	require.NoError(t, err)

	assert.Contains(t, prompt, "7-day Daily Protocol starting from 2025-01-24")
	assert.Contains(t, prompt, "## Demographics & Skin Type (Step 1):")
	assert.Contains(t, prompt, `"skinType": "Dry"`)
	assert.Contains(t, prompt, "## Lifestyle Habits (Step 5):")
	assert.NotContains(t, prompt, "Step 2")
	assert.NotContains(t, prompt, "Step 6")
}

func TestBuildUserPrompt_BadForm(t *testing.T) {
	_, err := buildUserPrompt(json.RawMessage(`[1,2]`), 7, time.Now())
	require.Error(t, err)
}

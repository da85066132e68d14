// Package planner turns a submitted answer set into a multi-day holistic
// protocol by prompting a generative model and validating its JSON reply.
package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/avelichka/skinform/internal/plan"
)

// Planner generates a daily protocol for a submitted form. The form travels
// as raw JSON: the planner quotes it to the model without interpreting it.
type Planner interface {
	Generate(ctx context.Context, form json.RawMessage, days int, start time.Time) (*plan.DailyProtocol, error)
}

// decodeProtocol parses the model's JSON reply and drops any actions outside
// the allowed holistic set. The reply is rejected outright when it is not
// valid JSON or when sanitizing would leave a day without actions.
func decodeProtocol(raw []byte) (*plan.DailyProtocol, []plan.DailyAction, error) {
	var protocol plan.DailyProtocol
	if err := json.Unmarshal(raw, &protocol); err != nil {
		return nil, nil, fmt.Errorf("model reply is not valid JSON: %w", err)
	}

	dropped, err := protocol.Sanitize()
	if err != nil {
		return nil, dropped, err
	}
	return &protocol, dropped, nil
}

// Package sms delivers one-time verification codes to phone numbers.
package sms

import (
	"context"

	"github.com/avelichka/skinform/internal/logging"
)

// Sender delivers a verification code to a phone number.
type Sender interface {
	SendCode(ctx context.Context, phone, code string) error
}

// LogSender writes codes to the log instead of texting them. It stands in
// for the Twilio sender in development setups without credentials.
type LogSender struct {
	logger logging.Logger
}

func NewLogSender(logger logging.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) SendCode(ctx context.Context, phone, code string) error {
	s.logger.Info(ctx, "verification code issued", "phone", phone, "code", code)
	return nil
}

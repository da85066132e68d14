package sms

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioSender texts verification codes through the Twilio Messages API.
type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioSender(accountSID, authToken, from string) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioSender{client: client, from: from}
}

func (s *TwilioSender) SendCode(ctx context.Context, phone, code string) error {
	params := &openapi.CreateMessageParams{}
	params.SetTo("+" + phone)
	params.SetFrom(s.from)
	params.SetBody(fmt.Sprintf("Your skinform verification code is %s", code))

	if _, err := s.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("error sending verification code: %w", err)
	}
	return nil
}

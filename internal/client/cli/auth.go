package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/avelichka/skinform/internal/validation"
)

// resendWindow is how long the user must wait before requesting another
// verification code.
const resendWindow = 60 * time.Second

// Login walks the phone -> code -> session flow. The engine tracks the
// state transitions; the OTP round-trips go through the API client.
func (a *App) Login(ctx context.Context) error {
	phone, err := GetSimpleText(a.reader, "Enter your phone number", stdout)
	if err != nil {
		return err
	}
	if err := a.authEngine.SetPhoneNumber(phone); err != nil {
		fmt.Println("That does not look like a valid phone number (10-15 digits).")
		return nil
	}

	if err := a.apiClient.RequestOTP(ctx, a.authEngine.PhoneNumber()); err != nil {
		fmt.Println("Could not send a verification code:", err)
		return nil
	}
	if err := a.authEngine.BeginVerification(); err != nil {
		return err
	}

	fmt.Printf("A 6-digit code was sent to %s.\n", validation.FormatPhoneNumber(a.authEngine.PhoneNumber()))
	lastSent := time.Now()

	for {
		code, err := GetSimpleText(a.reader, "Enter the code (or \"resend\")", stdout)
		if err != nil {
			return err
		}

		if code == "resend" {
			if wait := resendWindow - time.Since(lastSent); wait > 0 {
				fmt.Printf("Please wait %d seconds before requesting a new code.\n", int(wait.Seconds())+1)
				continue
			}
			if err := a.apiClient.RequestOTP(ctx, a.authEngine.PhoneNumber()); err != nil {
				fmt.Println("Could not resend the code:", err)
				continue
			}
			lastSent = time.Now()
			fmt.Println("A new code was sent.")
			continue
		}

		if !validation.ValidateOTP(code) {
			fmt.Println("The code must be exactly six digits.")
			continue
		}

		result, err := a.apiClient.VerifyOTP(ctx, a.authEngine.PhoneNumber(), code)
		if err != nil {
			fmt.Println("Verification failed:", err)
			continue
		}

		if err := a.authEngine.LoginVerified(ctx, result.UserID, a.authEngine.PhoneNumber(), result.Token); err != nil {
			fmt.Println("Could not save your session:", err)
			return nil
		}

		fmt.Println("You are logged in.")
		return nil
	}
}

// Logout drops the stored session.
func (a *App) Logout(ctx context.Context) error {
	a.authEngine.Logout(ctx)
	fmt.Println("Logged out.")
	return nil
}

// ResetPassword sets a new account password after checking its strength
// locally.
func (a *App) ResetPassword(ctx context.Context) error {
	for {
		pw, err := GetPassword("New password", stdout)
		if err != nil {
			return err
		}

		check := validation.ValidatePassword(string(pw))
		if !check.Valid {
			fmt.Println("The password does not meet the requirements:")
			for _, msg := range check.Errors {
				fmt.Println("  -", msg)
			}
			continue
		}

		confirm, err := GetPassword("Repeat password", stdout)
		if err != nil {
			return err
		}
		if string(pw) != string(confirm) {
			fmt.Println("Passwords do not match.")
			continue
		}

		if err := a.apiClient.ResetPassword(ctx, string(pw)); err != nil {
			fmt.Println("Could not update the password:", err)
			return nil
		}
		fmt.Println("Password updated.")
		return nil
	}
}

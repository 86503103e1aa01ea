package robinhood

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"

	"github.com/bobmcallan/rhsheets/internal/common"
	"github.com/bobmcallan/rhsheets/internal/models"
)

// ErrLoginRejected is returned when the token endpoint answers without an access token
var ErrLoginRejected = errors.New("login rejected")

type tokenRequest struct {
	ClientID      string `json:"client_id"`
	ExpiresIn     int    `json:"expires_in"`
	GrantType     string `json:"grant_type"`
	Scope         string `json:"scope"`
	Username      string `json:"username"`
	Password      string `json:"password"`
	MFACode       string `json:"mfa_code"`
	DeviceToken   string `json:"device_token"`
	ChallengeType string `json:"challenge_type"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	MFARequired bool   `json:"mfa_required"`
	Detail      string `json:"detail"`
}

// Login exchanges the account password and a TOTP code for a bearer token
func (c *Client) Login(ctx context.Context, creds models.Credentials) error {
	if creds.Email == "" || creds.Password == "" || creds.OTPKey == "" {
		return fmt.Errorf("%w: brokerage credentials are incomplete", common.ErrConfig)
	}

	code, err := totp.GenerateCode(creds.OTPKey, c.now())
	if err != nil {
		return fmt.Errorf("%w: invalid OTP key: %v", common.ErrConfig, err)
	}

	req := tokenRequest{
		ClientID:      c.clientID,
		ExpiresIn:     86400,
		GrantType:     "password",
		Scope:         "internal",
		Username:      creds.Email,
		Password:      creds.Password,
		MFACode:       code,
		DeviceToken:   uuid.NewString(),
		ChallengeType: "sms",
	}

	var resp tokenResponse
	if err := c.post(ctx, "/oauth2/token/", req, &resp); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if resp.AccessToken == "" {
		detail := resp.Detail
		if resp.MFARequired {
			detail = "one-time code not accepted"
		}
		return fmt.Errorf("%w: %s", ErrLoginRejected, detail)
	}

	c.accessToken = resp.AccessToken
	c.logger.Info().Str("detail", resp.Detail).Msg("Logged in to Robinhood")
	return nil
}

// LoggedIn reports whether a bearer token is held
func (c *Client) LoggedIn() bool {
	return c.accessToken != ""
}

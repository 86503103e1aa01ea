// Package secrets resolves brokerage credentials from the environment,
// optionally decrypting them with AWS KMS or a Fernet key.
package secrets

import (
	"context"
	"fmt"
	"strings"

	"github.com/bobmcallan/rhsheets/internal/common"
	"github.com/bobmcallan/rhsheets/internal/interfaces"
	"github.com/bobmcallan/rhsheets/internal/models"
)

// Environment variables holding the brokerage credentials
const (
	EnvEmail    = "RH_EMAIL"
	EnvPassword = "RH_PASSWORD"
	EnvOTPKey   = "RH_OTP_KEY"
)

// LoadCredentials reads and decrypts the three credential values. Any
// missing value is a configuration error naming every absent variable.
func LoadCredentials(ctx context.Context, getenv func(string) string, d interfaces.Decrypter) (models.Credentials, error) {
	values := map[string]string{}
	var missing []string
	for _, name := range []string{EnvEmail, EnvPassword, EnvOTPKey} {
		v := strings.TrimSpace(getenv(name))
		if v == "" {
			missing = append(missing, name)
			continue
		}
		values[name] = v
	}
	if len(missing) > 0 {
		return models.Credentials{}, fmt.Errorf("%w: missing required environment variables %s",
			common.ErrConfig, strings.Join(missing, ", "))
	}

	for name, v := range values {
		plain, err := d.Decrypt(ctx, v)
		if err != nil {
			return models.Credentials{}, fmt.Errorf("%w: decrypt %s: %v", common.ErrConfig, name, err)
		}
		values[name] = plain
	}

	return models.Credentials{
		Email:    values[EnvEmail],
		Password: values[EnvPassword],
		OTPKey:   values[EnvOTPKey],
	}, nil
}

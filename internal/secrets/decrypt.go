package secrets

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/fernet/fernet-go"

	"github.com/bobmcallan/rhsheets/internal/common"
	"github.com/bobmcallan/rhsheets/internal/interfaces"
)

// Secrets modes
const (
	ModeNone   = "none"
	ModeKMS    = "kms"
	ModeFernet = "fernet"
)

// ErrInvalidToken is returned when a Fernet token fails verification
var ErrInvalidToken = errors.New("invalid fernet token")

// PlainDecrypter returns values unchanged
type PlainDecrypter struct{}

var _ interfaces.Decrypter = PlainDecrypter{}

func (PlainDecrypter) Decrypt(_ context.Context, value string) (string, error) {
	return value, nil
}

// KMSAPI is the subset of the KMS client used for decryption
type KMSAPI interface {
	Decrypt(ctx context.Context, in *kms.DecryptInput, optFns ...func(*kms.Options)) (*kms.DecryptOutput, error)
}

// KMSDecrypter decrypts base64 ciphertext with AWS KMS. Values that are not
// canonical base64 are treated as plaintext.
type KMSDecrypter struct {
	client KMSAPI
	logger *common.Logger
}

var _ interfaces.Decrypter = (*KMSDecrypter)(nil)

// NewKMSDecrypter loads the default AWS configuration for region
func NewKMSDecrypter(ctx context.Context, region string, logger *common.Logger) (*KMSDecrypter, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewKMSDecrypterWithClient(kms.NewFromConfig(cfg), logger), nil
}

// NewKMSDecrypterWithClient wraps an existing KMS client
func NewKMSDecrypterWithClient(client KMSAPI, logger *common.Logger) *KMSDecrypter {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &KMSDecrypter{client: client, logger: logger}
}

func (k *KMSDecrypter) Decrypt(ctx context.Context, value string) (string, error) {
	blob, ok := decodeBase64(value)
	if !ok {
		k.logger.Debug().Msg("Value is not base64, using it as plaintext")
		return value, nil
	}

	out, err := k.client.Decrypt(ctx, &kms.DecryptInput{CiphertextBlob: blob})
	if err != nil {
		return "", fmt.Errorf("kms decrypt: %w", err)
	}
	return string(out.Plaintext), nil
}

// decodeBase64 accepts only strings that round-trip through standard base64
func decodeBase64(s string) ([]byte, bool) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil || len(b) == 0 {
		return nil, false
	}
	return b, base64.StdEncoding.EncodeToString(b) == s
}

// FernetDecrypter verifies and decrypts Fernet tokens. Tokens do not expire.
type FernetDecrypter struct {
	keys []*fernet.Key
}

var _ interfaces.Decrypter = (*FernetDecrypter)(nil)

// NewFernetDecrypter decodes one or more base64 keys
func NewFernetDecrypter(encodedKeys ...string) (*FernetDecrypter, error) {
	keys, err := fernet.DecodeKeys(encodedKeys...)
	if err != nil {
		return nil, fmt.Errorf("%w: decode fernet key: %v", common.ErrConfig, err)
	}
	return &FernetDecrypter{keys: keys}, nil
}

func (f *FernetDecrypter) Decrypt(_ context.Context, value string) (string, error) {
	msg := fernet.VerifyAndDecrypt([]byte(value), -1*time.Second, f.keys)
	if msg == nil {
		return "", ErrInvalidToken
	}
	return string(msg), nil
}

// NewDecrypter builds the decrypter selected by the secrets configuration
func NewDecrypter(ctx context.Context, cfg common.SecretsConfig, logger *common.Logger) (interfaces.Decrypter, error) {
	switch cfg.Mode {
	case ModeNone, "":
		return PlainDecrypter{}, nil
	case ModeKMS:
		return NewKMSDecrypter(ctx, cfg.KMSRegion, logger)
	case ModeFernet:
		key := os.Getenv(cfg.FernetKeyEnv)
		if key == "" {
			return nil, fmt.Errorf("%w: %s is not set", common.ErrConfig, cfg.FernetKeyEnv)
		}
		return NewFernetDecrypter(key)
	default:
		return nil, fmt.Errorf("%w: unknown secrets mode %q", common.ErrConfig, cfg.Mode)
	}
}

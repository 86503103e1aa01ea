package secrets

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/fernet/fernet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/rhsheets/internal/common"
)

type fakeKMS struct {
	calls [][]byte
	err   error
}

func (f *fakeKMS) Decrypt(_ context.Context, in *kms.DecryptInput, _ ...func(*kms.Options)) (*kms.DecryptOutput, error) {
	f.calls = append(f.calls, in.CiphertextBlob)
	if f.err != nil {
		return nil, f.err
	}
	return &kms.DecryptOutput{Plaintext: append([]byte("plain:"), in.CiphertextBlob...)}, nil
}

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoadCredentials_AllPresent(t *testing.T) {
	creds, err := LoadCredentials(context.Background(), envMap(map[string]string{
		EnvEmail: "me@example.com", EnvPassword: "pw", EnvOTPKey: " KEY ",
	}), PlainDecrypter{})
	require.NoError(t, err)

	assert.Equal(t, "me@example.com", creds.Email)
	assert.Equal(t, "pw", creds.Password)
	assert.Equal(t, "KEY", creds.OTPKey)
}

func TestLoadCredentials_AnyMissingIsConfigError(t *testing.T) {
	_, err := LoadCredentials(context.Background(), envMap(map[string]string{
		EnvEmail: "me@example.com",
	}), PlainDecrypter{})
	require.Error(t, err)

	assert.ErrorIs(t, err, common.ErrConfig)
	assert.Contains(t, err.Error(), EnvPassword)
	assert.Contains(t, err.Error(), EnvOTPKey)
	assert.NotContains(t, err.Error(), EnvEmail)
}

func TestLoadCredentials_DecryptsEachValue(t *testing.T) {
	fake := &fakeKMS{}
	d := NewKMSDecrypterWithClient(fake, nil)

	enc := base64.StdEncoding.EncodeToString([]byte("secret"))
	creds, err := LoadCredentials(context.Background(), envMap(map[string]string{
		EnvEmail: "me@example.com", EnvPassword: enc, EnvOTPKey: "not base64!",
	}), d)
	require.NoError(t, err)

	assert.Equal(t, "me@example.com", creds.Email, "plain values pass through")
	assert.Equal(t, "plain:secret", creds.Password)
	assert.Equal(t, "not base64!", creds.OTPKey)
}

func TestLoadCredentials_DecryptFailureIsConfigError(t *testing.T) {
	d := NewKMSDecrypterWithClient(&fakeKMS{err: errors.New("access denied")}, nil)

	enc := base64.StdEncoding.EncodeToString([]byte("secret"))
	_, err := LoadCredentials(context.Background(), envMap(map[string]string{
		EnvEmail: enc, EnvPassword: enc, EnvOTPKey: enc,
	}), d)
	assert.ErrorIs(t, err, common.ErrConfig)
}

func TestDecodeBase64(t *testing.T) {
	b, ok := decodeBase64(base64.StdEncoding.EncodeToString([]byte("hello")))
	assert.True(t, ok)
	assert.Equal(t, []byte("hello"), b)

	_, ok = decodeBase64("me@example.com")
	assert.False(t, ok)

	_, ok = decodeBase64("")
	assert.False(t, ok)
}

func TestFernetDecrypter_RoundTrip(t *testing.T) {
	var key fernet.Key
	require.NoError(t, key.Generate())

	tok, err := fernet.EncryptAndSign([]byte("hunter2"), &key)
	require.NoError(t, err)

	d, err := NewFernetDecrypter(key.Encode())
	require.NoError(t, err)

	got, err := d.Decrypt(context.Background(), string(tok))
	require.NoError(t, err)
	assert.Equal(t, "hunter2", got)

	_, err = d.Decrypt(context.Background(), "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewFernetDecrypter_BadKey(t *testing.T) {
	_, err := NewFernetDecrypter("not-a-key")
	assert.ErrorIs(t, err, common.ErrConfig)
}

func TestNewDecrypter_Modes(t *testing.T) {
	d, err := NewDecrypter(context.Background(), common.SecretsConfig{Mode: ModeNone}, nil)
	require.NoError(t, err)
	assert.IsType(t, PlainDecrypter{}, d)

	t.Setenv("TEST_FERNET_KEY", "")
	_, err = NewDecrypter(context.Background(), common.SecretsConfig{Mode: ModeFernet, FernetKeyEnv: "TEST_FERNET_KEY"}, nil)
	assert.ErrorIs(t, err, common.ErrConfig)

	var key fernet.Key
	require.NoError(t, key.Generate())
	t.Setenv("TEST_FERNET_KEY", key.Encode())
	d, err = NewDecrypter(context.Background(), common.SecretsConfig{Mode: ModeFernet, FernetKeyEnv: "TEST_FERNET_KEY"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &FernetDecrypter{}, d)

	_, err = NewDecrypter(context.Background(), common.SecretsConfig{Mode: "vault"}, nil)
	assert.ErrorIs(t, err, common.ErrConfig)
}

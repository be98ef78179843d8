// Package auth loads marketplace account credentials and keeps the password
// sealed in encrypted memory until sign-in.
package auth

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/awnumar/memguard"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of the credential environment variables
// (PRICER_EMAIL, PRICER_PASSWORD, PRICER_DEVICE_ID).
const EnvPrefix = "PRICER"

var (
	ErrMissingEmail    = errors.New("account email is required")
	ErrMissingPassword = errors.New("account password is required")
	ErrDestroyed       = errors.New("credentials destroyed")
)

// Credentials identify the account to sign in with.
type Credentials struct {
	Email    string
	DeviceID string

	password *memguard.Enclave
}

// NewCredentials seals password into an enclave. A random device id is
// generated when deviceID is empty.
func NewCredentials(email, password, deviceID string) (*Credentials, error) {
	if email == "" {
		return nil, ErrMissingEmail
	}
	if password == "" {
		return nil, ErrMissingPassword
	}
	if deviceID == "" {
		deviceID = uuid.NewString()
	}

	return &Credentials{
		Email:    email,
		DeviceID: deviceID,
		// NewEnclave wipes the slice it is given.
		password: memguard.NewEnclave([]byte(password)),
	}, nil
}

// LoadCredentials reads credentials from the environment. envFile, when set
// and present, is loaded first; variables already in the environment win.
func LoadCredentials(envFile string) (*Credentials, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	creds, err := NewCredentials(
		strings.TrimSpace(v.GetString("email")),
		v.GetString("password"),
		strings.TrimSpace(v.GetString("device_id")),
	)
	if err != nil {
		return nil, fmt.Errorf("load credentials: %w", err)
	}
	return creds, nil
}

// Password opens the enclave and returns the plaintext password.
func (c *Credentials) Password() (string, error) {
	if c.password == nil {
		return "", ErrDestroyed
	}
	buf, err := c.password.Open()
	if err != nil {
		return "", fmt.Errorf("open password enclave: %w", err)
	}
	defer buf.Destroy()
	return string(buf.Bytes()), nil
}

// Destroy drops the sealed password. Later calls to Password fail.
func (c *Credentials) Destroy() {
	c.password = nil
}

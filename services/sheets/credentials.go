package sheets

import (
	"errors"
	"fmt"
	"lead_funnel_go/config"
	"log"
	"os"
	"strings"
	"sync"
)

// Secret holds credential material. It never prints its value.
type Secret string

func (Secret) String() string   { return "[REDACTED]" }
func (Secret) GoString() string { return "[REDACTED]" }

// Reveal returns the raw value for handing to an auth library
func (s Secret) Reveal() string { return string(s) }

// Credentials selects how the Sheets client authenticates
type Credentials struct {
	ClientEmail string
	PrivateKey  Secret
	// CredentialsJSON is the content of GOOGLE_APPLICATION_CREDENTIALS when set
	CredentialsJSON Secret
}

// HasServiceAccount reports whether an explicit email + key pair is present
func (c *Credentials) HasServiceAccount() bool {
	return c.ClientEmail != "" && c.PrivateKey != ""
}

// UsesDefault reports whether application-default credentials should be used
func (c *Credentials) UsesDefault() bool {
	return !c.HasServiceAccount() && c.CredentialsJSON == ""
}

// CredentialLoader reads credentials once per process and caches the result
type CredentialLoader struct {
	once  sync.Once
	creds *Credentials
	err   error
	load  func() (*Credentials, error)
}

// NewCredentialLoader reads from the already loaded configuration
func NewCredentialLoader(cfg *config.Config) *CredentialLoader {
	return &CredentialLoader{load: func() (*Credentials, error) {
		return loadCredentials(cfg.GoogleClientEmail, cfg.GooglePrivateKey, cfg.GoogleCredsFile)
	}}
}

// Get returns the cached credentials, loading them on first use
func (l *CredentialLoader) Get() (*Credentials, error) {
	l.once.Do(func() {
		l.creds, l.err = l.load()
		if l.err != nil {
			log.Printf("[sheets] Failed to load Google credentials: %v", l.err)
			return
		}
		switch {
		case l.creds.HasServiceAccount():
			log.Printf("[sheets] Using service account %s", l.creds.ClientEmail)
		case l.creds.CredentialsJSON != "":
			log.Println("[sheets] Using credentials file from GOOGLE_APPLICATION_CREDENTIALS")
		default:
			log.Println("[sheets] Using application default credentials")
		}
	})
	return l.creds, l.err
}

func loadCredentials(email, rawKey, credsFile string) (*Credentials, error) {
	email = strings.TrimSpace(email)
	key := normalizePrivateKey(rawKey)

	if (email == "") != (key == "") {
		return nil, errors.New("GOOGLE_CLIENT_EMAIL and GOOGLE_PRIVATE_KEY must be set together")
	}

	if key != "" {
		if !strings.Contains(key, "PRIVATE KEY-----") {
			return nil, errors.New("GOOGLE_PRIVATE_KEY is not a PEM private key (check the \\n escapes)")
		}
		return &Credentials{ClientEmail: email, PrivateKey: Secret(key)}, nil
	}

	if credsFile != "" {
		data, err := os.ReadFile(credsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read credentials file: %w", err)
		}
		return &Credentials{CredentialsJSON: Secret(data)}, nil
	}

	return &Credentials{}, nil
}

// normalizePrivateKey strips wrapping quotes and turns literal \n escapes into newlines
func normalizePrivateKey(raw string) string {
	key := strings.TrimSpace(raw)
	key = strings.Trim(key, `"'`)
	key = strings.ReplaceAll(key, `\n`, "\n")
	return key
}

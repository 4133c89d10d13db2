package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

var ErrNoCredentials = errors.New("no credentials for site")

type Credentials struct {
	Email         string              `json:"email"`
	Password      string              `json:"password"`
	CVV           string              `json:"cvv"`
	Notifications NotificationAccount `json:"notifications"`
}

type NotificationAccount struct {
	SenderEmail    string `json:"sender_email"`
	SenderPassword string `json:"sender_password"`
	RecipientEmail string `json:"recipient_email"`
}

func (n NotificationAccount) Configured() bool {
	return n.SenderEmail != "" && n.SenderPassword != "" && n.RecipientEmail != ""
}

// CredentialStore holds every site's credentials, keyed by site name.
type CredentialStore map[string]Credentials

func LoadCredentials(path string) (CredentialStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials %s: %w", path, err)
	}

	var store CredentialStore
	if err := json.Unmarshal(data, &store); err != nil {
		return nil, fmt.Errorf("failed to parse credentials %s: %w", path, err)
	}
	return store, nil
}

// For is checked when a site's worker starts, not at load time, so one
// missing site does not stop the others.
func (c CredentialStore) For(site string) (Credentials, error) {
	creds, ok := c[site]
	if !ok {
		return Credentials{}, fmt.Errorf("%w %q", ErrNoCredentials, site)
	}
	return creds, nil
}

package secret

import (
	"fmt"
	"os/exec"
	"strings"
)

// All entries live under one keychain service name; the account field
// carries the device-source id.
const keychainService = "rangedeck-device-sources"

// KeychainStore keeps device-source passwords in the macOS Keychain,
// driven through the `security` CLI.
type KeychainStore struct{}

func NewKeychainStore() *KeychainStore {
	return &KeychainStore{}
}

// Set writes the password for a device source, replacing any prior entry.
func (k *KeychainStore) Set(key string, value []byte) error {
	// add-generic-password fails on duplicates even with -U on some
	// macOS versions, so clear the slot first.
	k.Delete(key)

	cmd := exec.Command("security", "add-generic-password",
		"-a", key,
		"-s", keychainService,
		"-w", string(value),
		"-U",
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("keychain set: %s: %w", strings.TrimSpace(string(out)), err)
	}
	return nil
}

// Get reads the password for a device source. A missing entry is not an
// error; callers fall back to passwordless connections.
func (k *KeychainStore) Get(key string) ([]byte, error) {
	cmd := exec.Command("security", "find-generic-password",
		"-a", key,
		"-s", keychainService,
		"-w",
	)
	out, err := cmd.Output()
	if err != nil {
		// exit code 44 means no such item; anything else is treated the
		// same so a locked keychain degrades to "no password" rather than
		// blocking source listing.
		return nil, nil
	}
	return []byte(strings.TrimSpace(string(out))), nil
}

// Delete removes the password for a device source.
func (k *KeychainStore) Delete(key string) error {
	cmd := exec.Command("security", "delete-generic-password",
		"-a", key,
		"-s", keychainService,
	)
	cmd.Run()
	return nil
}

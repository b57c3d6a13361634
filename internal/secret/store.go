package secret

// SecretStore holds credentials that must stay out of the SQLite file,
// keyed by the owning device-source id. Backed by the macOS Keychain in
// the app; tests substitute an in-memory map.
type SecretStore interface {
	// Set stores or replaces the secret for a device source.
	Set(key string, value []byte) error

	// Get returns the secret for a device source, or nil with no error
	// when none is stored.
	Get(key string) ([]byte, error)

	// Delete removes the secret for a device source.
	Delete(key string) error
}

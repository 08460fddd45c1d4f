package app

// KV is device-local persisted storage. Keys are flat strings.
// Implementations must be safe for concurrent use.
type KV interface {
	// Get returns ok=false when key is absent.
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
}

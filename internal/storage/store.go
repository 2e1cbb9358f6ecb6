// Package storage provides the durable key-value store the client keeps its
// cart and session in between runs.
package storage

// Well-known keys
const (
	KeyCartItems = "cartItems"
	KeyAuthUser  = "authUser"
	KeyAuthToken = "authToken"
)

// Store persists string blobs by key. Get reports ok=false for a missing key.
type Store interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(key string) error
}

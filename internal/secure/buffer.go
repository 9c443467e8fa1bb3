// Package secure keeps fetched secret values encrypted in memory between
// the parameter store fetch and the moment they are handed to the child
// process environment.
package secure

import (
	"sync"

	"github.com/awnumar/memguard"
)

// Buffer wraps memguard.Enclave so a secret sits encrypted at rest in
// memory, mlocked against swapping where the platform allows it.
type Buffer struct {
	enclave   *memguard.Enclave
	mu        sync.RWMutex
	destroyed bool
}

// NewBuffer copies value into a protected memory region. The enclave
// encrypts the data (XSalsa20Poly1305) and guards it with canary pages.
func NewBuffer(value string) *Buffer {
	return &Buffer{
		enclave: memguard.NewEnclave([]byte(value)),
	}
}

// Open decrypts the buffer and returns the plaintext. The returned
// locked buffer must be destroyed by the caller once consumed:
//
//	locked, err := buf.Open()
//	if err != nil {
//	    return err
//	}
//	defer locked.Destroy()
//	use(locked.String())
func (b *Buffer) Open() (*memguard.LockedBuffer, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.destroyed {
		return memguard.NewBufferFromBytes([]byte{}), nil
	}
	return b.enclave.Open()
}

// Destroy prevents further use of the buffer. Idempotent; after Destroy,
// Open returns an empty buffer. For full cleanup of all memguard state
// at process exit, main defers memguard.Purge().
func (b *Buffer) Destroy() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.destroyed {
		return
	}
	b.enclave = nil
	b.destroyed = true
}

// Package probe generates the unique marker strings injected to detect
// reflection. A probe is used once per test request and discarded after
// the response has been classified.
package probe

import (
	"math/rand"
	"strings"
	"sync"
	"time"
)

const (
	prefix    = "XSS_PROBE_"
	alphabet  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	suffixLen = 12
)

var (
	mu  sync.Mutex
	rng = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// New returns a fresh probe token. Uniqueness matters here, not secrecy:
// 36^12 possible suffixes make accidental collision with page content
// negligible.
func New() string {
	var b strings.Builder
	b.Grow(len(prefix) + suffixLen)
	b.WriteString(prefix)
	mu.Lock()
	for i := 0; i < suffixLen; i++ {
		b.WriteByte(alphabet[rng.Intn(len(alphabet))])
	}
	mu.Unlock()
	return b.String()
}

// Prefix reports the fixed readable prefix shared by all probes.
func Prefix() string {
	return prefix
}

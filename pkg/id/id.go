package id

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mu   sync.Mutex
	mono io.Reader
)

func init() {
	var seed int64
	_ = binary.Read(cryptoRand.Reader, binary.LittleEndian, &seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	// Monotonic keeps IDs from the same millisecond in increasing order.
	mono = ulid.Monotonic(rand.New(rand.NewSource(seed)), 0)
}

// New returns a ULID string, sortable by creation time.
func New() string {
	return at(time.Now()).String()
}

// Prefixed returns kind, an underscore and a new ULID, e.g. "ev_01HV...".
func Prefixed(kind string) string {
	return kind + "_" + New()
}

// Time reports when an ID from New or Prefixed was generated.
func Time(s string) (time.Time, error) {
	if i := strings.LastIndexByte(s, '_'); i >= 0 {
		s = s[i+1:]
	}
	u, err := ulid.ParseStrict(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse id %q: %w", s, err)
	}
	return ulid.Time(u.Time()).UTC(), nil
}

func at(t time.Time) ulid.ULID {
	mu.Lock()
	defer mu.Unlock()

	u, err := ulid.New(ulid.Timestamp(t.UTC()), mono)
	if err != nil {
		// only when the clock is before the epoch or entropy is exhausted
		panic(err)
	}
	return u
}

package id

import (
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsSortable(t *testing.T) {
	ids := make([]string, 200)
	for i := range ids {
		ids[i] = New()
	}
	assert.True(t, sort.StringsAreSorted(ids))

	seen := map[string]bool{}
	for _, s := range ids {
		assert.Len(t, s, 26)
		assert.False(t, seen[s], "duplicate id %s", s)
		seen[s] = true
	}
}

func TestPrefixed(t *testing.T) {
	before := time.Now().UTC().Truncate(time.Millisecond)
	s := Prefixed("ev")
	require.True(t, strings.HasPrefix(s, "ev_"))

	ts, err := Time(s)
	require.NoError(t, err)
	assert.False(t, ts.Before(before))
	assert.WithinDuration(t, time.Now(), ts, time.Minute)
}

func TestTimeInvalid(t *testing.T) {
	_, err := Time("ev_not-a-ulid")
	assert.Error(t, err)
}

package signal

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/strand/internal/domain"
)

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

// collector records resolved results for assertions.
type collector struct {
	results []domain.Result
}

func (c *collector) resolve(r domain.Result) {
	c.results = append(c.results, r)
}

func TestPublishResolvesCurrentWaiters(t *testing.T) {
	reg := NewRegistry(setupTestLogger())

	var a, b collector
	reg.Subscribe("abc", a.resolve)
	reg.Subscribe("abc", b.resolve)

	count := reg.Publish("abc", "hello")

	assert.Equal(t, 2, count)
	require.Len(t, a.results, 1)
	require.Len(t, b.results, 1)
	assert.Equal(t, "hello", a.results[0].Value)
	assert.Equal(t, "hello", b.results[0].Value)
	assert.Zero(t, reg.Pending("abc"))
}

func TestPublishDoesNotTouchOtherSignals(t *testing.T) {
	reg := NewRegistry(setupTestLogger())

	var a, b collector
	reg.Subscribe("abc", a.resolve)
	reg.Subscribe("def", b.resolve)

	count := reg.Publish("abc", 42)

	assert.Equal(t, 1, count)
	assert.Len(t, a.results, 1)
	assert.Empty(t, b.results, "waiter on a different signal must be unaffected")
	assert.Equal(t, 1, reg.Pending("def"))
}

func TestPublishBeforeSubscribeIsLost(t *testing.T) {
	reg := NewRegistry(setupTestLogger())

	count := reg.Publish("abc", "dropped")
	assert.Zero(t, count)

	// A later subscriber does not see the earlier publish.
	var c collector
	reg.Subscribe("abc", c.resolve)
	assert.Empty(t, c.results)
}

func TestWaitersSubscribedAfterPublishAreUnaffected(t *testing.T) {
	reg := NewRegistry(setupTestLogger())

	var early, late collector
	reg.Subscribe("abc", early.resolve)
	reg.Publish("abc", "first")
	reg.Subscribe("abc", late.resolve)

	assert.Len(t, early.results, 1)
	assert.Empty(t, late.results)
	assert.Equal(t, 1, reg.Pending("abc"))
}

func TestRemoveIsIdempotent(t *testing.T) {
	reg := NewRegistry(setupTestLogger())

	var c collector
	w := reg.Subscribe("abc", c.resolve)

	assert.True(t, reg.Remove(w), "first removal owns the outcome")
	assert.False(t, reg.Remove(w), "second removal is a no-op")
	assert.Zero(t, reg.Pending("abc"))

	// A publish after removal resolves nobody.
	assert.Zero(t, reg.Publish("abc", "late"))
	assert.Empty(t, c.results)
}

func TestRemoveAfterPublishIsNoOp(t *testing.T) {
	reg := NewRegistry(setupTestLogger())

	var c collector
	w := reg.Subscribe("abc", c.resolve)

	require.Equal(t, 1, reg.Publish("abc", "won"))
	assert.False(t, reg.Remove(w), "publish already won this waiter")
	assert.Len(t, c.results, 1, "waiter resolved exactly once")
}

func TestRemoveOnlyTargetsItsWaiter(t *testing.T) {
	reg := NewRegistry(setupTestLogger())

	var a, b collector
	wa := reg.Subscribe("abc", a.resolve)
	reg.Subscribe("abc", b.resolve)

	require.True(t, reg.Remove(wa))
	assert.Equal(t, 1, reg.Pending("abc"))

	count := reg.Publish("abc", "v")
	assert.Equal(t, 1, count)
	assert.Empty(t, a.results)
	assert.Len(t, b.results, 1)
}

func TestLen(t *testing.T) {
	reg := NewRegistry(setupTestLogger())
	assert.Zero(t, reg.Len())

	var c collector
	reg.Subscribe("abc", c.resolve)
	reg.Subscribe("def", c.resolve)
	reg.Subscribe("def", c.resolve)
	assert.Equal(t, 3, reg.Len())

	reg.Publish("def", nil)
	assert.Equal(t, 1, reg.Len())
}

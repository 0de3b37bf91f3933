package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemClockNow(t *testing.T) {
	c := New()
	a := c.Now()
	b := c.Now()
	assert.False(t, b.Before(a), "system clock went backwards")
}

func TestMockAdvanceFiresTimers(t *testing.T) {
	m := NewMock()
	start := m.Now()

	ch := m.After(5 * time.Second)
	select {
	case <-ch:
		t.Fatal("timer fired before Advance")
	default:
	}

	m.Advance(4 * time.Second)
	select {
	case <-ch:
		t.Fatal("timer fired before its deadline")
	default:
	}

	m.Advance(time.Second)
	select {
	case at := <-ch:
		assert.Equal(t, start.Add(5*time.Second), at)
	default:
		t.Fatal("timer did not fire at its deadline")
	}
}

func TestMockAfterNonPositiveFiresImmediately(t *testing.T) {
	m := NewMock()

	select {
	case <-m.After(0):
	default:
		t.Fatal("zero-duration timer did not fire immediately")
	}

	select {
	case <-m.After(-time.Second):
	default:
		t.Fatal("negative-duration timer did not fire immediately")
	}
}

func TestMockFiresInDeadlineOrder(t *testing.T) {
	m := NewMock()

	late := m.After(3 * time.Second)
	early := m.After(time.Second)

	m.Advance(10 * time.Second)

	earlyAt := <-early
	lateAt := <-late
	require.True(t, earlyAt.Equal(lateAt), "both fire with the post-advance time")
}

func TestMockSetIgnoresBackwards(t *testing.T) {
	m := NewMock()
	m.Advance(time.Minute)
	was := m.Now()

	m.Set(was.Add(-time.Second))
	assert.Equal(t, was, m.Now())
}

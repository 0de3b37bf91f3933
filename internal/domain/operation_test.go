package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSource is a minimal ReadSource for constructor tests.
type stubSource struct{}

func (stubSource) TryRead(maxLen int) ([]byte, bool, error) {
	return nil, false, ErrWouldBlock
}

func TestSleep(t *testing.T) {
	t.Run("positive duration", func(t *testing.T) {
		op, err := Sleep(5 * time.Second)
		require.NoError(t, err)
		assert.Equal(t, OpSleep, op.Kind)
		assert.Equal(t, 5*time.Second, op.Duration)
	})

	t.Run("zero duration is valid", func(t *testing.T) {
		op, err := Sleep(0)
		require.NoError(t, err)
		assert.Equal(t, OpSleep, op.Kind)
	})

	t.Run("negative duration rejected", func(t *testing.T) {
		_, err := Sleep(-time.Millisecond)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})
}

func TestWaitForSignal(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		op, err := WaitForSignal("abc", time.Second)
		require.NoError(t, err)
		assert.Equal(t, OpWaitSignal, op.Kind)
		assert.Equal(t, "abc", op.Signal)
		assert.Equal(t, time.Second, op.Timeout)
	})

	t.Run("empty name rejected", func(t *testing.T) {
		_, err := WaitForSignal("", time.Second)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("zero timeout rejected", func(t *testing.T) {
		_, err := WaitForSignal("abc", 0)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("negative timeout rejected", func(t *testing.T) {
		_, err := WaitForSignal("abc", -time.Second)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})
}

func TestReadBytes(t *testing.T) {
	src := stubSource{}

	t.Run("valid", func(t *testing.T) {
		op, err := ReadBytes(src, 1024, time.Second)
		require.NoError(t, err)
		assert.Equal(t, OpRead, op.Kind)
		assert.Equal(t, 1024, op.MaxLen)
	})

	t.Run("zero timeout means unbounded", func(t *testing.T) {
		op, err := ReadBytes(src, 1, 0)
		require.NoError(t, err)
		assert.Zero(t, op.Timeout)
	})

	t.Run("nil source rejected", func(t *testing.T) {
		_, err := ReadBytes(nil, 1024, 0)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("non-positive length rejected", func(t *testing.T) {
		_, err := ReadBytes(src, 0, 0)
		assert.ErrorIs(t, err, ErrInvalidArgument)

		_, err = ReadBytes(src, -1, 0)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("negative timeout rejected", func(t *testing.T) {
		_, err := ReadBytes(src, 1024, -time.Second)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})
}

func TestResult(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		r := OK("hello")
		assert.False(t, r.Failed())
		assert.Equal(t, "hello", r.Value)
	})

	t.Run("end of stream is not a failure", func(t *testing.T) {
		r := EndOfStream()
		assert.False(t, r.Failed())
		assert.True(t, r.EOF)
	})

	t.Run("failure", func(t *testing.T) {
		r := Failure(ErrTimeout)
		assert.True(t, r.Failed())
		assert.ErrorIs(t, r.Err, ErrTimeout)
	})

	t.Run("bytes helper", func(t *testing.T) {
		assert.Equal(t, []byte("abc"), OK([]byte("abc")).Bytes())
		assert.Nil(t, OK("not bytes").Bytes())
	})
}

package strand_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/strand"
)

// chunkAfterSleep suspends once on a short sleep and then emits a single
// chunk before finishing.
type chunkAfterSleep struct {
	slept bool
}

func (h *chunkAfterSleep) Step(br *strand.Bridge) (strand.Yield, error) {
	if !h.slept {
		h.slept = true
		op, err := strand.Sleep(time.Millisecond)
		if err != nil {
			return strand.Yield{}, err
		}
		if err := br.Request(op); err != nil {
			return strand.Yield{}, err
		}
		return strand.Yield{}, nil
	}
	return strand.Yield{Chunk: []byte("done"), Done: true}, nil
}

func TestFacadeRoundTrip(t *testing.T) {
	eng := strand.New(strand.DefaultConfig(), nil)

	handle, err := eng.Submit(&chunkAfterSleep{})
	require.NoError(t, err)

	runErr := make(chan error, 1)
	go func() { runErr <- eng.Run(context.Background()) }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	chunk, err := handle.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("done"), chunk)

	_, err = handle.Next(ctx)
	assert.ErrorIs(t, err, io.EOF)

	require.NoError(t, <-runErr)
	assert.Equal(t, strand.TaskFinished, handle.State())
}

func TestFacadeSignalDelivery(t *testing.T) {
	eng := strand.New(strand.DefaultConfig(), nil)

	received := make(chan any, 1)
	step := 0
	h := strand.HandlerFunc(func(br *strand.Bridge) (strand.Yield, error) {
		switch step {
		case 0:
			step++
			op, err := strand.WaitForSignal("facade.ping", time.Second)
			if err != nil {
				return strand.Yield{}, err
			}
			return strand.Yield{}, br.Request(op)
		default:
			res, _ := br.Result()
			received <- res.Value
			return strand.Yield{Done: true}, nil
		}
	})

	handle, err := eng.Submit(h)
	require.NoError(t, err)

	runErr := make(chan error, 1)
	go func() { runErr <- eng.Run(context.Background()) }()

	require.Eventually(t, func() bool {
		return handle.State() == strand.TaskWaiting
	}, 2*time.Second, time.Millisecond)

	require.NoError(t, eng.PublishExternal("facade.ping", "pong"))

	require.NoError(t, <-runErr)
	assert.Equal(t, "pong", <-received)
}

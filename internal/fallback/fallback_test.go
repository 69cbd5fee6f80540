package fallback

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constant(name string, value []int, err error, calls *[]string) Strategy[[]int] {
	return Strategy[[]int]{
		Name: name,
		Run: func(ctx context.Context) ([]int, error) {
			*calls = append(*calls, name)
			return value, err
		},
	}
}

func TestFirstAcceptedStopsAtFirstAcceptedResult(t *testing.T) {
	var calls []string
	strategies := []Strategy[[]int]{
		constant("first", nil, errors.New("timeout"), &calls),
		constant("second", []int{}, nil, &calls),
		constant("third", []int{7, 8}, nil, &calls),
		constant("fourth", []int{9}, nil, &calls),
	}

	value, outcome, err := FirstAccepted(context.Background(), strategies, NonEmpty[int])
	require.NoError(t, err)
	assert.Equal(t, []int{7, 8}, value)
	assert.Equal(t, "third", outcome.Winner)
	assert.Equal(t, 3, outcome.Tried())
	assert.Equal(t, []string{"first", "second", "third"}, calls)
	assert.ErrorIs(t, outcome.Attempts[1].Err, ErrRejected)
}

func TestFirstAcceptedExhausted(t *testing.T) {
	var calls []string
	cause := errors.New("connection refused")
	strategies := []Strategy[[]int]{
		constant("first", []int{}, nil, &calls),
		constant("second", nil, cause, &calls),
	}

	value, outcome, err := FirstAccepted(context.Background(), strategies, NonEmpty[int])
	assert.ErrorIs(t, err, ErrNoneAccepted)
	assert.ErrorIs(t, err, cause)
	assert.Nil(t, value)
	assert.Empty(t, outcome.Winner)
	assert.Equal(t, 2, outcome.Tried())
}

func TestFirstAcceptedNoStrategies(t *testing.T) {
	_, outcome, err := FirstAccepted[[]int](context.Background(), nil, NonEmpty[int])
	assert.ErrorIs(t, err, ErrNoneAccepted)
	assert.Equal(t, 0, outcome.Tried())
}

func TestFirstAcceptedHonorsCancellation(t *testing.T) {
	var calls []string
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := FirstAccepted(ctx, []Strategy[[]int]{
		constant("first", []int{1}, nil, &calls),
	}, NonEmpty[int])

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, calls)
}

func TestFirstAcceptedRunsLocalStrategiesAfterCancellation(t *testing.T) {
	var calls []string
	ctx, cancel := context.WithCancel(context.Background())

	network := Strategy[[]int]{Name: "network", Run: func(context.Context) ([]int, error) {
		calls = append(calls, "network")
		cancel()
		return nil, context.Canceled
	}}
	remote := constant("remote", []int{2}, nil, &calls)
	local := constant("local", []int{3}, nil, &calls)
	local.Local = true

	value, outcome, err := FirstAccepted(ctx, []Strategy[[]int]{network, remote, local}, NonEmpty[int])

	require.NoError(t, err)
	assert.Equal(t, []int{3}, value)
	assert.Equal(t, "local", outcome.Winner)
	assert.Equal(t, []string{"network", "local"}, calls)
}

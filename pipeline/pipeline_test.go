// SPDX-License-Identifier: GPL-3.0-or-later

package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposePropagatesValue(t *testing.T) {
	double := Adapter[int, int](func(_ context.Context, n int) (int, error) { return n * 2, nil })
	toString := Adapter[int, string](func(_ context.Context, n int) (string, error) {
		if n > 100 {
			return "", errors.New("too big")
		}
		return "ok", nil
	})

	pipe := Compose2[int, int, string](double, toString)
	out, err := pipe.Call(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
}

func TestComposeShortCircuitsOnError(t *testing.T) {
	boom := errors.New("boom")
	fails := Adapter[int, int](func(context.Context, int) (int, error) { return 0, boom })
	called := false
	next := Adapter[int, int](func(context.Context, int) (int, error) {
		called = true
		return 0, nil
	})

	_, err := Compose2[int, int, int](fails, next).Call(context.Background(), 1)
	assert.ErrorIs(t, err, boom)
	assert.False(t, called)
}

func TestConst(t *testing.T) {
	fn := Const[string]("fixed")
	out, err := fn.Call(context.Background(), Unit{})
	require.NoError(t, err)
	assert.Equal(t, "fixed", out)
}

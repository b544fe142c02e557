package assets

import (
	"context"
	"errors"
	"image/color"
	"runtime"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Park52/webgl-lab/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTexturesFromDisk(t *testing.T) {
	dir := t.TempDir()
	red := writePNG(t, dir, "red.png", solidImage(2, 2, color.RGBA{255, 0, 0, 255}))
	blue := writePNG(t, dir, "blue.png", solidImage(4, 4, color.RGBA{0, 0, 255, 255}))

	l := NewLoader(WithWorkers(2))
	texs, err := l.LoadTextures(context.Background(), red, blue, red)
	require.NoError(t, err)
	require.Len(t, texs, 3)

	assert.EqualValues(t, 2, texs[0].Width)
	assert.EqualValues(t, 4, texs[1].Width)
	assert.Equal(t, []byte{0, 0, 255, 255}, texs[1].Pixels[0:4])
	assert.Equal(t, texs[0].Pixels, texs[2].Pixels)
}

func TestLoadTexturesKeepsInputOrder(t *testing.T) {
	// Later paths finish first.
	decode := func(path string) (*common.TextureStagingData, error) {
		n := len(path)
		time.Sleep(time.Duration(10-n) * 5 * time.Millisecond)
		return &common.TextureStagingData{Width: uint32(n), Height: 1, Pixels: make([]byte, n*4)}, nil
	}
	l := NewLoader(WithWorkers(4), WithDecoder(decode))

	paths := []string{"a", "bb", "ccc", "dddd", "eeeee"}
	texs, err := l.LoadTextures(context.Background(), paths...)
	require.NoError(t, err)
	for i, tex := range texs {
		assert.EqualValues(t, len(paths[i]), tex.Width)
	}
}

func TestLoadTexturesFirstErrorWins(t *testing.T) {
	errA := errors.New("a failed")
	errC := errors.New("c failed")
	decode := func(path string) (*common.TextureStagingData, error) {
		switch path {
		case "a":
			time.Sleep(20 * time.Millisecond)
			return nil, errA
		case "c":
			return nil, errC
		}
		return &common.TextureStagingData{Width: 1, Height: 1, Pixels: make([]byte, 4)}, nil
	}
	l := NewLoader(WithWorkers(3), WithDecoder(decode))

	texs, err := l.LoadTextures(context.Background(), "b", "a", "c")
	assert.Nil(t, texs)
	assert.ErrorIs(t, err, errA)
}

func TestLoadTexturesContextCancelled(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	decode := func(string) (*common.TextureStagingData, error) {
		<-release
		return &common.TextureStagingData{Width: 1, Height: 1, Pixels: make([]byte, 4)}, nil
	}
	l := NewLoader(WithWorkers(1), WithDecoder(decode))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := l.LoadTextures(ctx, "slow")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLoadTextureAfterIdle(t *testing.T) {
	var calls atomic.Int32
	decode := func(path string) (*common.TextureStagingData, error) {
		calls.Add(1)
		return &common.TextureStagingData{Width: 1, Height: 1, Pixels: make([]byte, 4)}, nil
	}
	l := NewLoader(WithWorkers(4), WithIdleTimeout(10*time.Millisecond), WithDecoder(decode))

	_, err := l.LoadTexture(context.Background(), "one")
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)
	_, err = l.LoadTexture(context.Background(), "two")
	require.NoError(t, err)

	assert.EqualValues(t, 2, calls.Load())
}

func TestLoadTexturesStopsWorkers(t *testing.T) {
	decode := func(string) (*common.TextureStagingData, error) {
		return &common.TextureStagingData{Width: 1, Height: 1, Pixels: make([]byte, 4)}, nil
	}
	l := NewLoader(WithWorkers(3), WithIdleTimeout(10*time.Millisecond), WithDecoder(decode))

	before := runtime.NumGoroutine()
	for range 50 {
		_, err := l.LoadTextures(context.Background(), "a", "b", "c")
		require.NoError(t, err)
	}

	assert.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= before
	}, 2*time.Second, 10*time.Millisecond, "worker goroutines still running")
}

func TestLoadTexturesEmpty(t *testing.T) {
	texs, err := NewLoader().LoadTextures(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, texs)
}

func TestLoadTextureDecodeError(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/bad.png"
	require.NoError(t, writeFile(path, "garbage"))

	_, err := NewLoader().LoadTexture(context.Background(), path)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "bad.png"))
}

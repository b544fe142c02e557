package engine

import (
	"context"
	"testing"

	"github.com/Park52/webgl-lab/common"
	"github.com/Park52/webgl-lab/engine/lab"
	"github.com/Park52/webgl-lab/engine/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestController(t *testing.T) (*Controller, router.Router) {
	t.Helper()
	r := router.NewRouter(nil)
	lab.Register(r, []lab.Entry{
		{Path: "/triangle", Title: "Triangle Rasterization", New: lab.NewTriangleLab},
		{Path: "/transform", Title: "2D Transforms", New: lab.NewTransformLab},
	})
	t.Cleanup(r.Close)
	return NewController(r), r
}

func TestControllerDigitsNavigate(t *testing.T) {
	c, r := newTestController(t)
	ctx := context.Background()

	require.NoError(t, c.HandleKey(ctx, common.Key2))
	path, _ := r.Active()
	assert.Equal(t, "/transform", path)

	require.NoError(t, c.HandleKey(ctx, common.Key1))
	path, _ = r.Active()
	assert.Equal(t, "/triangle", path)

	// no ninth route
	require.NoError(t, c.HandleKey(ctx, common.Key9))
	path, _ = r.Active()
	assert.Equal(t, "/triangle", path)
}

func TestControllerArrowsCycleRoutes(t *testing.T) {
	c, r := newTestController(t)
	ctx := context.Background()
	require.NoError(t, c.HandleKey(ctx, common.Key1))

	require.NoError(t, c.HandleKey(ctx, common.KeyRight))
	path, _ := r.Active()
	assert.Equal(t, "/transform", path)

	require.NoError(t, c.HandleKey(ctx, common.KeyRight))
	path, _ = r.Active()
	assert.Equal(t, "/triangle", path)

	require.NoError(t, c.HandleKey(ctx, common.KeyLeft))
	path, _ = r.Active()
	assert.Equal(t, "/transform", path)
}

func TestControllerSliderBindings(t *testing.T) {
	c, _ := newTestController(t)
	ctx := context.Background()
	require.NoError(t, c.HandleKey(ctx, common.Key2))

	params := c.ActiveLab().Params()
	assert.Equal(t, lab.ParamTranslateX, c.Selected())

	require.NoError(t, c.HandleKey(ctx, common.KeyUp))
	assert.InDelta(t, 0.01, params.Get(lab.ParamTranslateX), 1e-6)

	require.NoError(t, c.HandleKey(ctx, common.KeyTab))
	require.NoError(t, c.HandleKey(ctx, common.KeyTab))
	assert.Equal(t, lab.ParamAngle, c.Selected())

	require.NoError(t, c.HandleKey(ctx, common.KeyDown))
	assert.InDelta(t, -1, params.Get(lab.ParamAngle), 1e-6)

	require.NoError(t, c.HandleKey(ctx, common.KeyR))
	assert.Zero(t, params.Get(lab.ParamTranslateX))
	assert.Zero(t, params.Get(lab.ParamAngle))
}

func TestControllerTabWraps(t *testing.T) {
	c, _ := newTestController(t)
	ctx := context.Background()
	require.NoError(t, c.HandleKey(ctx, common.Key2))

	for i := 0; i < 5; i++ {
		require.NoError(t, c.HandleKey(ctx, common.KeyTab))
	}
	assert.Equal(t, lab.ParamTranslateX, c.Selected())
}

func TestControllerSelectionResetsOnRouteChange(t *testing.T) {
	c, _ := newTestController(t)
	ctx := context.Background()
	require.NoError(t, c.HandleKey(ctx, common.Key2))
	require.NoError(t, c.HandleKey(ctx, common.KeyTab))
	assert.Equal(t, lab.ParamTranslateY, c.Selected())

	require.NoError(t, c.HandleKey(ctx, common.Key1))
	require.NoError(t, c.HandleKey(ctx, common.Key2))
	assert.Equal(t, lab.ParamTranslateX, c.Selected())
}

func TestControllerWithoutSliders(t *testing.T) {
	c, _ := newTestController(t)
	ctx := context.Background()

	// nothing mounted yet
	assert.NoError(t, c.HandleKey(ctx, common.KeyUp))
	assert.Equal(t, "WebGL Lab", c.Status("WebGL Lab"))

	require.NoError(t, c.HandleKey(ctx, common.Key1))
	assert.NoError(t, c.HandleKey(ctx, common.KeyTab))
	assert.NoError(t, c.HandleKey(ctx, common.KeyUp))
	assert.Empty(t, c.Selected())
	assert.Equal(t, "WebGL Lab | Triangle Rasterization", c.Status("WebGL Lab"))
}

func TestControllerStatus(t *testing.T) {
	c, _ := newTestController(t)
	require.NoError(t, c.HandleKey(context.Background(), common.Key2))

	assert.Equal(t, "WebGL Lab | 2D Transforms | Translate X: 0.00", c.Status("WebGL Lab"))
}

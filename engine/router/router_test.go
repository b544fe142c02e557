package router

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	events []string
}

func (r *recorder) add(e string) { r.events = append(r.events, e) }

type fakeView struct {
	name     string
	rec      *recorder
	startErr error
}

func (v *fakeView) Start(context.Context) error {
	v.rec.add("start " + v.name)
	return v.startErr
}

func (v *fakeView) Stop() {
	v.rec.add("stop " + v.name)
}

func factory(name string, rec *recorder) Factory {
	return func() (View, error) {
		return &fakeView{name: name, rec: rec}, nil
	}
}

func newTestRouter(rec *recorder, opts ...RouterBuilderOption) Router {
	outlet := OutletFunc(func(path string, view View) {
		if view == nil {
			rec.add("clear")
			return
		}
		rec.add("mount " + path)
	})
	opts = append([]RouterBuilderOption{
		WithRoute("/triangle", factory("triangle", rec)),
		WithRoute("/sphere", factory("sphere", rec)),
	}, opts...)
	return NewRouter(outlet, opts...)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "/"},
		{"#", "/"},
		{"#/", "/"},
		{"/", "/"},
		{"#/sphere", "/sphere"},
		{"/sphere", "/sphere"},
		{"sphere", "/sphere"},
		{"#/sphere/", "/sphere"},
		{"#/sphere?stacks=4", "/sphere"},
		{"  #/texture  ", "/texture"},
		{"#/labs/sphere", "/labs/sphere"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNavigateLifecycleOrder(t *testing.T) {
	rec := &recorder{}
	r := newTestRouter(rec)
	ctx := context.Background()

	require.NoError(t, r.Navigate(ctx, "#/triangle"))
	require.NoError(t, r.Navigate(ctx, "#/sphere"))

	assert.Equal(t, []string{
		"start triangle",
		"mount /triangle",
		"stop triangle",
		"clear",
		"start sphere",
		"mount /sphere",
	}, rec.events)

	path, view := r.Active()
	assert.Equal(t, "/sphere", path)
	assert.Equal(t, "sphere", view.(*fakeView).name)
}

func TestNavigateSamePathIsNoop(t *testing.T) {
	rec := &recorder{}
	r := newTestRouter(rec)
	ctx := context.Background()

	require.NoError(t, r.Navigate(ctx, "#/sphere"))
	require.NoError(t, r.Navigate(ctx, "sphere"))
	require.NoError(t, r.Navigate(ctx, "/sphere/"))

	assert.Equal(t, []string{"start sphere", "mount /sphere"}, rec.events)
}

func TestNavigateDefaultRoute(t *testing.T) {
	rec := &recorder{}
	r := newTestRouter(rec, WithDefault("triangle"))

	require.NoError(t, r.Navigate(context.Background(), "#/"))
	path, _ := r.Active()
	assert.Equal(t, "/triangle", path)
}

func TestNavigateUnknownRoute(t *testing.T) {
	rec := &recorder{}
	r := newTestRouter(rec)

	err := r.Navigate(context.Background(), "#/nope")
	assert.ErrorIs(t, err, ErrRouteNotFound)
	assert.Empty(t, rec.events)

	path, view := r.Active()
	assert.Empty(t, path)
	assert.Nil(t, view)
}

func TestNavigateUnknownKeepsActiveView(t *testing.T) {
	rec := &recorder{}
	r := newTestRouter(rec)
	require.NoError(t, r.Navigate(context.Background(), "#/sphere"))

	assert.ErrorIs(t, r.Navigate(context.Background(), "#/nope"), ErrRouteNotFound)
	path, _ := r.Active()
	assert.Equal(t, "/sphere", path)
}

func TestNavigateFallback(t *testing.T) {
	rec := &recorder{}
	r := newTestRouter(rec, WithFallback("/triangle"))

	require.NoError(t, r.Navigate(context.Background(), "#/nope"))
	path, _ := r.Active()
	assert.Equal(t, "/triangle", path)

	r = newTestRouter(&recorder{}, WithFallback("/missing"))
	assert.ErrorIs(t, r.Navigate(context.Background(), "#/nope"), ErrRouteNotFound)
}

func TestNavigateStartFailureClearsOutlet(t *testing.T) {
	rec := &recorder{}
	boom := errors.New("boom")
	r := newTestRouter(rec)
	r.Handle("/broken", func() (View, error) {
		return &fakeView{name: "broken", rec: rec, startErr: boom}, nil
	})

	require.NoError(t, r.Navigate(context.Background(), "#/triangle"))
	err := r.Navigate(context.Background(), "#/broken")
	assert.ErrorIs(t, err, boom)

	assert.Equal(t, []string{
		"start triangle",
		"mount /triangle",
		"stop triangle",
		"clear",
		"start broken",
		"stop broken",
	}, rec.events)

	path, view := r.Active()
	assert.Empty(t, path)
	assert.Nil(t, view)
}

func TestNavigateFactoryError(t *testing.T) {
	boom := errors.New("no gpu")
	r := NewRouter(nil, WithRoute("/x", func() (View, error) { return nil, boom }))
	assert.ErrorIs(t, r.Navigate(context.Background(), "x"), boom)
}

func TestRoutesKeepsRegistrationOrder(t *testing.T) {
	rec := &recorder{}
	r := newTestRouter(rec)
	r.Handle("texture", factory("texture", rec))
	r.Handle("/triangle", factory("triangle2", rec))

	assert.Equal(t, []string{"/triangle", "/sphere", "/texture"}, r.Routes())
}

func TestClose(t *testing.T) {
	rec := &recorder{}
	r := newTestRouter(rec)
	require.NoError(t, r.Navigate(context.Background(), "#/sphere"))

	r.Close()
	r.Close()

	assert.Equal(t, []string{"start sphere", "mount /sphere", "stop sphere", "clear"}, rec.events)
	_, view := r.Active()
	assert.Nil(t, view)
}

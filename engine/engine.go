package engine

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Park52/webgl-lab/common"
	"github.com/Park52/webgl-lab/engine/lab"
	"github.com/Park52/webgl-lab/engine/profiler"
	"github.com/Park52/webgl-lab/engine/renderer"
	"github.com/Park52/webgl-lab/engine/router"
	"github.com/Park52/webgl-lab/engine/window"
)

// keyQueueSize bounds the key presses buffered between two ticks. Extra presses are dropped.
const keyQueueSize = 64

// engine implements the Engine interface.
// Coordinates the tick, render and window threads.
type engine struct {
	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running atomic.Bool
	wg      sync.WaitGroup

	quitChannel  chan struct{}
	quitOnce     sync.Once // Ensures quitChannel is only closed once
	shutdownOnce sync.Once

	ctx    context.Context
	cancel context.CancelFunc

	window     window.Window
	presenter  renderer.Presenter
	router     router.Router
	controller *Controller
	keys       chan uint32

	title      string
	startRoute string

	profiler         *profiler.Profiler
	profilingEnabled atomic.Bool

	engineTickRate time.Duration
	tickCallback   func(deltaTime float32)
	renderCallback func(deltaTime float32)

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
}

// Engine is the main entry point for the lab.
// It owns the router, the presenter and the window, and runs the tick and render loops.
type Engine interface {
	// Window returns the underlying window, or nil when running headless.
	Window() window.Window

	// Router returns the route table the number keys navigate.
	Router() router.Router

	// Controller returns the key binding controller.
	Controller() *Controller

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the engine tick rate in ticks per second.
	// Key presses are applied and the tick callback runs at this rate.
	//
	// Parameters:
	//   - fps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers a function called each engine tick after key presses are applied.
	//
	// Parameters:
	//   - callback: function to call at the configured tick rate, receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers a function called each render frame after the lab is drawn.
	//
	// Parameters:
	//   - callback: function to call each render frame, receiving the delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// KeyDown queues a key press for the next tick. The window's key callback calls this.
	//
	// Parameters:
	//   - keyCode: a common.Key* code
	KeyDown(keyCode uint32)

	// Run navigates to the start route, starts the loops and blocks until the window closes
	// or Quit is called. On return the active lab is stopped and the presenter released.
	//
	// Returns:
	//   - error: the start route's navigation error
	Run() error

	// Quit signals all engine goroutines to stop.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine instance with the provided options.
// Without WithRouter the engine gets an empty router; without WithPresenter nothing is drawn.
//
// Parameters:
//   - options: functional options for engine configuration (window, presenter, router, rates)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		keys:            make(chan uint32, keyQueueSize),
		wg:              sync.WaitGroup{},
		profiler:        profiler.NewProfiler(),
		engineTickRate:  time.Second / 60,
		title:           "WebGL Lab",
	}
	e.ctx, e.cancel = context.WithCancel(context.Background())

	for _, opt := range options {
		opt(e)
	}

	if e.router == nil {
		e.router = router.NewRouter(nil)
	}
	e.controller = NewController(e.router)

	if e.window != nil {
		// runs on the main thread, the only place the window may be destroyed
		e.window.SetUpdateCallback(func() {
			select {
			case <-e.quitChannel:
				e.wg.Wait()
				e.shutdown()
			default:
			}
		})
		e.window.SetKeyDownCallback(e.KeyDown)
		e.window.SetResizeCallback(func(width, height int) {
			if e.presenter != nil {
				e.presenter.Resize(width, height)
			}
		})
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Router() router.Router {
	return e.router
}

func (e *engine) Controller() *Controller {
	return e.controller
}

func (e *engine) KeyDown(keyCode uint32) {
	select {
	case e.keys <- keyCode:
	default:
	}
}

func (e *engine) Run() error {
	if err := e.router.Navigate(e.ctx, e.startRoute); err != nil {
		e.shutdown()
		return err
	}

	e.running.Store(true)
	e.handle()
	if e.window != nil {
		e.window.ProcessMessages()
		e.signalQuit()
	}
	e.wg.Wait()
	e.shutdown()
	return nil
}

// shutdown stops the active lab, releases the presenter and closes the window, in that
// order. Must only run after the loops have exited.
func (e *engine) shutdown() {
	e.shutdownOnce.Do(func() {
		e.cancel()
		e.router.Close()
		if e.presenter != nil {
			e.presenter.Release()
		}
		if e.window != nil {
			if err := e.window.Close(); err != nil {
				common.Logger().Debug("engine: close window", "err", err)
			}
		}
	})
}

// Quit signals all engine goroutines to stop. With a window, the message loop closes it on
// its next iteration. Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.running.Store(false)
		close(e.quitChannel)
	})
}

// handle launches the engine, render, and quit goroutines.
// Each goroutine is tracked by the engine's WaitGroup.
func (e *engine) handle() {
	e.wg.Add(3)
	go e.handleEngine()
	go e.handleRender()
	go e.handleQuit()
}

// handleEngine runs the fixed-rate tick loop. Each tick applies the queued key presses,
// refreshes the window title and fires the tick callback. Listens for rate changes via
// tickRateChannel and exits when the quit channel is closed.
func (e *engine) handleEngine() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()

	lastTick := time.Now()
	lastStatus := ""

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now

			e.drainKeys()

			if e.window != nil {
				if status := e.controller.Status(e.title); status != lastStatus {
					e.window.SetTitle(status)
					lastStatus = status
				}
			}

			if e.tickCallback != nil {
				e.tickCallback(dt)
			}
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.engineTickRate = newRate
		}
	}
}

func (e *engine) drainKeys() {
	for {
		select {
		case key := <-e.keys:
			if err := e.controller.HandleKey(e.ctx, key); err != nil {
				common.Logger().Warn("engine: key binding failed", "key", key, "err", err)
			}
		default:
			return
		}
	}
}

// handleRender runs the uncapped (or frame-limited) render loop in its own goroutine.
// Pulls a Frame from the active lab and hands it to the presenter.
// Recovers from panics to avoid crashing the process and signals quit on recovery.
func (e *engine) handleRender() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			common.Logger().Error("engine: render goroutine recovered from panic", "panic", r)
			e.signalQuit()
		}
	}()

	lastRender := time.Now()
	lastErr := ""

	for {
		select {
		case <-e.quitChannel:
			return
		default:
			now := time.Now()
			dt := float32(now.Sub(lastRender).Seconds())
			lastRender = now

			if err := e.renderFrame(dt); err != nil {
				// a lost swapchain repeats every frame until the next resize
				if msg := err.Error(); msg != lastErr {
					common.Logger().Warn("engine: frame skipped", "err", err)
					lastErr = msg
				}
			} else {
				lastErr = ""
			}

			if e.renderCallback != nil {
				e.renderCallback(dt)
			}

			if e.profilingEnabled.Load() && e.profiler != nil {
				e.profiler.Tick()
			}

			if e.renderFrameLimit > 0 {
				elapsed := time.Since(lastRender)
				if remaining := e.renderFrameLimit - elapsed; remaining > 0 {
					time.Sleep(remaining)
				}
			} else if e.presenter == nil {
				// nothing paces a headless loop
				time.Sleep(time.Millisecond)
			}
		}
	}
}

// renderFrame draws the active lab once. A stopped or missing lab is not an error.
func (e *engine) renderFrame(dt float32) error {
	l := e.controller.ActiveLab()
	if l == nil {
		return nil
	}
	frame, err := l.Frame(dt, e.aspect())
	if errors.Is(err, lab.ErrNotStarted) {
		return nil
	}
	if err != nil {
		return err
	}
	if e.presenter == nil {
		return nil
	}
	return e.presenter.Draw(frame)
}

func (e *engine) aspect() float32 {
	if e.window == nil {
		return 1
	}
	w, h := e.window.Width(), e.window.Height()
	if w <= 0 || h <= 0 {
		return 1
	}
	return float32(w) / float32(h)
}

// handleQuit blocks until the quit channel is closed, then decrements the WaitGroup.
func (e *engine) handleQuit() {
	defer e.wg.Done()
	<-e.quitChannel
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled.Store(true)
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled.Store(false)
}

// SetTickRate sets the engine tick rate in ticks per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Duration(float64(time.Second) / fps)

	if e.running.Load() {
		// Non-blocking send - if channel is full, replace the pending value
		select {
		case e.tickRateChannel <- newRate:
		default:
			select {
			case <-e.tickRateChannel:
			default:
			}
			e.tickRateChannel <- newRate
		}
	} else {
		e.engineTickRate = newRate
	}
}

// SetTickCallback registers the function called each engine tick.
func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

// SetRenderCallback registers the function called each render frame.
func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.renderCallback = callback
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}

package lab

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/Park52/webgl-lab/common"
)

// ErrUnknownParam is returned when a slider key is not part of a lab's parameter set.
var ErrUnknownParam = errors.New("lab: unknown parameter")

// Slider describes one numeric control of a lab. Value always lies in [Min, Max].
// A positive Step snaps values onto the grid Min + k*Step.
type Slider struct {
	Key   string
	Label string
	Min   float32
	Max   float32
	Step  float32
	Value float32
}

// snap clamps v into the slider range and rounds it onto the step grid.
func (s Slider) snap(v float32) float32 {
	v = common.Clamp(v, s.Min, s.Max)
	if s.Step > 0 {
		v = s.Min + float32(math.Round(float64((v-s.Min)/s.Step)))*s.Step
		v = common.Clamp(v, s.Min, s.Max)
	}
	return v
}

// Params is the ordered, concurrency-safe slider set of a lab. Writers and the render loop
// share it; the last write wins. Version increases on every change that alters a value.
type Params struct {
	mu       sync.Mutex
	sliders  []Slider
	defaults []float32
	index    map[string]int
	version  uint64
}

// NewParams creates a parameter set from the given sliders. Initial values are snapped into
// range and remembered as the defaults restored by Reset.
//
// Parameters:
//   - sliders: the controls in display order; keys must be unique
//
// Returns:
//   - *Params: the parameter set
func NewParams(sliders ...Slider) *Params {
	p := &Params{
		sliders:  make([]Slider, len(sliders)),
		defaults: make([]float32, len(sliders)),
		index:    make(map[string]int, len(sliders)),
	}
	for i, s := range sliders {
		if _, dup := p.index[s.Key]; dup {
			panic(fmt.Sprintf("lab: duplicate parameter key %q", s.Key))
		}
		s.Value = s.snap(s.Value)
		p.sliders[i] = s
		p.defaults[i] = s.Value
		p.index[s.Key] = i
	}
	return p
}

// Set assigns a value to a slider after clamping and snapping it.
//
// Parameters:
//   - key: the slider key
//   - v: the requested value
//
// Returns:
//   - float32: the value actually stored
//   - error: ErrUnknownParam if key does not exist
func (p *Params) Set(key string, v float32) (float32, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	i, ok := p.index[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownParam, key)
	}
	return p.setLocked(i, v), nil
}

// Nudge moves a slider by steps multiples of its Step (or 1% of its range when Step is 0).
//
// Parameters:
//   - key: the slider key
//   - steps: signed number of steps
//
// Returns:
//   - float32: the value actually stored
//   - error: ErrUnknownParam if key does not exist
func (p *Params) Nudge(key string, steps int) (float32, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	i, ok := p.index[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownParam, key)
	}
	s := p.sliders[i]
	step := s.Step
	if step <= 0 {
		step = (s.Max - s.Min) / 100
	}
	return p.setLocked(i, s.Value+float32(steps)*step), nil
}

func (p *Params) setLocked(i int, v float32) float32 {
	v = p.sliders[i].snap(v)
	if p.sliders[i].Value != v {
		p.sliders[i].Value = v
		p.version++
		common.Logger().Debug("lab: parameter changed", "key", p.sliders[i].Key, "value", v)
	}
	return v
}

// Get returns the current value of a slider, or 0 for an unknown key.
func (p *Params) Get(key string) float32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if i, ok := p.index[key]; ok {
		return p.sliders[i].Value
	}
	return 0
}

// Reset restores every slider to its initial value.
func (p *Params) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.sliders {
		p.setLocked(i, p.defaults[i])
	}
}

// Snapshot returns a copy of the sliders in display order.
func (p *Params) Snapshot() []Slider {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Slider, len(p.sliders))
	copy(out, p.sliders)
	return out
}

// Keys returns the slider keys in display order.
func (p *Params) Keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.sliders))
	for i, s := range p.sliders {
		out[i] = s.Key
	}
	return out
}

// Len returns the number of sliders.
func (p *Params) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.sliders)
}

// Version returns a counter that increases whenever any value changes.
func (p *Params) Version() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.version
}

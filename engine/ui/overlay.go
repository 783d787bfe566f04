package ui

import (
	"errors"
	"fmt"
	"sync"
)

// ErrElementNotFound is returned when an overlay element id has not been registered.
var ErrElementNotFound = errors.New("ui: element not found")

// Element is a named, togglable overlay element.
type Element struct {
	ID      string
	Label   string
	Visible bool
}

// ChangeFunc observes a visibility change of one element.
type ChangeFunc func(id string, visible bool)

// overlay is the implementation of the Overlay interface.
type overlay struct {
	mu        sync.RWMutex
	order     []string
	elements  map[string]*Element
	listeners []ChangeFunc
}

// Overlay is a set of named elements drawn over the scene, such as a loading or welcome screen.
// Toggles are idempotent and listeners only hear about real changes.
type Overlay interface {
	// Register adds an element, or replaces the label and visibility of an existing one.
	//
	// Parameters:
	//   - id: the element id
	//   - label: the text shown while the element is visible
	//   - visible: the initial visibility
	Register(id, label string, visible bool)

	// Show makes an element visible.
	//
	// Parameters:
	//   - id: the element id
	//
	// Returns:
	//   - error: ErrElementNotFound for an unknown id
	Show(id string) error

	// Hide makes an element invisible.
	//
	// Parameters:
	//   - id: the element id
	//
	// Returns:
	//   - error: ErrElementNotFound for an unknown id
	Hide(id string) error

	// Visible reports the visibility of an element.
	//
	// Parameters:
	//   - id: the element id
	//
	// Returns:
	//   - bool: true if visible
	//   - error: ErrElementNotFound for an unknown id
	Visible(id string) (bool, error)

	// Elements returns a copy of every element in registration order.
	//
	// Returns:
	//   - []Element: the elements
	Elements() []Element

	// VisibleLabels returns the labels of visible elements in registration order.
	//
	// Returns:
	//   - []string: the labels
	VisibleLabels() []string

	// OnChange registers a listener for visibility changes.
	//
	// Parameters:
	//   - fn: the listener, called outside the overlay lock
	OnChange(fn ChangeFunc)
}

var _ Overlay = &overlay{}

// NewOverlay creates an Overlay with the given options applied.
//
// Parameters:
//   - options: functional options to configure the overlay
//
// Returns:
//   - Overlay: the new overlay
func NewOverlay(options ...OverlayBuilderOption) Overlay {
	o := &overlay{
		elements: make(map[string]*Element),
	}
	for _, opt := range options {
		opt(o)
	}
	return o
}

func (o *overlay) Register(id, label string, visible bool) {
	o.mu.Lock()
	el, ok := o.elements[id]
	if !ok {
		o.order = append(o.order, id)
		o.elements[id] = &Element{ID: id, Label: label, Visible: visible}
		o.mu.Unlock()
		return
	}
	el.Label = label
	changed := el.Visible != visible
	el.Visible = visible
	listeners := o.snapshotListeners()
	o.mu.Unlock()

	if changed {
		notify(listeners, id, visible)
	}
}

func (o *overlay) Show(id string) error {
	return o.setVisible(id, true)
}

func (o *overlay) Hide(id string) error {
	return o.setVisible(id, false)
}

func (o *overlay) setVisible(id string, visible bool) error {
	o.mu.Lock()
	el, ok := o.elements[id]
	if !ok {
		o.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrElementNotFound, id)
	}
	if el.Visible == visible {
		o.mu.Unlock()
		return nil
	}
	el.Visible = visible
	listeners := o.snapshotListeners()
	o.mu.Unlock()

	notify(listeners, id, visible)
	return nil
}

func (o *overlay) Visible(id string) (bool, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	el, ok := o.elements[id]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrElementNotFound, id)
	}
	return el.Visible, nil
}

func (o *overlay) Elements() []Element {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make([]Element, 0, len(o.order))
	for _, id := range o.order {
		out = append(out, *o.elements[id])
	}
	return out
}

func (o *overlay) VisibleLabels() []string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	var out []string
	for _, id := range o.order {
		if el := o.elements[id]; el.Visible {
			out = append(out, el.Label)
		}
	}
	return out
}

func (o *overlay) OnChange(fn ChangeFunc) {
	if fn == nil {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.listeners = append(o.listeners, fn)
}

// snapshotListeners must be called with o.mu held.
func (o *overlay) snapshotListeners() []ChangeFunc {
	return append([]ChangeFunc(nil), o.listeners...)
}

func notify(listeners []ChangeFunc, id string, visible bool) {
	for _, fn := range listeners {
		fn(id, visible)
	}
}

package markerfeed

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyRendered is returned by every Render call after the first.
	ErrAlreadyRendered = errors.New("feed already rendered")
	// ErrMarkersNotFound means the page has no markers declaration.
	ErrMarkersNotFound = errors.New("markers not found")
	// ErrMarkersEndNotFound means the markers are never passed to initMap.
	ErrMarkersEndNotFound = errors.New("markers end not found")
	// ErrOptionsNotFound means the page has no options literal.
	ErrOptionsNotFound = errors.New("map options not found")
	// ErrMountNotFound means neither the options nor the page name a mount element.
	ErrMountNotFound = errors.New("map mount target not found")
)

// FeedError records the operation that produced err.
type FeedError struct {
	Op  string
	Err error
}

func (e *FeedError) Error() string {
	return fmt.Sprintf("markerfeed %s: %v", e.Op, e.Err)
}

func (e *FeedError) Unwrap() error {
	return e.Err
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &FeedError{Op: op, Err: err}
}

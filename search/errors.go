package search

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrTimeout marks requests that expired before the provider answered.
// Every other failure stays a generic engine error.
var ErrTimeout = errors.New("search request timed out")

// ErrNoResults is returned by the aggregator when every engine in the
// chain failed or came back empty.
var ErrNoResults = errors.New("no results from any engine")

// EngineError wraps any failure from a single engine adapter.
type EngineError struct {
	Engine string
	Op     string
	Err    error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("engine %s: %s: %v", e.Engine, e.Op, e.Err)
}

func (e *EngineError) Unwrap() error { return e.Err }

// classify folds transport failures into the two error kinds the callers
// distinguish: timeout and everything else.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return err
}

func engineErr(engine, op string, err error) error {
	return &EngineError{Engine: engine, Op: op, Err: classify(err)}
}

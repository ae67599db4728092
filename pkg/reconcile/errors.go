package reconcile

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/vango-dev/vtree/internal/errors"
)

// Sentinel errors. Errors returned by the runtime match these with
// errors.Is.
var (
	ErrUnknownKind     = errors.New("E001")
	ErrNilBehavior     = errors.New("E002")
	ErrExpansionDepth  = errors.New("E003")
	ErrChainDepth      = errors.New("E004")
	ErrComponentPanic  = errors.New("E005")
	ErrInvalidParent   = errors.New("E006")
	ErrUnknownBehavior = errors.New("E007")
)

// fatal carries an error raised deep inside a diff up to the entry point
// that started it.
type fatal struct {
	err error
}

func throw(err *errors.TreeError) {
	panic(fatal{err: err})
}

// recovered converts a recovered panic value into an error.
func (r *Runtime) recovered(rec any) error {
	switch v := rec.(type) {
	case fatal:
		return v.err
	case *errors.TreeError:
		return v
	}
	r.logger.Error("component panicked",
		"panic", rec,
		"stack", string(debug.Stack()),
	)
	return errors.New("E005").WithDetail(fmt.Sprint(rec))
}

// report hands an error from work nobody is waiting on to the Error hook,
// or logs it.
func (r *Runtime) report(err error) {
	if err == nil {
		return
	}
	if r.hooks.Error != nil {
		r.hooks.Error(err)
		return
	}
	r.logger.Error("deferred render failed", slog.Any("error", err))
}

package errors

import (
	"github.com/hashicorp/go-multierror"
)

// Aggregate collects independent errors from an operation that touches
// several resources and must not stop at the first failure, such as disk
// discovery scanning a directory of images. It is a thin wrapper around multierror.Append so call sites
// don't need to import hashicorp/go-multierror directly.
type Aggregate struct {
	inner *multierror.Error
}

// NewAggregate returns an empty Aggregate.
func NewAggregate() *Aggregate {
	return &Aggregate{}
}

// Add appends err to the aggregate if it is non-nil. Calling Add on a nil
// *Aggregate receiver is not supported; always use NewAggregate.
func (a *Aggregate) Add(err error) {
	if err == nil {
		return
	}
	a.inner = multierror.Append(a.inner, err)
}

// ErrorOrNil returns nil if no errors were added, otherwise an error
// whose Error() lists every failure collected.
func (a *Aggregate) ErrorOrNil() error {
	if a.inner == nil {
		return nil
	}
	return a.inner.ErrorOrNil()
}

// Len reports how many errors have been collected so far.
func (a *Aggregate) Len() int {
	if a.inner == nil {
		return 0
	}
	return len(a.inner.Errors)
}

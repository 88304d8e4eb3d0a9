package errors_test

import (
	goerrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Novice06/vfs-simulator/errors"
)

func TestDriverErrorWithMessage(t *testing.T) {
	err := errors.ErrNotFound.WithMessage("/mydir/msg.txt")
	assert.Equal(t, "no such file or directory: /mydir/msg.txt", err.Error())
	assert.Equal(t, errors.ENOENT, err.Errno())
}

func TestDriverErrorWrap(t *testing.T) {
	original := goerrors.New("short read")
	err := errors.ErrGeneric.Wrap(original)

	assert.Equal(t, "generic driver error: short read", err.Error())
	assert.Equal(t, original, err.Unwrap())
}

func TestFromErrnoRoundTrip(t *testing.T) {
	cases := []errors.DriverError{
		errors.ErrNotFound,
		errors.ErrExists,
		errors.ErrPermissionDenied,
		errors.ErrIsADirectory,
		errors.ErrNotADirectory,
		errors.ErrTooManyOpenFiles,
		errors.ErrInvalidFileDescriptor,
		errors.ErrOutOfMemory,
	}

	for _, sentinel := range cases {
		assert.Equal(t, sentinel, errors.FromErrno(sentinel.Errno()))
	}
}

func TestToErrnoNil(t *testing.T) {
	assert.Equal(t, errors.OK, errors.ToErrno(nil))
}

func TestToErrnoPlainError(t *testing.T) {
	assert.Equal(t, errors.ERROR, errors.ToErrno(goerrors.New("boom")))
}

func TestAggregateEmptyIsNil(t *testing.T) {
	agg := errors.NewAggregate()
	assert.Nil(t, agg.ErrorOrNil())
	assert.Equal(t, 0, agg.Len())
}

func TestAggregateCollectsErrors(t *testing.T) {
	agg := errors.NewAggregate()
	agg.Add(goerrors.New("first"))
	agg.Add(nil)
	agg.Add(goerrors.New("second"))

	assert.Equal(t, 2, agg.Len())
	assert.Error(t, agg.ErrorOrNil())
}

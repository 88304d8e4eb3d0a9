// Package errors defines the error taxonomy shared by every layer of the
// VFS: the block device registry, the VFS dispatch layer, and the
// filesystem drivers. Every sentinel here carries the signed integer code
// from the original vfs_simulator contract so callers that need the legacy
// return values (see the scenario tests in spec.md) can still get them.
package errors

import "fmt"

// Errno is one of the legacy signed-integer return codes the VFS API used
// before errors became first-class Go values.
type Errno int

const (
	OK      Errno = 0
	ERROR   Errno = -1
	ENOENT  Errno = -2
	EEXIST  Errno = -3
	EACCESS Errno = -4
	EISDIR  Errno = -9
	ENOTDIR Errno = -10
	ENFILE  Errno = -11
	EBADF   Errno = -12
	ENOMEM  Errno = -13
)

// DriverError is the interface every sentinel error in this package
// satisfies. It behaves like a normal Go error but also remembers its
// legacy errno code and supports attaching extra context without losing
// either.
type DriverError interface {
	error
	Errno() Errno
	WithMessage(message string) DriverError
	Wrap(err error) DriverError
	Unwrap() error
}

// vfsError is a sentinel error: a fixed errno code with a default message.
// WithMessage/Wrap return copies carrying extra context, the same way
// DiskoError.WithMessage does in the teacher library.
type vfsError struct {
	code          Errno
	message       string
	originalError error
}

func (e vfsError) Error() string {
	return e.message
}

func (e vfsError) Errno() Errno {
	return e.code
}

func (e vfsError) WithMessage(message string) DriverError {
	return vfsError{
		code:    e.code,
		message: fmt.Sprintf("%s: %s", e.message, message),
	}
}

func (e vfsError) Wrap(err error) DriverError {
	return vfsError{
		code:          e.code,
		message:       fmt.Sprintf("%s: %s", e.message, err.Error()),
		originalError: err,
	}
}

func (e vfsError) Unwrap() error {
	return e.originalError
}

func newSentinel(code Errno, message string) DriverError {
	return vfsError{code: code, message: message}
}

// Sentinel errors, one per code in spec.md §7.
var (
	ErrGeneric               = newSentinel(ERROR, "generic driver error")
	ErrNotFound              = newSentinel(ENOENT, "no such file or directory")
	ErrExists                = newSentinel(EEXIST, "file exists")
	ErrPermissionDenied      = newSentinel(EACCESS, "permission denied")
	ErrIsADirectory          = newSentinel(EISDIR, "is a directory")
	ErrNotADirectory         = newSentinel(ENOTDIR, "not a directory")
	ErrTooManyOpenFiles      = newSentinel(ENFILE, "too many open files")
	ErrInvalidFileDescriptor = newSentinel(EBADF, "bad file descriptor")
	ErrOutOfMemory           = newSentinel(ENOMEM, "vnode cache is full and no slot is evictable")
)

// FromErrno maps a legacy errno code back to its sentinel error, for code
// that only has the integer (e.g. decoding a value returned across the
// old C-shaped boundary). Returns ErrGeneric for unrecognized codes.
func FromErrno(code Errno) DriverError {
	switch code {
	case OK:
		return nil
	case ENOENT:
		return ErrNotFound
	case EEXIST:
		return ErrExists
	case EACCESS:
		return ErrPermissionDenied
	case EISDIR:
		return ErrIsADirectory
	case ENOTDIR:
		return ErrNotADirectory
	case ENFILE:
		return ErrTooManyOpenFiles
	case EBADF:
		return ErrInvalidFileDescriptor
	case ENOMEM:
		return ErrOutOfMemory
	default:
		return ErrGeneric
	}
}

// ToErrno extracts the legacy errno code from any error. Errors that don't
// implement DriverError are treated as ERROR.
func ToErrno(err error) Errno {
	if err == nil {
		return OK
	}
	if driverErr, ok := err.(DriverError); ok {
		return driverErr.Errno()
	}
	return ERROR
}

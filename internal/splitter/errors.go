package splitter

import (
	"context"
	"errors"

	"github.com/tanq16/nxsplit/internal/size"
)

var (
	ErrUnsupportedFile      = errors.New("unsupported file")
	ErrOutputDirNotWritable = errors.New("output directory not writable")
	ErrRead                 = errors.New("read error")
	ErrWrite                = errors.New("write error")
	ErrTooManyParts         = errors.New("too many parts")
)

// KindOf maps an engine error onto its reported kind.
func KindOf(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrUnsupportedFile):
		return KindUnsupportedFile
	case errors.Is(err, ErrOutputDirNotWritable):
		return KindOutputDirNotWritable
	case errors.Is(err, ErrRead):
		return KindReadError
	case errors.Is(err, ErrWrite):
		return KindWriteError
	case errors.Is(err, ErrTooManyParts):
		return KindTooManyParts
	case errors.Is(err, size.ErrNonPositiveSize):
		return KindInvalidSize
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCancelled
	default:
		return KindUnknown
	}
}

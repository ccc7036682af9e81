package burstpick

import "errors"

var (
	// ErrSourceDir reports a missing or unreadable source directory.
	ErrSourceDir = errors.New("source directory unavailable")
	// ErrDecode reports an image that could not be decoded.
	ErrDecode = errors.New("image decode failed")
	// ErrEmptyImage reports an image with zero width or height.
	ErrEmptyImage = errors.New("image has no pixels")
	// ErrDestinationExists reports a relocation that would overwrite a file.
	ErrDestinationExists = errors.New("destination already exists")
	// ErrRelocate reports a relocation that failed after its retry.
	ErrRelocate = errors.New("relocation failed")

	// ErrDecodeFailures is returned by RunSummary.Err when frames could not be decoded.
	ErrDecodeFailures = errors.New("one or more images failed to decode")
	// ErrRelocateFailures is returned by RunSummary.Err when files could not be relocated.
	ErrRelocateFailures = errors.New("one or more files failed to relocate")
	// ErrGroupPanics is returned by RunSummary.Err when a group was abandoned after a panic.
	ErrGroupPanics = errors.New("one or more groups panicked")
)

// Failure stages recorded in RunSummary.
const (
	StageDecode   = "decode"
	StageRelocate = "relocate"
	StageManifest = "manifest"
	StagePanic    = "panic"
)

// Failure is a per-path error recorded during a run.
type Failure struct {
	Path  string
	Stage string
	Err   error
}

func (f Failure) Error() string {
	return f.Stage + " " + f.Path + ": " + f.Err.Error()
}

func (f Failure) Unwrap() error { return f.Err }

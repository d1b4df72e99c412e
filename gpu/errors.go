package gpu

import "errors"

// Resource-layer errors.
var (
	// ErrNotInitialized is returned when the backend has not been
	// initialized.
	ErrNotInitialized = errors.New("gpu: backend not initialized")

	// ErrNoGPU is returned when no suitable GPU adapter is found.
	ErrNoGPU = errors.New("gpu: no suitable GPU adapter found")

	// ErrInvalidTextureSize is returned for zero or oversized atlas
	// allocation requests.
	ErrInvalidTextureSize = errors.New("gpu: invalid texture size")

	// ErrFormatSetNotFound is returned when allocating from a pixel
	// format the manager has no atlas for.
	ErrFormatSetNotFound = errors.New("gpu: format set not found")

	// ErrFormatSetExists is returned when adding a pixel format twice.
	ErrFormatSetExists = errors.New("gpu: format set already exists")

	// ErrAllocationFailed is returned when an atlas cannot fit the
	// request even after growing to its layer limit.
	ErrAllocationFailed = errors.New("gpu: allocation failed, not enough space")

	// ErrAtlasClosed is returned when operating on a closed atlas.
	ErrAtlasClosed = errors.New("gpu: atlas is closed")

	// ErrInvalidSlotSize is returned when creating a buffer atlas with
	// a non-positive slot size.
	ErrInvalidSlotSize = errors.New("gpu: invalid buffer slot size")

	// ErrSlotSizeMismatch is returned when storing data of the wrong
	// length into a buffer slot.
	ErrSlotSizeMismatch = errors.New("gpu: data length does not match slot size")

	// ErrHandleReleased is returned when operating on a released handle.
	ErrHandleReleased = errors.New("gpu: handle has been released")

	// ErrUploadSizeMismatch is returned when uploaded pixel data does
	// not match the region dimensions.
	ErrUploadSizeMismatch = errors.New("gpu: pixel data does not match region size")
)

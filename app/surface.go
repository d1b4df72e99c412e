package app

// Surface is the presentable render target a host integration owns:
// a wgpu swapchain surface, or an off-screen texture in tests and
// embeddings.
type Surface interface {
	// Acquire prepares the target for the next frame and reports its
	// pixel size. Acquisition may fail transiently (surface lost,
	// window resizing); the window retries once per frame.
	Acquire() (width, height int, err error)

	// Present shows the submitted frame.
	Present() error
}

package interfaces

// Renderer displays the progress of concurrent downloads
type Renderer interface {
	// Create adds a new bar at 0%
	Create(filename string) Bar

	// Stop finishes the display. It is safe to call more than once.
	Stop()
}

// Bar is the progress state of a single download
type Bar interface {
	Update(percent float64)
	Complete()
	Fail(err error)

	// Retire freezes the bar. It stays on screen but ignores further updates.
	Retire()
}

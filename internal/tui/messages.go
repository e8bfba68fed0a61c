package tui

// NavigatedMsg is sent when a navigator operation finished.
type NavigatedMsg struct {
	Op  string
	Err error
}

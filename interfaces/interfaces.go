package interfaces

// ViewNotifier notifies a view of a modified view model:
type ViewNotifier interface {
	NotifyView(view string, viewModel interface{})
}

// StatusProvider replays current view models to a newly attached notifier
// and serves per-game screenshots.
type StatusProvider interface {
	NotifyViewTo(viewNotifier ViewNotifier)
	LatestScreenshot(definition string) ([]byte, bool)
}

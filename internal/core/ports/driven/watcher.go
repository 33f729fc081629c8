package driven

import "context"

// FileOperation describes what happened to a watched file.
type FileOperation int

// File operations reported by a FolderWatcher.
const (
	FileCreated FileOperation = iota
	FileModified
	FileDeleted
)

// FileEvent is one change to a file inside a watched folder.
type FileEvent struct {
	Path      string
	Operation FileOperation
}

// FolderWatcher reports file changes inside a directory.
type FolderWatcher interface {
	// Watch emits events until ctx is cancelled, then closes the channel.
	Watch(ctx context.Context, dir string) (<-chan FileEvent, error)

	// Close releases the underlying watcher.
	Close() error
}

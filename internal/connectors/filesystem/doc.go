// Package filesystem implements driven.FolderWatcher on top of fsnotify.
//
// Editors and copy tools usually emit a Create followed by several Write
// events for a single file. The watcher coalesces events per path and only
// reports a file once it has been quiet for the debounce interval.
package filesystem

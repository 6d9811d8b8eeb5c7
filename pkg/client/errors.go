package client

import "errors"

var (
	// ErrDaemonNotRunning means nothing is listening on the socket.
	ErrDaemonNotRunning = errors.New("daemon not running")

	// ErrPermissionDenied means the socket exists but belongs to someone else.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotFound means the daemon does not serve the requested path,
	// usually because it is an older version.
	ErrNotFound = errors.New("404 not found")
)

// Package rclone drives the external rclone binary, the engine that owns all
// actual sync semantics.
//
// The package covers four concerns:
//   - [Client] : locating the binary and running short management commands
//     (version, listremotes, config create, size) against the managed
//     rclone.conf via the RCLONE_CONFIG environment variable.
//   - [Request] : translating a sync request (mode, remote, local folder,
//     options) into the exact argument list rclone expects. Bidirectional
//     runs use bisync with a dedicated workdir; one-way runs use copy.
//   - [Process] : supervising a long-running invocation with line-by-line
//     output streaming, graceful termination, and exit code extraction.
//   - [StatsTracker] : recovering transfer statistics (bytes, percent,
//     speed, ETA, file counts) from rclone's periodic stats lines.
//
// Validation helpers enforce the remote-name format and the local-path
// allow-list before anything reaches the subprocess boundary.
package rclone

// Package models defines the domain entities and their persistence contracts.
//
// [SyncRun] is the central entity: one row per rclone invocation, recording
// what was synced, how it ended, and how much data moved. The generic
// [Repository] interface is implemented in internal/repositories.
package models

// Package backup implements the rolling file backup mechanism used by the
// configuration write pipeline.
//
// Each protected file gets up to five numbered siblings, <path>.bak.1
// (newest) through <path>.bak.5 (oldest). Before every overwrite the engine
// calls Backup, which rotates the slots and copies the current content into
// slot 1. Backing up a nonexistent file is a no-op, so first writes create
// no backup noise.
package backup

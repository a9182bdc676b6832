// Package platform defines the adapter contract between the engine and
// vendor-specific configuration stores, and the registry tracking which
// adapters are available and which one is active.
package platform

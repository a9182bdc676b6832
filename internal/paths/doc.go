// Package paths provides cross-platform path resolution for loadout's own
// files (session state database, configuration file) and for workspace
// discovery.
//
// The package wraps github.com/adrg/xdg for XDG Base Directory compliance.
// On Linux and macOS, paths follow XDG conventions (~/.config,
// ~/.local/share, ~/.cache).
//
// Vendor-specific configuration paths (where Claude Code keeps its MCP
// config at each scope, where skills live, ...) are the concern of the
// platform adapters, not of this package.
package paths

// Package version resolves the server's build version string, reported in
// the MCP server info and at bootstrap.
package version

import (
	"fmt"
	"runtime/debug"
)

// fallback is used for local builds that carry no module metadata. Override
// at link time: -ldflags "-X .../pkg/version.fallback=v1.2.3".
var fallback = "dev"

// Version returns the module version from embedded build info when present,
// otherwise the fallback.
func Version() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Sum != "" && info.Main.Version != "" {
		return info.Main.Version
	}
	return fallback
}

// UserAgent renders a product token like "leadlens/v1.2.3" for outbound
// requests to the CSV export.
func UserAgent() string {
	return fmt.Sprintf("leadlens/%s", Version())
}

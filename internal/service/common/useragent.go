//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"fmt"
	"runtime"

	"github.com/oshokin/llc-launcher/internal/version"
)

// UserAgent identifies the launcher to registries and mirrors.
func UserAgent() string {
	return fmt.Sprintf("llc-launcher/%s (%s; %s)", version.Short(), runtime.GOOS, runtime.GOARCH)
}

package app

import "fmt"

// Version, Commit, and BuildTime are stamped at build time:
//
//	go build -ldflags "-X github.com/jelyk/wortschatz-backend/internal/app.Version=1.2.0"
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// BuildVersion formats the stamped build info for the startup log and
// the /health payload.
func BuildVersion() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildTime)
}

// Package version holds build metadata injected via ldflags.
package version

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// UserAgent returns the default User-Agent value sent with API requests.
func UserAgent() string {
	return "visient-go/" + Version
}

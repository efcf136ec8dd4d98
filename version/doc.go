// Package version reports which toolbelt build is running.
//
// Release builds stamp Version, Commit and Date through the linker:
//
//	go build -ldflags "-X github.com/dendrascience/toolbelt/version.Version=v0.4.0 \
//	  -X github.com/dendrascience/toolbelt/version.Commit=$(git rev-parse HEAD) \
//	  -X github.com/dendrascience/toolbelt/version.Date=$(date -u +%FT%TZ)"
//
// Unstamped builds fall back to the module version and VCS settings the go
// command records in the binary. The version string is also written into
// every archive summary so a manifest names the tool that produced it.
package version

// Package version reports the build version of flowkit binaries.
//
// Version, commit and build time are set at link time:
//
//	go build -ldflags "-X github.com/kbukum/flowkit/version.Version=1.0.0" ./cmd/flowrun
//
// Values left unset fall back to the VCS stamp embedded by the Go toolchain.
package version

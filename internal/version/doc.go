// Package version exposes build metadata for zxp-packager.
//
// Version, Commit and BuildTime are set with -ldflags at release time. Local
// builds fall back to the VCS stamp the go command records in the binary.
package version

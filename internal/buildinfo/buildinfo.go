// Package buildinfo exposes build metadata injected at link time via
// -ldflags, e.g.:
//
//	go build -ldflags "-X github.com/herblock/herblock/internal/buildinfo.buildVersion=v1.0.0"
package buildinfo

import (
	"cmp"
	"fmt"
	"io"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

// PrintBuildData writes the build metadata to w, printing "N/A" for
// anything the build did not set.
func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", cmp.Or(buildVersion, "N/A"))
	fmt.Fprintf(w, "Build date: %s\n", cmp.Or(buildDate, "N/A"))
	fmt.Fprintf(w, "Build commit: %s\n", cmp.Or(buildCommit, "N/A"))
}

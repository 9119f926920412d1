// Package toolinfo reports this analyzer's identity for the --info
// flag spec.md §6 names: tool name, version, group, tags, and
// platform, printed one per line in that order.
package toolinfo

import (
	"fmt"
	"io"
	"runtime"
	"strings"
)

const (
	// Name identifies this analyzer to the JPAMB harness.
	Name = "jpamb-go"
	// Version is this analyzer's own version, independent of the Go
	// toolchain or module versions it depends on.
	Version = "0.1.0"
	// Group is the course/competition group name this submission is
	// attributed to.
	Group = "Group JPAMB-Go"
)

// Tags lists the analysis techniques this tool implements.
var Tags = []string{"concrete", "abstract", "symbolic"}

// Platform describes the runtime this binary is running on.
func Platform() string {
	return fmt.Sprintf("%s (%s), %s", runtime.GOOS, runtime.GOARCH, runtime.Version())
}

// Lines renders the five info lines in the mandated order: name,
// version, group, comma-joined tags, platform.
func Lines() []string {
	return []string{Name, Version, Group, strings.Join(Tags, ","), Platform()}
}

// Print writes Lines to w, one per line.
func Print(w io.Writer) error {
	for _, l := range Lines() {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}

package main

import (
	"fmt"
	"strconv"
)

// Set through -ldflags "-X main.gitSHA1=..." at build time.
var (
	gitSHA1   string = "unknown"
	gitDirty  string = "unknown"
	buildID   string = "unknown"
	buildDate string = "unknown"
)

const chainsetVersion = "1.0.0"

// versionString appends git details when they were set at build time.
func versionString() string {
	version := chainsetVersion
	if sha1Int, err := strconv.ParseUint(gitSHA1, 16, 64); err == nil && sha1Int != 0 {
		version = fmt.Sprintf("%s (git:%s", version, gitSHA1)
		if dirtyInt, err := strconv.ParseInt(gitDirty, 10, 64); err == nil && dirtyInt != 0 {
			version += "-dirty"
		}
		version += ")"
	}
	if buildID != "unknown" {
		version = fmt.Sprintf("%s build:%s", version, buildID)
	}
	if buildDate != "unknown" {
		version = fmt.Sprintf("%s built %s", version, buildDate)
	}
	return version
}

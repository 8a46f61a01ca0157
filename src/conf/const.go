// Package conf contains the constants that are used across packages for
// versions and default checker behaviour.
package conf

import (
	"fmt"
	"time"

	"github.com/lestrrat-go/strftime"
)

const (
	// VERSION is the version of the subty application.
	VERSION = "subty 0.1.0"
	// VERSIONMAJORN is the major version.
	VERSIONMAJORN = 0
	// VERSIONMINORN is the minor version.
	VERSIONMINORN = 1
	// VERSIONPATCHN is the patch version.
	VERSIONPATCHN = 0
	// DEFAULTPACKAGE is the package unqualified declarations belong to.
	DEFAULTPACKAGE = "main"
	// CHECKCAPS enables reference capability checks by default.
	CHECKCAPS = true
	// GUARDCYCLES enables the provided trait cycle guard by default.
	GUARDCYCLES = true
	// TRACEINDENT is the indentation used per nesting level in traces.
	TRACEINDENT = "  "
	// TRACETIMEFORMAT is the strftime layout that prefixes trace lines.
	TRACETIMEFORMAT = "%H:%M:%S"
)

var yearFormat, _ = strftime.New("%Y")

// FullVersion returns the version and copyright.
func FullVersion() string {
	return fmt.Sprintf("%v %v", VERSION, Copyright())
}

// Copyright is the copyright to be written out in the CLI.
func Copyright() string {
	return fmt.Sprintf("Copyright (C) %v", yearFormat.FormatString(time.Now()))
}

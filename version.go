package spotcheck

import _ "embed"

// Version is the released version of spotcheck.
//
//go:embed VERSION
var Version string

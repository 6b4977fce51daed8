package shaders

import (
	_ "embed"
)

//go:embed trace.wgsl
var TraceWGSL string

//go:embed present.wgsl
var PresentWGSL string

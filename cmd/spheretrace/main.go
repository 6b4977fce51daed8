package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/gekko3d/spheretrace"
)

func init() {
	// glfw and the surface must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	if err := spheretrace.RunCLI(os.Args, os.Stdout, os.Stderr, spheretrace.Launch); err != nil {
		fmt.Fprintf(os.Stderr, "spheretrace: %v\n", err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"
)

func main() {
	err := Execute()
	if log != nil {
		// Best-effort: console-encoded zap loggers routinely fail to
		// sync stderr on Linux, so a Sync error here isn't actionable.
		_ = log.Sync()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

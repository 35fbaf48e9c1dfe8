// Command photonforge renders scenes described either by a declarative YAML
// file or by one of the built-in demo scenes, via the path tracer or the
// two-pass photon-mapping renderer.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

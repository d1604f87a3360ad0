// Command roteadord runs one instance of the link-state routing daemon.
//
// Usage:
//
//	roteadord run [--log-level LEVEL]
//
// An optional TOML overlay file is named by the ROUTER_CONFIG environment
// variable.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "roteadord",
		Short: "A link-state routing daemon for a virtual router fabric",
	}
	root.AddCommand(newRunCmd())
	return root
}

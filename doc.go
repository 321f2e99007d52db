/*
Package cascade is a lifecycle engine for tree-shaped command-line tools.

It runs a chain of commands through a three-phase lifecycle (PreRun, Run,
PostRun), recursing from the invoked subcommand's root ancestor down to the
subcommand itself. Setup runs top-down, cleanup runs bottom-up, and cleanup is
skipped entirely when any phase fails, so a half-initialized chain is never
torn down as if it had fully started.

# Concept

A Command is a node that knows its own three hooks plus, optionally, a
successor. Execute walks the chain: it calls PreRun and Run on the current
node, recurses into the successor, and calls PostRun only once everything
beneath succeeded. Errors are returned to the caller unchanged, whichever
phase and whichever node produced them.

The package does not parse flags or arguments itself. The Attach helper binds
a Command to a cobra command, deriving the chain from the cobra parent chain
at invocation time, so an existing cobra tree gains lifecycle semantics
without restructuring.

# Key Features

  - Three-phase lifecycle: PreRun and Run root-first, PostRun leaf-first.
  - Fail-fast traversal: the first error stops the walk and skips all cleanup.
  - Transparent errors: hook errors reach the caller unwrapped.
  - Cobra integration: Attach wires the lifecycle into *cobra.Command trees.

# Usage

Embed Base to pick up no-op defaults and override the hooks you need.

	package main

	import (
		"context"
		"fmt"
		"os"

		"github.com/dverney/cascade"
	)

	type connect struct {
		cascade.Base
	}

	func (c *connect) PreRun() error {
		fmt.Println("dialing")
		return nil
	}

	func (c *connect) Run(ctx context.Context) error {
		fmt.Println("working")
		return nil
	}

	func (c *connect) PostRun() error {
		fmt.Println("closing")
		return nil
	}

	func main() {
		if err := cascade.Execute(context.Background(), &connect{}); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
*/
package cascade

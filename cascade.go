package cascade

import (
	"context"
)

// Command is a single node in a lifecycle chain. Implementations typically
// embed Base and override the hooks they care about.
type Command interface {
	// PreRun performs setup. It runs before Run, and before any successor
	// is touched.
	PreRun() error

	// Run performs the command's main work.
	Run(ctx context.Context) error

	// PostRun performs cleanup. It runs only after this command and every
	// successor completed all phases without error.
	PostRun() error

	// Next returns the successor command, or nil for the end of the chain.
	// The terminator must be an untyped nil: a nil *T wrapped in the
	// interface is non-nil and keeps the walk going.
	Next() Command
}

// Base is a no-op Command meant for embedding. It satisfies the full
// interface so implementations only declare the hooks they need.
type Base struct{}

// PreRun implements Command.
func (Base) PreRun() error { return nil }

// Run implements Command.
func (Base) Run(context.Context) error { return nil }

// PostRun implements Command.
func (Base) PostRun() error { return nil }

// Next implements Command.
func (Base) Next() Command { return nil }

// Execute walks the chain starting at cmd: PreRun and Run on each node from
// the head down, then PostRun from the tail back up. The first error from any
// hook aborts the walk and is returned to the caller unchanged. No PostRun
// runs after a failure, including on nodes whose own phases had already
// succeeded; cleanup is an all-or-nothing affair that only a fully successful
// traversal earns.
func Execute(ctx context.Context, cmd Command) error {
	if cmd == nil {
		return nil
	}

	if err := cmd.PreRun(); err != nil {
		return err
	}

	if err := cmd.Run(ctx); err != nil {
		return err
	}

	if next := cmd.Next(); next != nil {
		if err := Execute(ctx, next); err != nil {
			return err
		}
	}

	return cmd.PostRun()
}

// Chain links commands into a single traversal path, overriding each
// command's own Next. It returns the head of the chain, or nil when called
// with no commands.
func Chain(cmds ...Command) Command {
	if len(cmds) == 0 {
		return nil
	}

	head := &link{Command: cmds[0]}
	cur := head
	for _, c := range cmds[1:] {
		n := &link{Command: c}
		cur.next = n
		cur = n
	}
	return head
}

// link decorates a Command with an explicit successor. The embedded command's
// own Next is deliberately shadowed: Chain alone decides the order.
type link struct {
	Command
	next Command
}

func (l *link) Next() Command { return l.next }

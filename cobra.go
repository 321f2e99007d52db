package cascade

import (
	"sync"

	"github.com/spf13/cobra"
)

// ArgsReceiver is implemented by commands that want the positional arguments
// left over after flag parsing. Attach delivers them to the invoked command
// before the lifecycle starts.
type ArgsReceiver interface {
	ReceiveArgs(args []string)
}

var (
	regMu    sync.Mutex
	attached = map[*cobra.Command]Command{}
)

// Attach binds c to cc. When cc is invoked, the lifecycle runs over every
// attached command on the path from cc's root ancestor down to cc itself, in
// that order. Ancestors without an attached command are skipped.
//
// Attach replaces cc.RunE; flag registration and argument validation stay
// with cobra. Call it during command construction, before Execute.
func Attach(cc *cobra.Command, c Command) {
	regMu.Lock()
	attached[cc] = c
	regMu.Unlock()

	cc.RunE = func(cmd *cobra.Command, args []string) error {
		return Execute(cmd.Context(), pathChain(cmd, args))
	}
}

// pathChain collects the attached commands along cmd's ancestry and chains
// them root-first. Positional arguments go to the invoked command only.
func pathChain(cmd *cobra.Command, args []string) Command {
	var cmds []Command

	regMu.Lock()
	for cc := cmd; cc != nil; cc = cc.Parent() {
		if c, ok := attached[cc]; ok {
			cmds = append(cmds, c)
		}
	}
	regMu.Unlock()

	// Collected leaf-first; the traversal wants the root at the head.
	for i, j := 0, len(cmds)-1; i < j; i, j = i+1, j-1 {
		cmds[i], cmds[j] = cmds[j], cmds[i]
	}

	if len(cmds) > 0 {
		if ar, ok := cmds[len(cmds)-1].(ArgsReceiver); ok {
			ar.ReceiveArgs(args)
		}
	}

	return Chain(cmds...)
}

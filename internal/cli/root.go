package cli

import (
	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X ...cli.Version=...".
var Version = "dev"

// NewRootCmd builds the command tree. extra commands, such as the windowed
// viewer, are added alongside the built-in ones.
func NewRootCmd(o *Options, extra ...*cobra.Command) *cobra.Command {
	root := &cobra.Command{
		Use:   "glowtree",
		Short: "Grow a glowing procedural tree",
		Long: `glowtree grows a 3D branching structure one generation per frame and
renders it as glowing lines. Growth stops when the tree reaches its radius
limit or runs out of tips.`,
		SilenceUsage: true,
	}
	o.BindFlags(root)

	root.AddCommand(newGrowCmd(o), newConfigCmd(o), newVersionCmd())
	root.AddCommand(extra...)
	return root
}

// Package cmd implements the command-line interface for vfskit.
package cmd

import (
	"path/filepath"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/vfs-kit/vfskit/history"
	"github.com/vfs-kit/vfskit/log"
	"github.com/vfs-kit/vfskit/tui"
	"github.com/vfs-kit/vfskit/vfs"
	"github.com/vfs-kit/vfskit/where"
)

func init() {
	rootCmd.AddCommand(browseCmd)

	browseCmd.Flags().StringP("root", "r", "", "Host directory to anchor the VFS at (created when missing)")
	browseCmd.Flags().BoolP("memory", "m", false, "Use the in-memory backend instead of a host directory")
	browseCmd.Flags().BoolP("keep", "k", false, "Keep created artifacts on the host after exit (disables auto-clean)")
	browseCmd.MarkFlagsMutuallyExclusive("root", "memory")
}

// browseCmd opens the interactive browser over a virtual filesystem.
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Interactively browse a virtual filesystem",
	Run: func(cmd *cobra.Command, args []string) {
		backend, name := openBackend(cmd)
		defer func() {
			handleErr(backend.Close())
		}()

		if err := history.Save(backend.Root(), name); err != nil {
			log.Warnf("history: %v", err)
		}

		handleErr(tui.Run(&tui.Options{Backend: backend}))
	},
}

// openBackend constructs the backend selected by the browse flags.
func openBackend(cmd *cobra.Command) (vfs.Backend, string) {
	if lo.Must(cmd.Flags().GetBool("memory")) {
		return vfs.NewMap(), "map"
	}

	root := lo.Must(cmd.Flags().GetString("root"))
	if root == "" {
		root = filepath.Join(where.Temp(), "playground")
	}

	backend, err := vfs.New(root)
	handleErr(err)

	if lo.Must(cmd.Flags().GetBool("keep")) {
		backend.SetAutoClean(false)
	}
	return backend, "dir"
}

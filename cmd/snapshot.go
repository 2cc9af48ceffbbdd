// Package cmd implements the command-line interface for vfskit.
package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/vfs-kit/vfskit/snapshot"
	"github.com/vfs-kit/vfskit/util"
	"github.com/vfs-kit/vfskit/vfs"
)

func init() {
	rootCmd.AddCommand(snapshotCmd)

	snapshotCmd.Flags().StringP("root", "r", "", "Host directory to capture (adopted into a read-through VFS)")
	snapshotCmd.Flags().StringP("path", "p", "/", "Inner path to capture from")
	snapshotCmd.Flags().Bool("schema", false, "Emit the JSON Schema of the snapshot output instead")

	snapshotCmd.SetOut(os.Stdout)
}

// snapshotCmd captures a structured JSON view of a VFS tree.
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Capture a machine-readable JSON snapshot of a virtual filesystem tree",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("schema")) {
			reflector := new(jsonschema.Reflector)
			reflector.Anonymous = true
			schema := reflector.Reflect(&snapshot.Output{})
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(schema))
			return
		}

		root := lo.Must(cmd.Flags().GetString("root"))
		if root == "" {
			handleErr(cmd.Help())
			return
		}

		backend, err := vfs.New(root)
		handleErr(err)
		backend.SetAutoClean(false)
		defer func() {
			handleErr(backend.Close())
		}()

		// Adopt whatever already lives under the root so the capture sees it.
		handleErr(backend.Add("/"))

		inner := lo.Must(cmd.Flags().GetString("path"))
		out, err := snapshot.Build(backend, inner)
		if errors.Is(err, vfs.ErrNotFound) {
			if tracked, treeErr := backend.Tree("/"); treeErr == nil && len(tracked) > 0 {
				handleErr(fmt.Errorf("%w, did you mean %s?", err, util.Closest(inner, tracked)))
			}
		}
		handleErr(err)
		handleErr(out.Write(cmd.OutOrStdout()))
	},
}

// Package main is the entry point for the vfskit application.
package main

import (
	"github.com/samber/lo"

	"github.com/vfs-kit/vfskit/cmd"
	"github.com/vfs-kit/vfskit/config"
	"github.com/vfs-kit/vfskit/log"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}

// Package main is the amvnote entry point.
package main

import (
	"github.com/amvnote/amvnote/cmd"
	"github.com/amvnote/amvnote/config"
	"github.com/amvnote/amvnote/internal/cache"
	"github.com/amvnote/amvnote/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cache.CollectGarbage()

	cmd.Execute()
}

package main

import (
	"fmt"
	"os"

	"invaders/rom"
)

var version = "devel"

func main() {
	cli := parseArgs(os.Args[1:])

	switch cli.mode {
	case romInfosMode:
		set, err := rom.Load(cli.RomInfos.RomPath)
		checkf(err, "failed to load rom set")
		fmt.Print(set)
	case versionMode:
		fmt.Println("invaders", version)
	case runMode:
		emuMain(cli.Run)
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/JordanBelfort38/noabo-sub000/cmd/detect"
	"github.com/JordanBelfort38/noabo-sub000/cmd/exportcmd"
	"github.com/JordanBelfort38/noabo-sub000/cmd/importcmd"
	"github.com/JordanBelfort38/noabo-sub000/cmd/root"
	"github.com/JordanBelfort38/noabo-sub000/cmd/subscriptions"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(importcmd.Cmd)
	root.Cmd.AddCommand(detect.Cmd)
	root.Cmd.AddCommand(subscriptions.Cmd)
	root.Cmd.AddCommand(exportcmd.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

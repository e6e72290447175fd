package main

import (
	"fmt"
	"os"

	"github.com/camrohlof/todolist/internal/cli"
	"github.com/camrohlof/todolist/internal/ui"
)

func main() {
	err := cli.Execute(os.Args[1:], cli.StdStreams())
	if err == nil {
		return
	}
	ui.Fail(os.Stderr, err.Error())
	if cli.IsUsage(err) {
		fmt.Fprintln(os.Stderr, ui.Current().Muted.Render("Hint: run `todo --help` for usage"))
	}
	os.Exit(cli.ExitCode(err))
}

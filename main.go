package main

import (
	"fmt"
	"levyt/command"
	"levyt/command/catalogue"
	"levyt/command/convert"
	"levyt/command/import_discogs"
	"levyt/command/server"
	"levyt/command/version"
	"levyt/command/watch"
	"os"

	"github.com/hashicorp/cli"
)

func main() {

	commands := map[string]cli.CommandFactory{
		"":        command.NewCommand(convert.NewConvertCommand()),
		"convert": command.NewCommand(convert.NewConvertCommand()),
		"watch":   command.NewCommand(watch.NewWatchCommand()),

		"version": command.NewCommand(version.NewVersionCommand()),
		"server":  command.NewCommand(server.NewServerCommand()),

		"import discogs": command.NewCommand(import_discogs.NewImportCommand()),

		"catalogue search": command.NewCommand(catalogue.NewSearchCommand()),
	}

	cli := &cli.CLI{
		Name:                       "levyt",
		Args:                       os.Args[1:],
		Commands:                   commands,
		Autocomplete:               true,
		AutocompleteNoDefaultFlags: false,
	}

	exitCode, err := cli.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error executing CLI: %s\n", err.Error())
	}

	os.Exit(exitCode)
}

package version

import (
	"context"
	"fmt"
	"levyt/config"
	"runtime/debug"

	"github.com/spf13/pflag"
)

func NewVersionCommand() *VersionCommand {
	return &VersionCommand{}
}

type VersionCommand struct {
}

func (c *VersionCommand) Synopsis() string {
	return "print the version"
}

func (c *VersionCommand) Flags() *pflag.FlagSet {
	return pflag.NewFlagSet("version", pflag.ContinueOnError)
}

func (c *VersionCommand) Execute(ctx context.Context, config *config.Config, args []string) error {
	revision, modified := "unknown", ""
	goVersion := ""

	if info, ok := debug.ReadBuildInfo(); ok {
		goVersion = info.GoVersion
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				revision = setting.Value
			case "vcs.time":
				modified = setting.Value
			}
		}
	}

	fmt.Printf("levyt %s (%s, %s)\n", revision, modified, goVersion)

	return nil
}

package main

import (
	"context"
	"flag"
	"os"
	"path"

	"FinScore/internal/cli"
	"FinScore/internal/di"
	"FinScore/pkg/config"

	"github.com/google/subcommands"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	pretty := flag.Bool("pretty", false, "indent JSON output")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")

	env := &cli.Env{
		Load: func() (cli.Engine, func(), error) {
			cfg, err := config.LoadWithEnv(*configPath)
			if err != nil {
				return nil, nil, err
			}
			// Keep stdout clean for the JSON result.
			cfg.Log.Output = "stderr"
			return di.InitializeEngine(cfg)
		},
	}
	for _, c := range cli.Commands(env) {
		commander.Register(c, "scoring")
	}

	flag.Parse()
	env.Indent = *pretty
	os.Exit(int(commander.Execute(context.Background())))
}

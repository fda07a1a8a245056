package main

import (
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	server := &srv{}

	app := &cli.App{
		Name:  "basequest",
		Usage: "Base Quest backend",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Value: "config.toml",
				Usage: "The path of the configuration file",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "api",
				Usage:  "Starts the api server",
				Action: server.startApi,
			},
			{
				Name:   "broadcaster",
				Usage:  "Starts the broadcast event consumer",
				Action: server.startBroadcaster,
			},
			{
				Name:   "migrate",
				Usage:  "Migrates database tables",
				Action: server.migrate,
			},
			{
				Name:   "gen-key",
				Usage:  "Generates a random admin api key",
				Action: server.generateAPIKey,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		panic(err)
	}
}

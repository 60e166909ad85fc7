// submodule cmd contains command definitions
package main

import (
	"time"

	"github.com/urfave/cli/v3"
)

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   defaultConfigPath,
	}
}

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "json",
		Usage: "Output raw JSON",
	}
}

// ingestCommand fetches playlists and stores them
func ingestCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "ingest",
		Aliases:   []string{"load"},
		Usage:     "Fetch playlists from Spotify and store their tracks",
		ArgsUsage: "[playlist id or uri...]",
		Description: "Playlists may be given as bare ids, spotify:playlist:<id> uris or open.spotify.com links.\n" +
			"Without arguments the playlists listed under [playlists] default in the config are ingested.",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:    "token-file",
				Aliases: []string{"t"},
				Usage:   "File whose first line is the bearer token (overrides credentials.token_path)",
			},
			&cli.DurationFlag{
				Name:  "delay",
				Usage: "Minimum delay between page requests (overrides spotify.page_delay)",
				Value: time.Second,
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Tracks requested per page (overrides spotify.page_limit)",
				Value: 5,
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Do not print progress lines",
			},
			jsonFlag(),
		},
		Action: r.Ingest,
	}
}

// dbCommand handles database inspection and maintenance
func dbCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "db",
		Usage: "Database operations",
		Commands: []*cli.Command{
			{
				Name:   "init",
				Usage:  "Create the database file and schema",
				Flags:  []cli.Flag{configFlag()},
				Action: r.DBInit,
			},
			{
				Name:  "wipe",
				Usage: "Drop every table and recreate the empty schema",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:    "yes",
						Aliases: []string{"y"},
						Usage:   "Skip the confirmation prompt",
					},
				},
				Action: r.DBWipe,
			},
			{
				Name:   "tables",
				Usage:  "List tables and views",
				Flags:  []cli.Flag{configFlag(), jsonFlag()},
				Action: r.DBTables,
			},
			{
				Name:   "stats",
				Usage:  "Show row counts per table",
				Flags:  []cli.Flag{configFlag(), jsonFlag()},
				Action: r.DBStats,
			},
			{
				Name:  "sample",
				Usage: "Print the first rows of every table",
				Flags: []cli.Flag{
					configFlag(),
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Rows per table",
						Value:   5,
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format: text, csv or json",
						Value:   "text",
					},
				},
				Action: r.DBSample,
			},
		},
	}
}

// configCommand handles configuration files
func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Write an example config.toml",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Path of the new config file",
						Value:   defaultConfigPath,
					},
				},
				Action: r.ConfigInit,
			},
			{
				Name:   "show",
				Usage:  "Print the effective configuration",
				Flags:  []cli.Flag{configFlag()},
				Action: r.ConfigShow,
			},
		},
	}
}

// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

func serverFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "server",
		Aliases: []string{"s"},
		Usage:   "Base URL of a running discos server; operates on the local database when empty",
		Sources: cli.EnvVars("DISCOS_SERVER"),
	}
}

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "json",
		Usage: "Output raw JSON",
	}
}

func titleFlag(usage string) cli.Flag {
	return &cli.StringFlag{
		Name:     "title",
		Aliases:  []string{"t"},
		Usage:    usage,
		Required: true,
	}
}

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create the configuration file and initialize the database",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Setup,
	}
}

func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the catalog over HTTP",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "host",
				Usage: "Interface to listen on (overrides config)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to listen on (overrides config)",
			},
		},
		Action: r.Serve,
	}
}

// recordsCommand handles catalog operations
func recordsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "records",
		Aliases: []string{"rec"},
		Usage:   "Record catalog operations",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List all records",
				Flags:   []cli.Flag{configFlag(), serverFlag(), jsonFlag()},
				Action:  r.RecordsList,
			},
			{
				Name:   "get",
				Usage:  "Show a record and its tracks by title (case-insensitive)",
				Flags:  []cli.Flag{configFlag(), serverFlag(), jsonFlag(), titleFlag("Title of the record")},
				Action: r.RecordsGet,
			},
			{
				Name:  "add",
				Usage: "Add a record",
				Flags: []cli.Flag{
					configFlag(), serverFlag(), jsonFlag(),
					titleFlag("Title of the record (unique)"),
					&cli.StringFlag{Name: "artist", Aliases: []string{"a"}, Usage: "Artist"},
					&cli.StringFlag{Name: "label", Usage: "Record label"},
					&cli.IntFlag{Name: "track-count", Usage: "Declared number of tracks"},
					&cli.IntFlag{Name: "release-year", Aliases: []string{"y"}, Usage: "Release year"},
					&cli.StringFlag{Name: "origin", Usage: "Country of origin"},
					&cli.StringFlag{Name: "promo", Usage: "Promotional copy (S or N)", Value: "N"},
					&cli.FloatFlag{Name: "price", Usage: "Price"},
					&cli.StringFlag{Name: "notes", Usage: "Free-form notes"},
				},
				Action: r.RecordsAdd,
			},
			{
				Name:    "delete",
				Aliases: []string{"rm"},
				Usage:   "Delete every record matching the title, with its tracks",
				Flags:   []cli.Flag{configFlag(), serverFlag(), jsonFlag(), titleFlag("Title of the record")},
				Action:  r.RecordsDelete,
			},
			{
				Name:  "add-track",
				Usage: "Attach a track to a record",
				Flags: []cli.Flag{
					configFlag(), serverFlag(), jsonFlag(),
					&cli.Int64Flag{Name: "record-id", Aliases: []string{"r"}, Usage: "ID of the record", Required: true},
					&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Track name", Required: true},
					&cli.StringFlag{Name: "version", Usage: "Version (e.g. Album, Ao Vivo)"},
					&cli.StringFlag{Name: "duration", Aliases: []string{"d"}, Usage: "Duration as MM:SS"},
				},
				Action: r.RecordsAddTrack,
			},
			{
				Name:  "export",
				Usage: "Export the catalog with its tracks to the configured storage",
				Flags: []cli.Flag{
					configFlag(), serverFlag(),
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Comma-separated export formats (json, csv, markdown, yaml) or all",
						Value:   "json",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Formats exported concurrently",
						Value: 4,
					},
					&cli.FloatFlag{
						Name:  "rate",
						Usage: "Exports started per second, unlimited when 0",
					},
					&cli.StringFlag{
						Name:  "name",
						Usage: "Object name (defaults to a timestamped name)",
					},
					&cli.BoolFlag{
						Name:  "stdout",
						Usage: "Write the export to stdout instead of storage",
					},
				},
				Action: r.RecordsExport,
			},
			{
				Name:   "exports",
				Usage:  "List exports in the configured storage",
				Flags:  []cli.Flag{configFlag(), jsonFlag()},
				Action: r.RecordsExports,
			},
		},
	}
}

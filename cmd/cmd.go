// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles setup operations for configuration and the sqlite backend.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Create a starter config.toml",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:  "database",
				Usage: "Initialize the sqlite like table",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "path",
						Usage: "Database file path (defaults to table.path)",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage authentication",
		Commands: []*cli.Command{
			{
				Name:   "status",
				Usage:  "Verify the music service token and show the account",
				Action: r.AuthStatus,
			},
			{
				Name:   "google",
				Usage:  "Verify the Google credentials used by the sheets backend",
				Action: r.AuthGoogle,
			},
		},
	}
}

// syncCommand handles like reconciliation operations
func syncCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Reconcile online likes with the table",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Full reconciliation: import online likes, optionally push edits",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "push",
						Usage: "Push checkbox edits back to the music service",
					},
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "Compute the pass without writing the table or pushing",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output the run result as JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.SyncRun,
			},
			{
				Name:  "import",
				Usage: "Import online likes into the table without pushing",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "Compute the pass without writing the table",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output the run result as JSON",
					},
				},
				Action: r.SyncImport,
			},
			{
				Name:  "export",
				Usage: "Push checkbox edits to the music service",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output the result as JSON",
					},
				},
				Action: r.SyncExport,
			},
			{
				Name:  "snapshot",
				Usage: "Fetch the online liked collections and show counts",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output the full snapshot as JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.SyncSnapshot,
			},
		},
	}
}

// tableCommand handles direct table operations
func tableCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "table",
		Usage: "Inspect and manage the like table",
		Commands: []*cli.Command{
			{
				Name:   "init",
				Usage:  "Write the column header into an empty table",
				Action: r.TableInit,
			},
			{
				Name:  "show",
				Usage: "Print the table",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "format",
						Usage: "Output format: text, markdown, csv or json",
						Value: "text",
					},
				},
				Action: r.TableShow,
			},
			{
				Name:  "export",
				Usage: "Export the table to a file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "format",
						Usage: "Export format: csv, markdown or text",
						Value: "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path",
					},
				},
				Action: r.TableExport,
			},
			{
				Name:   "sort",
				Usage:  "Rewrite the table in presentation order",
				Action: r.TableSort,
			},
		},
	}
}

// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func userFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "user",
		Aliases: []string{"u"},
		Usage:   "User whose notes to operate on",
		Value:   "default",
	}
}

// setupCommand initializes the config file and data directory.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create the config file and data directory",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// noteCommand handles note CRUD, search, stats and export.
func noteCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "note",
		Aliases: []string{"n"},
		Usage:   "Note operations",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Add a note",
				Flags: []cli.Flag{
					userFlag(),
					&cli.StringFlag{
						Name:     "title",
						Aliases:  []string{"t"},
						Usage:    "Note title",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "text",
						Usage: "Note body",
					},
					&cli.StringFlag{
						Name:    "category",
						Aliases: []string{"cat"},
						Usage:   "Category id",
						Value:   "general",
					},
					&cli.StringFlag{
						Name:    "priority",
						Aliases: []string{"p"},
						Usage:   "critical, important or normal",
						Value:   "normal",
					},
				},
				Action: r.NoteAdd,
			},
			{
				Name:   "list",
				Usage:  "List notes grouped by category",
				Flags:  []cli.Flag{userFlag()},
				Action: r.NoteList,
			},
			{
				Name:  "edit",
				Usage: "Update fields of a note",
				Flags: []cli.Flag{
					userFlag(),
					&cli.IntFlag{
						Name:     "id",
						Usage:    "Note id",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "title",
						Aliases: []string{"t"},
						Usage:   "New title",
					},
					&cli.StringFlag{
						Name:  "text",
						Usage: "New body",
					},
					&cli.StringFlag{
						Name:    "category",
						Aliases: []string{"cat"},
						Usage:   "New category id",
					},
					&cli.StringFlag{
						Name:    "priority",
						Aliases: []string{"p"},
						Usage:   "New priority",
					},
				},
				Action: r.NoteEdit,
			},
			{
				Name:  "delete",
				Usage: "Delete a note",
				Flags: []cli.Flag{
					userFlag(),
					&cli.IntFlag{
						Name:     "id",
						Usage:    "Note id",
						Required: true,
					},
				},
				Action: r.NoteDelete,
			},
			{
				Name:  "search",
				Usage: "Search notes by title, text or category name",
				Flags: []cli.Flag{
					userFlag(),
					&cli.StringFlag{
						Name:     "query",
						Aliases:  []string{"q"},
						Usage:    "Search query",
						Required: true,
					},
				},
				Action: r.NoteSearch,
			},
			{
				Name:   "stats",
				Usage:  "Show note statistics",
				Flags:  []cli.Flag{userFlag()},
				Action: r.NoteStats,
			},
			{
				Name:  "export",
				Usage: "Export all notes as readable text",
				Flags: []cli.Flag{
					userFlag(),
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (stdout when omitted)",
					},
				},
				Action: r.NoteExport,
			},
		},
	}
}

// categoryCommand handles category management.
func categoryCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "category",
		Aliases: []string{"cat"},
		Usage:   "Category operations",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Add a category",
				Flags: []cli.Flag{
					userFlag(),
					&cli.StringFlag{
						Name:     "name",
						Aliases:  []string{"n"},
						Usage:    "Display name",
						Required: true,
					},
				},
				Action: r.CategoryAdd,
			},
			{
				Name:   "list",
				Usage:  "List categories",
				Flags:  []cli.Flag{userFlag()},
				Action: r.CategoryList,
			},
			{
				Name:  "rename",
				Usage: "Rename a category, keeping its id",
				Flags: []cli.Flag{
					userFlag(),
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Category id",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "name",
						Aliases:  []string{"n"},
						Usage:    "New display name",
						Required: true,
					},
				},
				Action: r.CategoryRename,
			},
			{
				Name:  "delete",
				Usage: "Delete a category, moving its notes to general",
				Flags: []cli.Flag{
					userFlag(),
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Category id",
						Required: true,
					},
				},
				Action: r.CategoryDelete,
			},
		},
	}
}

// remindCommand manages reminders on existing notes.
func remindCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "remind",
		Usage: "Reminder operations",
		Commands: []*cli.Command{
			{
				Name:  "set",
				Usage: "Set or replace a note's reminder",
				Flags: []cli.Flag{
					userFlag(),
					&cli.IntFlag{
						Name:     "id",
						Usage:    "Note id",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "at",
						Usage: "Absolute fire time, RFC 3339",
					},
					&cli.StringFlag{
						Name:  "in",
						Usage: "Quick preset: 30min, 1h, 2h, 6h, tomorrow_09, tomorrow_18",
					},
				},
				Action: r.RemindSet,
			},
			{
				Name:  "cancel",
				Usage: "Cancel a note's reminder",
				Flags: []cli.Flag{
					userFlag(),
					&cli.IntFlag{
						Name:     "id",
						Usage:    "Note id",
						Required: true,
					},
				},
				Action: r.RemindCancel,
			},
		},
	}
}

// runCommand starts the long-running delivery process.
func runCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "run",
		Usage:  "Run the reminder delivery loop until interrupted",
		Action: r.Run,
	}
}

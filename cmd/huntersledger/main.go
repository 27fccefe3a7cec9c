package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	_ "time/tzdata" // region lookups must not depend on the host's zoneinfo

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"huntersledger/internal/config"
	"huntersledger/internal/ics"
	"huntersledger/internal/invite"
	appLog "huntersledger/internal/log"
	"huntersledger/internal/web"
)

const version = "0.1.0"

func main() {
	// Load .env file first, but don't error if it doesn't exist.
	_ = godotenv.Load()

	app := &cli.App{
		Name:    "huntersledger",
		Usage:   "Turn loosely typed session details into calendar invites.",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   "./huntersledger.yaml",
				Usage:   "Path to config file (created with defaults if missing)",
				EnvVars: []string{"HUNTERSLEDGER_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			inviteCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		appLog.Error("huntersledger failed", err)
		os.Exit(1)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the invite HTTP API.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "listen",
				Usage:   "HTTP listen address (overrides config if set)",
				EnvVars: []string{"HUNTERSLEDGER_LISTEN"},
			},
		},
		Action: func(c *cli.Context) error {
			conf, err := loadConfig(c)
			if err != nil {
				return err
			}
			// CLI --listen overrides config file listen if provided.
			if l := c.String("listen"); l != "" {
				conf.Listen = l
			}

			appLog.Info("effective config",
				"listen", conf.Listen,
				"default_timezone", conf.Timezone,
				"duration_minutes", conf.DurationMinutes,
				"reminder_minutes", conf.ReminderMinutes,
				"basic_auth", conf.BasicAuth != nil,
			)

			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := web.NewServer(conf, newBuilder(conf))
			if err := srv.Run(ctx); err != nil {
				return fmt.Errorf("http server: %w", err)
			}
			appLog.Info("huntersledger exiting")
			return nil
		},
	}
}

func inviteCommand() *cli.Command {
	return &cli.Command{
		Name:  "invite",
		Usage: "Write a single calendar invite to disk.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Required: true, Usage: "Session title (becomes the calendar summary)"},
			&cli.StringFlag{Name: "date", Required: true, Usage: "Date, e.g. 2025-09-17, 17/09/2025 or 17 Sep 2025"},
			&cli.StringFlag{Name: "time", Required: true, Usage: "Time, e.g. 1700, 17:00 or 5pm"},
			&cli.StringFlag{Name: "timezone", Usage: "Timezone like Europe/London, GMT, PST"},
			&cli.StringFlag{Name: "notes", Usage: "Notes to include in the invite"},
			&cli.StringFlag{Name: "out", Value: ".", Usage: "Output directory, or - for stdout"},
		},
		Action: func(c *cli.Context) error {
			conf, err := loadConfig(c)
			if err != nil {
				return err
			}
			if strings.TrimSpace(c.String("title")) == "" {
				return cli.Exit("title is required", 1)
			}

			res, err := newBuilder(conf).Build(invite.Request{
				Title:    c.String("title"),
				Date:     c.String("date"),
				Time:     c.String("time"),
				Timezone: c.String("timezone"),
				Notes:    c.String("notes"),
			})
			if err != nil {
				if hint := invite.Hint(err); hint != "" {
					return cli.Exit("❌ "+hint, 1)
				}
				return err
			}

			out := c.String("out")
			if out == "-" {
				_, err := c.App.Writer.Write(res.Document)
				return err
			}
			path := filepath.Join(out, res.Filename)
			if err := os.WriteFile(path, res.Document, 0o644); err != nil {
				return fmt.Errorf("write invite: %w", err)
			}
			fmt.Fprintln(c.App.Writer, res.Confirmation())
			fmt.Fprintln(c.App.Writer, path)
			return nil
		},
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	path := c.String("config")
	conf, err := config.Load(path)
	if err != nil {
		if conf == nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
		// Defaults are usable even when the first-run file can't be written.
		appLog.Error("failed to save default config", err, "config_path", path)
	}
	appLog.SetLevel(appLog.ParseLevel(conf.LogLevel))
	return conf, nil
}

// newBuilder wires config into the invite builder and its serializer.
func newBuilder(conf *config.Config) *invite.Builder {
	return invite.NewBuilder(invite.Options{
		DefaultZone:  conf.Timezone,
		Duration:     conf.Duration(),
		Location:     conf.Location,
		DefaultNotes: conf.DefaultNotes,
		Serializer: ics.NewSerializer(ics.Options{
			ProductID:    conf.ProductID,
			UIDDomain:    conf.UIDDomain,
			AlarmText:    conf.AlarmText,
			ReminderLead: conf.ReminderLead(),
		}),
	})
}

// Copyright (c) 2026 Assetkeeper Team
// Assetkeeper - device check-in/check-out tracking
// This source code is licensed under the MIT license found in the LICENSE file.

// main.go sets up the root command: configuration, logging, messages and
// the per-invocation database session that every subcommand runs in.

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/toeirei/assetkeeper/buildvars"
	"github.com/toeirei/assetkeeper/internal/config"
	"github.com/toeirei/assetkeeper/internal/core"
	"github.com/toeirei/assetkeeper/internal/db"
	"github.com/toeirei/assetkeeper/internal/i18n"
	"github.com/toeirei/assetkeeper/internal/logging"
)

var version = "dev"   // set by the linker
var gitCommit = "dev" // short commit SHA, set at build time
var buildDate = ""    // RFC3339, set at build time

const modulePath = "github.com/toeirei/assetkeeper"

// appConfig is the configuration resolved by setupDefaultServices for the
// running command.
var appConfig config.Config

func setupDefaultServices(cmd *cobra.Command, args []string) error {
	configPath, err := getConfigPathFromCli(cmd)
	if err != nil {
		return err
	}

	defaults := config.Defaults()
	appConfig, err = config.LoadConfig[config.Config](cmd, defaults, configPath)
	if errors.As(err, &viper.ConfigFileNotFoundError{}) {
		// First run: persist the resolved defaults so the file can be edited.
		if writeErr := config.WriteConfigFile(&appConfig, false); writeErr != nil {
			logging.Warnf("could not write default config file: %v", writeErr)
		}
	} else if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	if appConfig.Database.Type == "" {
		appConfig.Database.Type = defaults["database.type"].(string)
	}
	if appConfig.Database.Dsn == "" {
		appConfig.Database.Dsn = defaults["database.dsn"].(string)
	}
	if appConfig.Language == "" {
		appConfig.Language = defaults["language"].(string)
	}

	level := appConfig.LogLevel
	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		level = "debug"
		db.SetDebug(true)
	}
	logging.Configure(cmd.ErrOrStderr(), level)
	i18n.Init(appConfig.Language)
	if !slices.Contains(db.SupportedTypes, appConfig.Database.Type) {
		return errors.New(i18n.T("error.unsupported_db_type", appConfig.Database.Type, strings.Join(db.SupportedTypes, ", ")))
	}
	logging.Debugf("config: database.type=%s language=%s", appConfig.Database.Type, appConfig.Language)
	return nil
}

func getConfigPathFromCli(cmd *cobra.Command) (*string, error) {
	if !cmd.Flags().Changed("config") {
		return nil, nil
	}
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("could not read --config flag: %w", err)
	}
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file specified via --config flag not found or is not accessible: %w", err)
	}
	return &path, nil
}

// openStore opens the configured database and applies pending migrations.
func openStore() (*db.Store, error) {
	store, err := db.NewStoreFromDSN(appConfig.Database.Type, appConfig.Database.Dsn)
	if err != nil {
		return nil, &storeError{err: errors.New(i18n.T("error.init_db", err))}
	}
	return store, nil
}

// withSession runs fn in one transactional session. The session commits when
// fn returns nil and rolls back otherwise; the store is closed afterwards.
func withSession(cmd *cobra.Command, fn func(ctx context.Context, rec core.Records, sess *db.Session) error) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	err = store.Session(cmd.Context(), func(ctx context.Context, sess *db.Session) error {
		return fn(ctx, sess, sess)
	})
	return classify(err)
}

// Execute runs the CLI. The caller turns the returned error into an exit
// status with ExitCode.
func Execute() error {
	return executeRoot(NewRootCmd())
}

// executeRoot runs root and prints a failure once, in the operator's
// language, on root's error stream.
func executeRoot(root *cobra.Command) error {
	err := root.Execute()
	if err != nil {
		_, _ = fmt.Fprintln(root.ErrOrStderr(), explain(err))
		if ExitCode(err) == ExitStore {
			logging.Errorf("%v", err)
		}
	}
	return err
}

func applyDefaultFlags(cmd *cobra.Command) {
	if cmd.PersistentFlags().Lookup("database.type") == nil {
		cmd.PersistentFlags().String("database.type", "sqlite", "Database type (sqlite, postgres, mysql)")
	}
	if cmd.PersistentFlags().Lookup("database.dsn") == nil {
		cmd.PersistentFlags().String("database.dsn", "./assetkeeper.db", "Database connection string (DSN)")
	}
}

// groupCmd returns a command that only holds subcommands. Invoked with an
// unknown subcommand it prints its usage and fails.
func groupCmd(use, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				_ = cmd.Usage()
				return fmt.Errorf("unknown command %q for %q", args[0], cmd.CommandPath())
			}
			return cmd.Help()
		},
	}
}

// NewRootCmd builds a fresh command tree. Tests call it once per
// invocation so flag state never leaks between runs.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assetkeeper",
		Short: "Assetkeeper tracks which employee holds which device.",
		Long: `Assetkeeper keeps a register of employees and devices and records every
device check-in and check-out. A device is either AVAILABLE or IN_USE by
exactly one employee; the usage history can be reported per employee.`,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: setupDefaultServices,
	}

	v, c, d := resolveBuildVersion(nil)
	cmd.Version = compositeVersion(v, c, d)

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging, including SQL diagnostics")
	cmd.PersistentFlags().String("config", "", "config file")
	cmd.PersistentFlags().String("language", "en", `Message language ("en", "de")`)
	applyDefaultFlags(cmd)

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		// No database or config needed.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			v, c, d := resolveBuildVersion(nil)
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "version: %s\n", v)
			_, _ = fmt.Fprintf(out, "commit: %s\n", c)
			if d != "" {
				_, _ = fmt.Fprintf(out, "built: %s\n", d)
			}
		},
	}

	cmd.AddCommand(
		newEmployeesCmd(),
		newDevicesCmd(),
		newUsageCmd(),
		newInventoryCmd(),
		newDBCmd(),
		versionCmd,
	)
	return cmd
}

func compositeVersion(v, c, d string) string {
	out := v
	if c != "" && c != "dev" {
		out += " (" + c + ")"
	}
	if d != "" {
		out += " built: " + d
	}
	return out
}

// resolveBuildVersion computes the best-available version, commit and build
// date. With a nil info it reads the build info of the running binary.
func resolveBuildVersion(info *debug.BuildInfo) (versionOut, commitOut, dateOut string) {
	resolvedVersion := buildvars.VersionOrDefault(version)
	resolvedCommit := gitCommit
	resolvedDate := buildDate

	if info == nil {
		if local, ok := debug.ReadBuildInfo(); ok {
			info = local
		}
	}
	if info != nil {
		if resolvedVersion == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
			resolvedVersion = info.Main.Version
		}
		// Installed as a dependency the main module carries no version.
		if resolvedVersion == "dev" {
			for _, dep := range info.Deps {
				if dep.Path == modulePath && dep.Version != "" {
					resolvedVersion = dep.Version
					break
				}
			}
		}
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if s.Value != "" {
					resolvedCommit = s.Value
				}
			case "vcs.time":
				if s.Value != "" {
					resolvedDate = s.Value
				}
			}
		}
	}

	if resolvedVersion == "dev" && gitCommit != "dev" && gitCommit != "" {
		resolvedVersion = gitCommit
	}
	return strings.TrimSpace(resolvedVersion), resolvedCommit, resolvedDate
}

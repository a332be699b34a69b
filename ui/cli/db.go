// Copyright (c) 2026 Assetkeeper Team
// Assetkeeper - device check-in/check-out tracking
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/spf13/cobra"
	"github.com/toeirei/assetkeeper/internal/core"
	"github.com/toeirei/assetkeeper/internal/db"
	"github.com/toeirei/assetkeeper/internal/i18n"
	"github.com/toeirei/assetkeeper/internal/model"
)

func newDBCmd() *cobra.Command {
	cmd := groupCmd("db", "Initialize, seed, back up, restore and maintain the database")

	var seed bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create or migrate the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Opening the store applies pending migrations.
			return withSession(cmd, func(ctx context.Context, rec core.Records, _ *db.Session) error {
				out := cmd.OutOrStdout()
				_, _ = fmt.Fprintln(out, i18n.T("db.initialized", appConfig.Database.Type))
				if !seed {
					return nil
				}
				return seedDevices(ctx, cmd, rec)
			})
		},
	}
	initCmd.Flags().BoolVar(&seed, "seed", false, "Also add the default devices")

	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Add the default devices whose codes are not taken yet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, rec core.Records, _ *db.Session) error {
				return seedDevices(ctx, cmd, rec)
			})
		},
	}

	backupCmd := &cobra.Command{
		Use:   "backup [output-file]",
		Short: "Create a compressed (zstd) JSON backup of the database",
		Long: `Dumps all employees, devices and usages into a single Zstandard-compressed
JSON file. '.zst' is appended to the name when missing. Without a name,
'assetkeeper-backup-YYYY-MM-DD.json.zst' is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputFile := backupFileName(args, time.Now())
			return withSession(cmd, func(ctx context.Context, _ core.Records, sess *db.Session) error {
				snap, err := sess.ExportSnapshot(ctx)
				if err != nil {
					return err
				}
				if err := writeCompressedBackup(outputFile, snap); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), i18n.T("db.backup_written", outputFile))
				return nil
			})
		},
	}

	var fullRestore, assumeYes bool
	restoreCmd := &cobra.Command{
		Use:   "restore <backup-file.zst>",
		Short: "Restore the database from a compressed JSON backup",
		Long: `Restores a backup written by 'db backup'. By default rows that already
exist are kept and only missing rows are added. With --full every table is
wiped first; this cannot be undone.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := readCompressedBackup(args[0])
			if err != nil {
				return &storeError{err: err}
			}
			if fullRestore && !assumeYes {
				ok, err := newPrompter(cmd).confirm(i18n.T("prompt.confirm_full_restore"))
				if err != nil {
					return err
				}
				if !ok {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), i18n.T("delete.cancelled"))
					return nil
				}
			}
			return withSession(cmd, func(ctx context.Context, _ core.Records, sess *db.Session) error {
				st, err := sess.ImportSnapshot(ctx, snap, fullRestore)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), i18n.T("db.restore_done", st.Inserted, st.Skipped))
				return nil
			})
		},
	}
	restoreCmd.Flags().BoolVar(&fullRestore, "full", false, "Wipe all existing data before restoring")
	restoreCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask before a full restore")

	maintainCmd := &cobra.Command{
		Use:   "maintain",
		Short: "Run database maintenance (VACUUM/OPTIMIZE) for the configured DB",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := db.RunDBMaintenance(appConfig.Database.Type, appConfig.Database.Dsn); err != nil {
				return &storeError{err: fmt.Errorf("maintenance failed: %w", err)}
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), i18n.T("db.maintain_done"))
			return nil
		},
	}

	cmd.AddCommand(initCmd, seedCmd, backupCmd, restoreCmd, maintainCmd)
	return cmd
}

func seedDevices(ctx context.Context, cmd *cobra.Command, rec core.Records) error {
	added, err := core.SeedDefaultDevices(ctx, rec)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), i18n.T("device.seeded", added))
	return nil
}

func backupFileName(args []string, now time.Time) string {
	if len(args) == 0 || args[0] == "" {
		return fmt.Sprintf("assetkeeper-backup-%s.json.zst", now.Format("2006-01-02"))
	}
	name := args[0]
	if !strings.HasSuffix(name, ".zst") {
		name += ".zst"
	}
	return name
}

// writeCompressedBackup streams snap as indented JSON through a zstd writer.
func writeCompressedBackup(filename string, snap *model.Snapshot) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("could not create file: %w", err)
	}
	defer func() { _ = file.Close() }()

	zstdWriter, err := zstd.NewWriter(file)
	if err != nil {
		return fmt.Errorf("could not create zstd writer: %w", err)
	}

	encoder := json.NewEncoder(zstdWriter)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(snap); err != nil {
		_ = zstdWriter.Close()
		return fmt.Errorf("could not encode json to zstd writer: %w", err)
	}
	if err := zstdWriter.Close(); err != nil {
		return fmt.Errorf("could not finish zstd stream: %w", err)
	}
	return file.Close()
}

// readCompressedBackup decodes a file written by writeCompressedBackup.
func readCompressedBackup(filename string) (*model.Snapshot, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("could not open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	zstdReader, err := zstd.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("could not create zstd reader: %w", err)
	}
	defer zstdReader.Close()

	var snap model.Snapshot
	if err := json.NewDecoder(zstdReader).Decode(&snap); err != nil {
		return nil, fmt.Errorf("could not decode json from zstd reader: %w", err)
	}
	return &snap, nil
}

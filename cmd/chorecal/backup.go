package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/dukerupert/chorecal/internal/backup"
)

func newBackupCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Encrypted snapshots of all stored data",
		Long: `Create, list and restore encrypted snapshots.

Snapshots are sealed with backup.passphrase (CHORECAL_BACKUP_PASSPHRASE)
and uploaded to the configured S3-compatible bucket, or written to a
local file with --file.`,
	}
	cmd.AddCommand(
		newBackupCreateCmd(a),
		newBackupListCmd(a),
		newBackupRestoreCmd(a),
	)
	return cmd
}

func (a *app) remote() (*backup.Remote, error) {
	b := a.cfg.Backup
	return backup.NewRemote(backup.S3Config{
		Endpoint:  b.Endpoint,
		Bucket:    b.Bucket,
		Region:    b.Region,
		AccessKey: b.AccessKey,
		SecretKey: b.SecretKey,
		Prefix:    b.Prefix,
	}, a.logger)
}

func newBackupCreateCmd(a *app) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Seal the current data and store it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, release, err := a.openStore()
			if err != nil {
				return err
			}
			defer release()

			data, err := st.Load(cmd.Context())
			if err != nil {
				return err
			}
			sealed, err := backup.Snapshot(data, a.cfg.Backup.Passphrase)
			if err != nil {
				return err
			}

			if file != "" {
				if err := os.WriteFile(file, sealed, 0o600); err != nil {
					return fmt.Errorf("write snapshot: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), file)
				return nil
			}

			r, err := a.remote()
			if err != nil {
				return err
			}
			key, err := r.Upload(cmd.Context(), sealed, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), key)

			deleted, err := r.Prune(cmd.Context(), a.cfg.Backup.Keep)
			if err != nil {
				a.logger.Warn("prune snapshots", "error", err)
			} else if len(deleted) > 0 {
				a.logger.Info("pruned snapshots", "count", len(deleted), "keep", a.cfg.Backup.Keep)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "write the sealed snapshot to this file instead of uploading")
	return cmd
}

func newBackupListCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored snapshots, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.remote()
			if err != nil {
				return err
			}
			objs, err := r.List(cmd.Context())
			if err != nil {
				return err
			}
			if output != formatText {
				if objs == nil {
					objs = []backup.Object{}
				}
				return writeStructured(cmd.OutOrStdout(), output, objs)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tSIZE\tMODIFIED")
			for _, o := range objs {
				fmt.Fprintf(tw, "%s\t%d\t%s\n", o.Key, o.Size, o.LastModified.Format(time.RFC3339))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", formatText, "output format: text, json or yaml")
	return cmd
}

func newBackupRestoreCmd(a *app) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "restore [KEY]",
		Short: "Replace all stored data with a snapshot",
		Long: `Replace all stored data with a snapshot.

Without KEY the newest uploaded snapshot is used. With --file the
snapshot is read from a local file instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if file != "" && len(args) > 0 {
				return errors.New("give either KEY or --file, not both")
			}

			var sealed []byte
			if file != "" {
				raw, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("read snapshot: %w", err)
				}
				sealed = raw
			} else {
				r, err := a.remote()
				if err != nil {
					return err
				}
				key := ""
				if len(args) > 0 {
					key = args[0]
				} else if key, err = r.Latest(cmd.Context()); err != nil {
					return err
				}
				if sealed, err = r.Download(cmd.Context(), key); err != nil {
					return err
				}
				a.logger.Debug("downloaded snapshot", "key", key)
			}

			data, err := backup.ReadSnapshot(sealed, a.cfg.Backup.Passphrase)
			if err != nil {
				return err
			}

			st, release, err := a.openStore()
			if err != nil {
				return err
			}
			defer release()

			if err := st.Restore(cmd.Context(), data); err != nil {
				return err
			}
			a.logger.Info("restored snapshot",
				"team_members", len(data.TeamMembers),
				"templates", len(data.ChoreTemplates),
				"instances", len(data.ChoreInstances),
			)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "read the sealed snapshot from this file")
	return cmd
}

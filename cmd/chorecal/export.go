package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/tidwall/jsonc"

	"github.com/dukerupert/chorecal/internal/model"
)

func newExportCmd(a *app) *cobra.Command {
	var output, file string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all stored data to stdout or a file",
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

			w := cmd.OutOrStdout()
			if file != "" {
				f, err := os.Create(file)
				if err != nil {
					return fmt.Errorf("create export file: %w", err)
				}
				defer f.Close()
				w = f
			}
			if err := writeStructured(w, output, data); err != nil {
				return err
			}

			a.logger.Info("exported data",
				"team_members", len(data.TeamMembers),
				"templates", len(data.ChoreTemplates),
				"instances", len(data.ChoreInstances),
			)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", formatJSON, "output format: json or yaml")
	cmd.Flags().StringVarP(&file, "file", "f", "", "write to this file instead of stdout")
	return cmd
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Replace all stored data with a JSON export",
		Long: `Replace all stored data with the contents of a JSON export.

The file may contain // and /* */ comments and trailing commas, so
hand-edited exports can be restored directly. Use "-" to read stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			var data model.AppData
			if err := json.Unmarshal(jsonc.ToJSON(raw), &data); err != nil {
				return fmt.Errorf("decode %s: %w", args[0], err)
			}

			st, release, err := a.openStore()
			if err != nil {
				return err
			}
			defer release()

			if err := st.Restore(cmd.Context(), data); err != nil {
				return err
			}

			a.logger.Info("imported data",
				"team_members", len(data.TeamMembers),
				"templates", len(data.ChoreTemplates),
				"instances", len(data.ChoreInstances),
			)
			return nil
		},
	}
}

func readInput(stdin io.Reader, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(stdin)
	}
	raw, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read import file: %w", err)
	}
	return raw, nil
}

package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/tinct/pkg/config"
	tincterrors "github.com/arthur-debert/tinct/pkg/errors"
	"github.com/arthur-debert/tinct/pkg/paths"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: MsgConfigShort,
	}
	cmd.AddCommand(newConfigInitCmd(opts))
	return cmd
}

func newConfigInitCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: MsgConfigInitShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.config
			if path == "" {
				path = paths.New().ConfigFilePath()
			}
			return runConfigInit(cmd, path)
		},
	}
}

func runConfigInit(cmd *cobra.Command, path string) error {
	if _, err := os.Stat(path); err == nil {
		return tincterrors.Newf(tincterrors.ErrFileWrite, MsgConfigExists, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return tincterrors.Wrapf(err, tincterrors.ErrFileWrite,
			"failed to create config directory %s", filepath.Dir(path))
	}
	if err := os.WriteFile(path, []byte(config.DefaultConfigContent()), 0644); err != nil {
		return tincterrors.Wrapf(err, tincterrors.ErrFileWrite, "failed to write %s", path)
	}
	fmt.Fprintf(cmd.OutOrStdout(), MsgConfigCreated, path)
	return nil
}

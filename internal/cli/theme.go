package cli

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	tincterrors "github.com/arthur-debert/tinct/pkg/errors"
	"github.com/arthur-debert/tinct/pkg/logging"
	"github.com/arthur-debert/tinct/pkg/paths"
	"github.com/arthur-debert/tinct/pkg/style"
	"github.com/arthur-debert/tinct/pkg/theme"
)

// newThemeCmd groups the theme management subcommands.
func newThemeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: MsgThemeShort,
	}
	cmd.AddCommand(newThemeListCmd())
	cmd.AddCommand(newThemeCreateCmd())
	cmd.AddCommand(newThemeImportCmd())
	cmd.AddCommand(newThemeExportCmd())
	cmd.AddCommand(newThemeEditCmd())
	return cmd
}

func newThemeListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: MsgThemeListShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runThemeList(cmd, paths.New())
		},
	}
}

func runThemeList(cmd *cobra.Command, p paths.Paths) error {
	files, err := p.ListThemeFiles()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, style.TitleStyle.Render(MsgAvailableThemes))
	fmt.Fprintf(out, "%s %s %s\n",
		style.InfoIndicator,
		style.ThemeNameStyle.Render(MsgBuiltinTheme),
		style.MutedStyle.Render(MsgBuiltinAnnotation))
	for _, file := range files {
		fmt.Fprintf(out, "%s %s %s\n",
			style.InfoIndicator,
			style.ThemeNameStyle.Render(file.Name),
			style.PathStyle.Render(file.Path))
		if doc, err := theme.LoadFromFile(file.Path); err == nil && doc.Metadata.Description != "" {
			fmt.Fprintln(out, style.ListItemStyle.Render(style.MutedStyle.Render(doc.Metadata.Description)))
		}
	}
	return nil
}

func newThemeCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: MsgThemeCreateShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runThemeCreate(cmd, paths.New(), args[0])
		},
	}
}

func runThemeCreate(cmd *cobra.Command, p paths.Paths, name string) error {
	path := p.ThemeFilePath(name)
	if _, err := os.Stat(path); err == nil {
		return tincterrors.Newf(tincterrors.ErrFileWrite, MsgThemeExists, name, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return tincterrors.Wrapf(err, tincterrors.ErrFileWrite,
			"failed to create themes directory %s", filepath.Dir(path))
	}

	doc := theme.Default()
	doc.Metadata.Name = name
	doc.Metadata.Description = "Custom theme " + name
	if err := theme.SaveToFile(doc, path); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), MsgThemeCreated, name, path)
	return nil
}

func newThemeImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file> [name]",
		Short: MsgThemeImportShort,
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) > 1 {
				name = args[1]
			}
			return runThemeImport(cmd, paths.New(), args[0], name)
		},
	}
}

func runThemeImport(cmd *cobra.Command, p paths.Paths, src, name string) error {
	// Validation first; a file that does not parse is not imported.
	if _, err := theme.LoadFromFile(src); err != nil {
		return err
	}
	if name == "" {
		name = themeNameFromPath(src)
	}

	dst := p.ThemeFilePath(name)
	if _, err := os.Stat(dst); err == nil {
		return tincterrors.Newf(tincterrors.ErrFileWrite, MsgThemeExists, name, dst)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return tincterrors.Wrapf(err, tincterrors.ErrFileWrite,
			"failed to create themes directory %s", filepath.Dir(dst))
	}

	// Copy the raw bytes so comments and formatting survive.
	data, err := os.ReadFile(src)
	if err != nil {
		return tincterrors.Wrapf(err, tincterrors.ErrFileAccess, "failed to read %s", src)
	}
	if err := os.WriteFile(dst, data, 0644); err != nil {
		return tincterrors.Wrapf(err, tincterrors.ErrFileWrite, "failed to write %s", dst)
	}

	fmt.Fprintf(cmd.OutOrStdout(), MsgThemeImported, name, src)
	return nil
}

func newThemeExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <name> <dest>",
		Short: MsgThemeExportShort,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runThemeExport(cmd, paths.New(), args[0], args[1])
		},
	}
}

func runThemeExport(cmd *cobra.Command, p paths.Paths, name, dest string) error {
	if name == "default" {
		doc := theme.Default()
		if err := theme.SaveToFile(doc, dest); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), MsgThemeExported, name, dest)
		return nil
	}

	path, err := p.ResolveTheme(name)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return tincterrors.Wrapf(err, tincterrors.ErrFileAccess, "failed to read %s", path)
	}
	if err := os.WriteFile(dest, data, 0644); err != nil {
		return tincterrors.Wrapf(err, tincterrors.ErrFileWrite, "failed to write %s", dest)
	}

	fmt.Fprintf(cmd.OutOrStdout(), MsgThemeExported, name, dest)
	return nil
}

func newThemeEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <name>",
		Short: MsgThemeEditShort,
		Long:  MsgThemeEditLong,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runThemeEdit(cmd, paths.New(), args[0])
		},
	}
}

func runThemeEdit(cmd *cobra.Command, p paths.Paths, name string) error {
	logger := logging.GetLogger("theme")

	path, err := p.ResolveTheme(name)
	if err != nil {
		return err
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}

	edit := exec.Command(editor, path)
	edit.Stdin = os.Stdin
	edit.Stdout = os.Stdout
	edit.Stderr = os.Stderr
	if err := edit.Run(); err != nil {
		return tincterrors.Wrapf(err, tincterrors.ErrFileAccess, "editor %s failed", editor)
	}

	// The edit is kept either way; a broken file is reported here
	// rather than at the next highlight run.
	if _, err := theme.LoadFromFile(path); err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("theme no longer parses")
		fmt.Fprintf(cmd.OutOrStdout(), "%s theme %s has errors: %v\n",
			style.WarningIndicator, name, err)
	}
	return nil
}

// themeNameFromPath derives an import name from a source file path.
func themeNameFromPath(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.TrimPrefix(base, paths.ThemeFilePrefix)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/zpdzap/sb/internal/config"
	"github.com/zpdzap/sb/internal/match"
	"github.com/zpdzap/sb/internal/sandbox"
	"github.com/zpdzap/sb/internal/tui"
)

// Exit codes per error kind, so scripting callers can branch on the
// failure class.
const (
	exitGeneric   = 1
	exitNotFound  = 2
	exitExists    = 3
	exitConflict  = 4
	exitSensitive = 5
	exitMount     = 6
	exitEngine    = 7
)

func main() {
	root := &cobra.Command{
		Use:           "sb",
		Short:         "Per-project Docker sandboxes for coding agents",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runDashboard,
	}

	root.AddCommand(
		newCreateCmd(),
		newAttachCmd(),
		newStopCmd(),
		newDestroyCmd(),
		newListCmd(),
		newInitCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, sandbox.ErrNotFound):
		return exitNotFound
	case errors.Is(err, sandbox.ErrAlreadyExists):
		return exitExists
	case errors.Is(err, sandbox.ErrNameConflict):
		return exitConflict
	case errors.Is(err, sandbox.ErrSensitiveDirectory):
		return exitSensitive
	case errors.Is(err, sandbox.ErrMountUnresolvable):
		return exitMount
	case errors.Is(err, sandbox.ErrEngineUnavailable):
		return exitEngine
	}
	return exitGeneric
}

// newManager connects to the engine and applies the user config.
func newManager(ctx context.Context) (*sandbox.Manager, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	engine, err := sandbox.ConnectDocker(ctx)
	if err != nil {
		return nil, err
	}
	return sandbox.NewManager(engine,
		sandbox.WithImage(cfg.Docker.Image),
		sandbox.WithExtraMounts(cfg.Defaults.ExtraMounts),
		sandbox.WithEnvPassthrough(cfg.Defaults.EnvPassthrough),
		sandbox.WithSensitiveDirs(cfg.Defaults.SensitiveDirs),
	), nil
}

// resolveName maps a user-supplied partial name to a single sandbox, or
// derives the sandbox for the current directory when no name is given.
func resolveName(ctx context.Context, mgr *sandbox.Manager, arg string) (sandbox.Sandbox, error) {
	if arg == "" {
		wd, err := os.Getwd()
		if err != nil {
			return sandbox.Sandbox{}, err
		}
		sb, err := mgr.ForPath(ctx, wd)
		if err != nil {
			if errors.Is(err, sandbox.ErrNotFound) {
				return sandbox.Sandbox{}, fmt.Errorf("no sandbox for workspace %q (use 'sb create'): %w", wd, err)
			}
			return sandbox.Sandbox{}, err
		}
		return sb, nil
	}

	all, err := mgr.List(ctx)
	if err != nil {
		return sandbox.Sandbox{}, err
	}
	matches := match.Find(arg, all)
	switch len(matches) {
	case 0:
		return sandbox.Sandbox{}, fmt.Errorf("sandbox %q: %w", arg, sandbox.ErrNotFound)
	case 1:
		return matches[0], nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "multiple sandboxes match %q:\n", arg)
	for _, sb := range matches {
		fmt.Fprintf(&b, "  %s  (%s)\n", sb.Name, sb.Workspace)
	}
	b.WriteString("use the full sandbox name or a more specific query")
	return sandbox.Sandbox{}, errors.New(b.String())
}

func newCreateCmd() *cobra.Command {
	var opts sandbox.CreateOptions
	var attach bool

	cmd := &cobra.Command{
		Use:     "create",
		Aliases: []string{"c"},
		Short:   "Create a sandbox for the current directory",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			mgr, err := newManager(ctx)
			if err != nil {
				return err
			}

			sb, err := mgr.Create(ctx, opts)
			if err != nil {
				return err
			}
			fmt.Printf("Created sandbox %q for workspace %q\n", sb.Name, sb.Workspace)

			if attach {
				return attachTo(ctx, mgr, sb.Name)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Name, "name", "n", "", "explicit sandbox name (derived from path if omitted)")
	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "bypass the sensitive-directory guard")
	cmd.Flags().BoolVarP(&attach, "attach", "a", false, "attach after creation")
	cmd.Flags().StringArrayVar(&opts.Mounts, "mount", nil, "additional mount, path[:ro|:rw] (repeatable)")
	cmd.Flags().StringArrayVar(&opts.Env, "env", nil, "env passthrough, VAR or VAR=value (repeatable)")
	cmd.Flags().StringVar(&opts.Image, "image", "", "override the sandbox image")
	return cmd
}

func newAttachCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "attach [name]",
		Aliases: []string{"a"},
		Short:   "Attach to a sandbox, starting it if stopped",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			mgr, err := newManager(ctx)
			if err != nil {
				return err
			}
			sb, err := resolveName(ctx, mgr, argOrEmpty(args))
			if err != nil {
				return err
			}
			return attachTo(ctx, mgr, sb.Name)
		},
	}
}

// attachTo starts the sandbox if needed and hands the terminal to an
// interactive shell inside it. The shell's exit code becomes ours.
func attachTo(ctx context.Context, mgr *sandbox.Manager, name string) error {
	sb, err := mgr.Attach(ctx, name)
	if err != nil {
		return err
	}
	fmt.Printf("Attached to sandbox %q\n", sb.Name)

	err = mgr.AttachCmd(sb).Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		os.Exit(exitErr.ExitCode())
	}
	return err
}

func newStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop [name]",
		Short: "Stop a running sandbox",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			mgr, err := newManager(ctx)
			if err != nil {
				return err
			}
			sb, err := resolveName(ctx, mgr, argOrEmpty(args))
			if err != nil {
				return err
			}
			if sb, err = mgr.Stop(ctx, sb.Name); err != nil {
				return err
			}
			fmt.Printf("Stopped sandbox %q\n", sb.Name)
			return nil
		},
	}
}

func newDestroyCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "destroy [name]",
		Aliases: []string{"d"},
		Short:   "Remove a sandbox completely",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			mgr, err := newManager(ctx)
			if err != nil {
				return err
			}
			sb, err := resolveName(ctx, mgr, argOrEmpty(args))
			if err != nil {
				return err
			}

			if !force && !confirm(fmt.Sprintf("Destroy sandbox %q? This removes its container.", sb.Name)) {
				fmt.Println("Cancelled.")
				return nil
			}
			if sb, err = mgr.Destroy(ctx, sb.Name); err != nil {
				return err
			}
			fmt.Printf("Destroyed sandbox %q\n", sb.Name)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation")
	return cmd
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all sandboxes with status",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			mgr, err := newManager(ctx)
			if err != nil {
				return err
			}
			sandboxes, err := mgr.List(ctx)
			if err != nil {
				return err
			}
			if len(sandboxes) == 0 {
				fmt.Println("No sandboxes found. Use 'sb create' to create one.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tWORKSPACE\tSTATUS\tCREATED")
			for _, sb := range sandboxes {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					sb.Name, sb.Workspace, sb.Status, sb.CreatedAt.Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if config.Exists() {
				path, _ := config.Path()
				fmt.Printf("Config already exists at %s\n", path)
				return nil
			}
			if err := config.Save(&config.Config{}); err != nil {
				return err
			}
			path, _ := config.Path()
			fmt.Printf("Wrote default config to %s\n", path)
			return nil
		},
	}
}

func runDashboard(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	mgr, err := newManager(ctx)
	if err != nil {
		return err
	}
	return tui.Run(ctx, mgr)
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	var answer string
	fmt.Scanln(&answer)
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func argOrEmpty(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

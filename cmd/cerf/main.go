// Copyright (c) 2026, cerf authors
// See LICENSE for licensing information

// cerf is an interactive POSIX-flavored command shell.
package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/cerfshell/cerf/interp"
	"github.com/cerfshell/cerf/interp/rcwatch"
	"github.com/cerfshell/cerf/shell"
)

func main() {
	os.Exit(run())
}

// run is split out from main so testscript's RunMain can register cerf as
// a subprocess command without actually forking a binary.
func run() int {
	if err := newRootCmd().Execute(); err != nil {
		var es interp.ExitStatus
		if errors.As(err, &es) {
			return int(es)
		}
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var (
		command        string
		dottedBuiltins bool
		noRC           bool
		rcPath         string
	)

	cmd := &cobra.Command{
		Use:   "cerf [script]",
		Short: "cerf is an interactive POSIX-flavored command shell",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cc *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cc.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			home, _ := os.UserHomeDir()
			if rcPath == "" {
				rcPath = filepath.Join(home, ".cerfrc")
			}

			isTerminal := term.IsTerminal(int(os.Stdin.Fd()))

			opts := []interp.RunnerOption{
				interp.StdIO(os.Stdin, os.Stdout, os.Stderr),
				interp.WithHistoryFile(filepath.Join(home, ".cerf_history")),
			}
			if dottedBuiltins {
				opts = append(opts, interp.WithDefaultAliasProfile())
			}
			if command == "" && len(args) == 0 && isTerminal {
				opts = append(opts, interp.Interactive())
			}

			r, err := interp.New(opts...)
			if err != nil {
				return err
			}

			if !noRC {
				if err := shell.SourceRC(ctx, r, rcPath); err != nil {
					fmt.Fprintf(os.Stderr, "cerf: %v\n", err)
				}
			}

			if command != "" {
				status := shell.RunCommand(ctx, r, command)
				return exitStatus(status)
			}
			if len(args) == 1 {
				status, err := shell.RunScript(ctx, r, args[0])
				if err != nil {
					return err
				}
				return exitStatus(status)
			}
			if isTerminal {
				var reload <-chan struct{}
				if !noRC {
					if w, err := rcwatch.New(rcPath); err == nil {
						go w.Run(ctx, func(err error) {
							fmt.Fprintf(os.Stderr, "cerf: rc watch: %v\n", err)
						})
						reload = w.Changed()
					}
				}
				status := shell.RunInteractive(ctx, r, os.Stdin, os.Stdout, os.Stderr, reload, rcPath)
				return exitStatus(status)
			}
			status, err := shell.RunScript(ctx, r, "/dev/stdin")
			if err != nil {
				return err
			}
			return exitStatus(status)
		},
	}

	cmd.Flags().StringVarP(&command, "command", "c", "", "run command instead of reading a script or starting interactively")
	cmd.Flags().BoolVar(&dottedBuiltins, "dotted-builtins", false, "also register the dotted builtin-name profile (job.list, alias.set, ...)")
	cmd.Flags().BoolVar(&noRC, "norc", false, "do not read or watch the rc file")
	cmd.Flags().StringVar(&rcPath, "rcfile", "", "rc file to source on startup (default ~/.cerfrc)")

	return cmd
}

func exitStatus(status int) error {
	if status == 0 {
		return nil
	}
	return interp.NewExitStatus(uint8(status))
}

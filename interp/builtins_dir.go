// Copyright (c) 2026, cerf authors
// See LICENSE for licensing information

package interp

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

func init() {
	registerBuiltin(Builtin{
		Name:        "cd",
		Description: "change the current directory",
		Usage:       "cd [-|dir]",
		Run:         builtinCd,
	})
	registerBuiltin(Builtin{
		Name:        "pwd",
		Description: "print the current directory",
		Usage:       "pwd",
		Run:         builtinPwd,
	})
	registerBuiltin(Builtin{
		Name:        "pushd",
		Description: "push a directory onto the directory stack and cd into it",
		Usage:       "pushd [dir]",
		Run:         builtinPushd,
	})
	registerBuiltin(Builtin{
		Name:        "popd",
		Description: "pop the directory stack and cd into the new top",
		Usage:       "popd",
		Run:         builtinPopd,
	})
	registerBuiltin(Builtin{
		Name:        "dirs",
		Description: "print the directory stack",
		Usage:       "dirs",
		Run:         builtinDirs,
	})
}

func builtinCd(r *Runner, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	target := r.homeDir()
	switch {
	case len(args) == 0:
		// target already defaulted to home.
	case args[0] == "-":
		if r.PreviousDir == "" {
			fmt.Fprintln(stderr, "cd: OLDPWD not set")
			return 1
		}
		target = r.PreviousDir
	default:
		target = r.expandHomePath(args[0])
	}

	if !filepath.IsAbs(target) {
		target = filepath.Join(r.Dir, target)
	}

	info, err := os.Stat(target)
	if err != nil {
		fmt.Fprintf(stderr, "cd: %s: %v\n", target, err)
		return 1
	}
	if !info.IsDir() {
		fmt.Fprintf(stderr, "cd: %s: not a directory\n", target)
		return 1
	}

	r.PreviousDir = r.Dir
	r.Dir = target
	r.Variables["OLDPWD"] = r.PreviousDir
	r.Variables["PWD"] = r.Dir
	if args != nil && len(args) > 0 && args[0] == "-" {
		fmt.Fprintln(stdout, target)
	}
	return 0
}

func builtinPwd(r *Runner, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fmt.Fprintln(stdout, r.Dir)
	return 0
}

func builtinPushd(r *Runner, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		if len(r.DirStack) == 0 {
			fmt.Fprintln(stderr, "pushd: no other directory")
			return 1
		}
		top := r.DirStack[len(r.DirStack)-1]
		r.DirStack = r.DirStack[:len(r.DirStack)-1]
		r.PreviousDir = r.Dir
		r.DirStack = append(r.DirStack, r.Dir)
		r.Dir = top
		r.Variables["PWD"] = r.Dir
		printDirs(r, stdout)
		return 0
	}
	target := r.expandHomePath(args[0])
	if !filepath.IsAbs(target) {
		target = filepath.Join(r.Dir, target)
	}
	if info, err := os.Stat(target); err != nil || !info.IsDir() {
		fmt.Fprintf(stderr, "pushd: %s: not a directory\n", target)
		return 1
	}
	r.DirStack = append(r.DirStack, r.Dir)
	r.PreviousDir = r.Dir
	r.Dir = target
	r.Variables["PWD"] = r.Dir
	printDirs(r, stdout)
	return 0
}

func builtinPopd(r *Runner, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(r.DirStack) == 0 {
		fmt.Fprintln(stderr, "popd: directory stack empty")
		return 1
	}
	last := r.DirStack[len(r.DirStack)-1]
	r.DirStack = r.DirStack[:len(r.DirStack)-1]
	r.PreviousDir = r.Dir
	r.Dir = last
	r.Variables["PWD"] = r.Dir
	printDirs(r, stdout)
	return 0
}

func builtinDirs(r *Runner, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	printDirs(r, stdout)
	return 0
}

func printDirs(r *Runner, w io.Writer) {
	fmt.Fprint(w, r.Dir)
	for i := len(r.DirStack) - 1; i >= 0; i-- {
		fmt.Fprintf(w, " %s", r.DirStack[i])
	}
	fmt.Fprintln(w)
}


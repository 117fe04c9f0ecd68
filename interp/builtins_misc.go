// Copyright (c) 2026, cerf authors
// See LICENSE for licensing information

package interp

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

func init() {
	registerBuiltin(Builtin{Name: "exit", Description: "exit the shell", Usage: "exit [code]", Run: builtinExit})
	registerBuiltin(Builtin{Name: "true", Description: "do nothing, successfully", Usage: "true", Run: builtinTrue})
	registerBuiltin(Builtin{Name: "false", Description: "do nothing, unsuccessfully", Usage: "false", Run: builtinFalse})
	registerBuiltin(Builtin{Name: "echo", Description: "print arguments", Usage: "echo [args...]", Run: builtinEcho})
	registerBuiltin(Builtin{Name: "read", Description: "read a line into a variable", Usage: "read [-r] [-s] [-p prompt] [name]", Run: builtinRead})
	registerBuiltin(Builtin{Name: "test", Description: "evaluate a conditional expression", Usage: "test expr", Run: builtinTest})
	registerBuiltin(Builtin{Name: "[", Description: "evaluate a conditional expression", Usage: "[ expr ]", Run: builtinBracketTest})
	registerBuiltin(Builtin{Name: "clear", Description: "clear the terminal", Usage: "clear", Run: builtinClear})
	registerBuiltin(Builtin{Name: "help", Description: "list built-in commands", Usage: "help [name]", Run: builtinHelp})
	registerBuiltin(Builtin{Name: "history", Description: "print command history", Usage: "history", Run: builtinHistory})
	registerBuiltin(Builtin{Name: "source", Description: "read and run commands from a file", Usage: "source file", Run: builtinSource})
	registerBuiltin(Builtin{Name: ".", Description: "read and run commands from a file", Usage: ". file", Run: builtinSource})
	registerBuiltin(Builtin{Name: "type", Description: "show how a name would be resolved", Usage: "type name", Run: builtinType})
	registerBuiltin(Builtin{Name: "rehash", Description: "forget cached PATH lookups", Usage: "rehash", Run: builtinRehash})
	registerBuiltin(Builtin{Name: "exec", Description: "replace the shell with a command", Usage: "exec command [args...]", Run: builtinExec})
}

func builtinExit(r *Runner, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	code := r.LastStatus
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Fprintf(stderr, "exit: %s: numeric argument required\n", args[0])
			code = 2
		} else {
			code = n
		}
	}
	r.pendingExit = &code
	return code
}

func builtinTrue(r *Runner, args []string, stdin io.Reader, stdout, stderr io.Writer) int { return 0 }

func builtinFalse(r *Runner, args []string, stdin io.Reader, stdout, stderr io.Writer) int { return 1 }

func builtinEcho(r *Runner, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	newline := true
	i := 0
	if len(args) > 0 && args[0] == "-n" {
		newline = false
		i = 1
	}
	fmt.Fprint(stdout, strings.Join(args[i:], " "))
	if newline {
		fmt.Fprintln(stdout)
	}
	return 0
}

func builtinRead(r *Runner, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	varName := "REPLY"
	prompt := ""
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-r", "-s":
			// raw/silent modes: no escape processing or echo suppression
			// needed beyond the default, since Runner never echoes reads.
		case "-p":
			if i+1 < len(args) {
				i++
				prompt = args[i]
			}
		default:
			varName = args[i]
		}
	}
	if prompt != "" {
		fmt.Fprint(stderr, prompt)
	}
	scanner := bufio.NewScanner(stdin)
	if !scanner.Scan() {
		return 1
	}
	r.SetVar(varName, scanner.Text())
	return 0
}

func builtinClear(r *Runner, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fmt.Fprint(stdout, "\x1b[H\x1b[2J")
	return 0
}

func builtinHelp(r *Runner, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		for _, name := range sortedBuiltinNames() {
			b := builtins[name]
			fmt.Fprintf(stdout, "%-12s %s\n", b.Name, b.Description)
		}
		return 0
	}
	if b, ok := builtins[args[0]]; ok {
		fmt.Fprintf(stdout, "%s: %s\n", b.Name, b.Usage)
		return 0
	}
	fmt.Fprintf(stderr, "help: %s: no help topic\n", args[0])
	return 1
}

func builtinHistory(r *Runner, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	for i, line := range r.History {
		fmt.Fprintf(stdout, "%5d  %s\n", i+1, line)
	}
	return 0
}

const maxSourceDepth = 64

func builtinSource(r *Runner, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stderr, "source: filename argument required")
		return 1
	}
	if r.sourceDepth >= maxSourceDepth {
		fmt.Fprintln(stderr, "source: maximum source depth exceeded")
		return 1
	}
	path := r.expandHomePath(args[0])
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stderr, "source: %v\n", err)
		return 1
	}
	r.sourceDepth++
	defer func() { r.sourceDepth-- }()

	status := 0
	for _, line := range splitLines(string(data)) {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		status = r.Run(context.Background(), line)
	}
	return status
}

func builtinType(r *Runner, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stderr, "type: usage: type name")
		return 1
	}
	status := 0
	for _, name := range args {
		switch {
		case r.Aliases[name] != "":
			fmt.Fprintf(stdout, "%s is aliased to `%s'\n", name, r.Aliases[name])
		case builtins[name] != nil:
			fmt.Fprintf(stdout, "%s is a shell builtin\n", name)
		default:
			if path, err := r.findExecutable(name); err == nil {
				fmt.Fprintf(stdout, "%s is %s\n", name, path)
			} else {
				fmt.Fprintf(stderr, "type: %s: not found\n", name)
				status = 1
			}
		}
	}
	return status
}

func builtinRehash(r *Runner, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	r.rehash()
	return 0
}

// builtinExec runs command in the foreground and then exits the shell
// with its status, approximating process replacement without requiring
// a platform-specific exec(2)/CreateProcess swap-in.
func builtinExec(r *Runner, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		return 0
	}
	status := r.runExternal(context.Background(), args[0], args[1:], stdin, stdout, stderr, false, args[0])
	r.pendingExit = &status
	return status
}

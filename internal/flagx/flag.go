// Package flagx lets several independent flag sets share one command line.
package flagx

import (
	"flag"
	"strconv"
	"strings"
)

// flagName returns the name of a "-name", "--name" or "-name=value" token,
// and false for anything that is not a flag.
func flagName(arg string) (string, bool) {
	if len(arg) < 2 || arg[0] != '-' || isNumber(arg) {
		return "", false
	}
	name := strings.TrimLeft(arg, "-")
	name, _, _ = strings.Cut(name, "=")
	return name, name != ""
}

func isNumber(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// FilterArgs keeps only the flags named in names (given without dashes)
// together with their values, so the result can be handed to a FlagSet that
// knows nothing about the other flags on the command line.
//
// Both "-n value" and "-n=value" are recognised, with one or two dashes.
// A token following a flag is treated as its value unless it is itself a
// flag; negative numbers count as values.
func FilterArgs(args []string, names ...string) []string {
	keep := make(map[string]bool, len(names))
	for _, n := range names {
		keep[n] = true
	}

	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		name, ok := flagName(args[i])
		if !ok || !keep[name] {
			continue
		}
		out = append(out, args[i])
		if strings.Contains(args[i], "=") {
			continue
		}
		if i+1 < len(args) {
			if _, next := flagName(args[i+1]); !next {
				out = append(out, args[i+1])
				i++
			}
		}
	}
	return out
}

// ConfigPath returns the value of the -c/-config flag in args, or "" when
// neither is given. The last occurrence wins.
func ConfigPath(args []string) string {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "path to config file")
	fs.StringVar(&path, "c", "", "path to config file (short)")
	_ = fs.Parse(FilterArgs(args, "c", "config"))

	return path
}

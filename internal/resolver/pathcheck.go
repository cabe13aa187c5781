// internal/resolver/pathcheck.go
package resolver

import (
	"strings"
)

const (
	// DefaultProgramPath is searched for RIP command line executables
	DefaultProgramPath = "/usr/bin:/bin"
	// DefaultFilterPath is searched for *cupsFilter executables
	DefaultFilterPath = "/usr/lib/cups/filter:/usr/lib64/cups/filter"

	resolvedTrue    = "true"
	resolvedBuiltin = "builtin"
)

var shellBuiltins = map[string]bool{
	":": true, ".": true, "[": true, "alias": true, "bind": true, "break": true,
	"cd": true, "continue": true, "declare": true, "echo": true, "else": true,
	"eval": true, "exec": true, "exit": true, "export": true, "fi": true,
	"if": true, "kill": true, "let": true, "local": true, "popd": true,
	"printf": true, "pushd": true, "pwd": true, "read": true, "readonly": true,
	"set": true, "shift": true, "shopt": true, "source": true, "test": true,
	"then": true, "trap": true, "type": true, "ulimit": true, "umask": true,
	"unalias": true, "unset": true, "wait": true,
}

// IsShellBuiltin reports whether name is one of the shell keywords that
// never need an executable.
func IsShellBuiltin(name string) bool {
	return shellBuiltins[name]
}

// StripPlaceholder removes a foomatic %-style placeholder suffix
func StripPlaceholder(name string) string {
	if i := strings.IndexByte(name, '%'); i >= 0 {
		return name[:i]
	}
	return name
}

// PathCheck resolves name against a colon separated search path. It returns
// the resolved path ("true" for an empty name, "builtin" for assignments and
// shell builtins) and whether resolution succeeded.
func PathCheck(name, searchPath string) (string, bool) {
	name = StripPlaceholder(name)
	if name == "" {
		return resolvedTrue, true
	}

	if strings.HasPrefix(name, "/") {
		if isExecutable(name) {
			return name, true
		}
		return "", false
	}

	if strings.Contains(name, "=") || IsShellBuiltin(name) {
		return resolvedBuiltin, true
	}

	for _, dir := range strings.Split(searchPath, ":") {
		file := strings.TrimRight(dir, "/") + "/" + name
		if isExecutable(file) {
			return file, true
		}
	}

	return "", false
}

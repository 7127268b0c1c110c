package classify

import "strings"

// shebangMap is the closed interpreter->language mapping for the
// first-line shebang shortcut.
var shebangMap = map[string]string{
	"node":    "javascript",
	"jsc":     "javascript",
	"rhino":   "javascript",
	"deno":    "javascript",
	"python3": "python",
	"python2": "python",
	"php":     "php",
	"perl":    "perl",
	"bash":    "shell",
	"sh":      "shell",
	"zsh":     "shell",
}

// shebangLanguage returns the mapped language for a line like
// "#!/usr/bin/env python3" or "#!/bin/bash", and whether it matched.
// The interpreter is the last whitespace-separated token's basename, so
// both the direct and the env-wrapped forms resolve.
func shebangLanguage(firstLine string) (string, bool) {
	if !strings.HasPrefix(firstLine, "#!") {
		return "", false
	}
	fields := strings.Fields(strings.TrimPrefix(firstLine, "#!"))
	if len(fields) == 0 {
		return "", false
	}
	interpreter := fields[len(fields)-1]
	if i := strings.LastIndexByte(interpreter, '/'); i >= 0 {
		interpreter = interpreter[i+1:]
	}
	lang, ok := shebangMap[interpreter]
	return lang, ok
}

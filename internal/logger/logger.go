// Package logger provides leveled, prefix-tagged logging for the routing
// daemon. It mirrors the teacher project's hand-rolled logger rather than
// pulling in a logging library: the daemon has exactly one output stream
// (stderr via the standard log package) and four levels, which doesn't
// warrant a dependency.
package logger

import (
	"fmt"
	"log"
	"os"
)

type Level int

const (
	NONE Level = iota
	WARN
	INFO
	DEBUG
)

const LevelEnvVar = "LOG_LEVEL"

var level Level

func init() {
	SetLevelFromEnv()
}

// SetLevelFromEnv (re)reads LOG_LEVEL from the process environment. It is
// called automatically at package init, and exposed so callers can re-read
// it later; SetLevel forces a specific level.
func SetLevelFromEnv() {
	envvar, present := os.LookupEnv(LevelEnvVar)
	if !present {
		level = INFO
		return
	}
	SetLevel(envvar)
}

// SetLevel parses a level name ("NONE", "WARN", "INFO", "DEBUG") and applies
// it. Unknown names fall back to INFO with a warning.
func SetLevel(name string) {
	switch name {
	case "NONE":
		level = NONE
	case "WARN":
		level = WARN
	case "INFO":
		level = INFO
	case "DEBUG":
		level = DEBUG
	default:
		level = INFO
		Warnf("unknown log level %q, defaulting to INFO", name)
	}
}

// Errorf prints an error message prefixed with "[ERROR] " and terminates the
// process. Reserved for configuration-fatal errors, such as a missing link
// cost for a neighbor that has sent a HELLO.
func Errorf(format string, v ...any) {
	log.Fatalf(fmt.Sprintf("[ERROR] %s", format), v...)
}

// Warnf prints a message prefixed with "[WARN] ".
func Warnf(format string, v ...any) {
	if level < WARN {
		return
	}
	log.Printf(fmt.Sprintf("[WARN] %s", format), v...)
}

// Infof prints an informational message prefixed with "[INFO] ".
func Infof(format string, v ...any) {
	if level < INFO {
		return
	}
	log.Printf(fmt.Sprintf("[INFO] %s", format), v...)
}

// Debugf prints a debug message prefixed with "[DEBUG] ".
func Debugf(format string, v ...any) {
	if level < DEBUG {
		return
	}
	log.Printf(fmt.Sprintf("[DEBUG] %s", format), v...)
}

package posthog

import (
	"fmt"
	"log/slog"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/dverney/cascade/pkg/telemetry"
)

const modulePath = "github.com/dverney/cascade"

var version = moduleVersion()

// meta carries the identity half of a report's payload.
type meta struct {
	name   string
	level  string
	module string
}

// props merges ad hoc fields under the standard properties. Standard keys
// are written last, so a colliding ad hoc field never displaces them.
func props(m meta, fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields)+6)
	for k, v := range fields {
		out[k] = v
	}

	if v, ok := fields[telemetry.FieldActivity]; ok {
		out["$screen_name"] = v
	}

	out["name"] = m.name
	out["$lib"] = "telemetry/go"
	out["level"] = m.level
	out["module"] = m.module
	out["version"] = version
	return out
}

// recordMeta derives the source-location name and the package path from the
// record's program counter, mirroring what a span gets from its name and
// instrumentation scope.
func recordMeta(rec slog.Record) (name, module string) {
	if rec.PC == 0 {
		return "event", "unknown"
	}

	frame, _ := runtime.CallersFrames([]uintptr{rec.PC}).Next()
	if frame.Function == "" {
		return "event", "unknown"
	}

	return fmt.Sprintf("event %s:%d", frame.File, frame.Line), packagePath(frame.Function)
}

// packagePath strips the function and receiver from a fully qualified
// symbol, leaving the import path.
func packagePath(fn string) string {
	slash := strings.LastIndex(fn, "/")
	dot := strings.Index(fn[slash+1:], ".")
	if dot < 0 {
		return fn
	}
	return fn[:slash+1+dot]
}

// moduleVersion resolves this library's version from the host binary's build
// info: the dependency entry when embedded in a tool, the main module when
// built inside this repository.
func moduleVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "(devel)"
	}

	for _, dep := range info.Deps {
		if dep.Path == modulePath {
			return dep.Version
		}
	}
	if info.Main.Path == modulePath && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}

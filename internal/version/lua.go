package version

import (
	"bytes"
	"os/exec"
	"regexp"
	"slices"
	"strings"
)

// Dialects lists the accepted values of the --lua option.
var Dialects = []string{"5.1", "5.2", "5.3", "5.4", "luajit"}

// IsValidDialect reports whether d names a supported dialect.
func IsValidDialect(d string) bool {
	return slices.Contains(Dialects, d)
}

// LuaBinaryInfo describes the Lua interpreter found in PATH.
type LuaBinaryInfo struct {
	Version string `json:"version"`
	Path    string `json:"path"`
	Dialect string `json:"dialect"`
	Found   bool   `json:"found"`
	Message string `json:"message,omitempty"`
}

// luaVersionRegex matches "Lua 5.4.6" and "LuaJIT 2.1.0-beta3".
var luaVersionRegex = regexp.MustCompile(`Lua(JIT)? (\d+\.\d+(?:\.\d+)?(?:-[a-zA-Z0-9.]+)?)`)

// DetectLua looks for luajit or lua in PATH and reads its version banner.
func DetectLua() LuaBinaryInfo {
	var path string
	for _, name := range []string{"lua", "luajit"} {
		if p, err := exec.LookPath(name); err == nil {
			path = p
			break
		}
	}
	if path == "" {
		return LuaBinaryInfo{Message: "no Lua interpreter found in PATH"}
	}

	cmd := exec.Command(path, "-v")
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return LuaBinaryInfo{Path: path, Found: true, Message: "failed to get Lua version: " + err.Error()}
	}

	ver, dialect, ok := ParseLuaBanner(out.String())
	if !ok {
		return LuaBinaryInfo{Path: path, Found: true, Message: "failed to parse Lua version from output: " + strings.TrimSpace(out.String())}
	}
	return LuaBinaryInfo{Version: ver, Path: path, Dialect: dialect, Found: true}
}

// ParseLuaBanner extracts the version and dialect from `lua -v` output.
func ParseLuaBanner(output string) (ver, dialect string, ok bool) {
	m := luaVersionRegex.FindStringSubmatch(output)
	if m == nil {
		return "", "", false
	}
	ver = m[2]
	if m[1] != "" {
		return ver, "luajit", true
	}
	parts := strings.SplitN(ver, ".", 3)
	return ver, parts[0] + "." + parts[1], true
}

// DialectCompatible reports whether a bundle targeting dialect can run on an
// interpreter of the detected dialect. LuaJIT runs 5.1 code.
func DialectCompatible(dialect, detected string) bool {
	if dialect == "" || dialect == detected {
		return true
	}
	return dialect == "5.1" && detected == "luajit"
}

func (l LuaBinaryInfo) String() string {
	if !l.Found {
		return "  Interpreter: not found"
	}
	if l.Version == "" {
		return "  Interpreter: " + l.Path + " (" + l.Message + ")"
	}
	return "  Interpreter: " + l.Path + "\n  Version:     " + l.Version + " (" + l.Dialect + ")"
}

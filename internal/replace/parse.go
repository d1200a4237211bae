package replace

import (
	"fmt"
	"slices"
	"strings"

	lperrors "github.com/luapack/luapack/internal/errors"
)

const ruleHint = "rules look like: match=prefix,prefix=bar.,new=bar_require,arg={rest}"

func invalidRule(raw, field, format string, args ...any) error {
	return &lperrors.DetailError{
		Type:    "invalid replace rule",
		Message: fmt.Sprintf(format, args...),
		Field:   field,
		Context: map[string]string{"Rule": raw},
		Hint:    ruleHint,
		Cause:   lperrors.ErrValidation,
	}
}

// ParseRules parses each raw rule string in order.
func ParseRules(raws []string) ([]Rule, error) {
	rules := make([]Rule, 0, len(raws))
	for _, raw := range raws {
		r, err := ParseRule(raw)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// ParseRule parses a comma-separated key=value rule. Keys are match, old,
// new, name, prefix, path (repeatable) and arg.
func ParseRule(raw string) (Rule, error) {
	r := Rule{Old: "require", Arg: ArgFull, Raw: raw}
	hasMatch := false
	var paths []string

	for _, part := range strings.Split(raw, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		k, v, ok := strings.Cut(part, "=")
		if !ok {
			return Rule{}, invalidRule(raw, "", "expected key=value, got %q", part)
		}
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		switch k {
		case "match":
			switch v {
			case "exact":
				r.Match = MatchExact
			case "prefix":
				r.Match = MatchPrefix
			case "path":
				r.Match = MatchPath
			default:
				return Rule{}, invalidRule(raw, k, "unknown match kind: %s", v)
			}
			hasMatch = true
		case "old":
			r.Old = v
		case "new":
			r.New = v
		case "name":
			r.Name = v
		case "prefix":
			r.Prefix = v
		case "path":
			paths = append(paths, v)
		case "arg":
			switch v {
			case "{rest}":
				r.Arg = ArgRest
			case "{full}":
				r.Arg = ArgFull
			default:
				return Rule{}, invalidRule(raw, k, "unknown arg mode: %s", v)
			}
		default:
			return Rule{}, invalidRule(raw, k, "unknown key: %s", k)
		}
	}

	if !hasMatch {
		return Rule{}, invalidRule(raw, "match", "replace rule requires 'match='")
	}
	if r.New == "" {
		return Rule{}, invalidRule(raw, "new", "replace rule requires 'new='")
	}

	switch r.Match {
	case MatchExact:
		if r.Name == "" {
			return Rule{}, invalidRule(raw, "name", "exact rule requires 'name='")
		}
		r.FileScopePatterns = paths
	case MatchPrefix:
		if r.Prefix == "" {
			return Rule{}, invalidRule(raw, "prefix", "prefix rule requires 'prefix='")
		}
		r.FileScopePatterns = paths
	case MatchPath:
		if len(paths) == 0 {
			return Rule{}, invalidRule(raw, "path", "path rule requires at least one 'path='")
		}
		r.TargetPathPatterns = paths
	}
	return r, nil
}

// String renders the rule in its parseable form.
func (r Rule) String() string {
	parts := []string{"match=" + r.Match.String()}
	if r.Old != "" && r.Old != "require" {
		parts = append(parts, "old="+r.Old)
	}
	parts = append(parts, "new="+r.New)
	switch r.Match {
	case MatchExact:
		parts = append(parts, "name="+r.Name)
	case MatchPrefix:
		parts = append(parts, "prefix="+r.Prefix)
	}
	for _, p := range slices.Concat(r.FileScopePatterns, r.TargetPathPatterns) {
		parts = append(parts, "path="+p)
	}
	parts = append(parts, "arg="+r.Arg.String())
	return strings.Join(parts, ",")
}

package actionrunner

import (
	"fmt"
	"slices"
)

// BuildGroupOrder is the order named build step groups run in. Groups not
// listed here run afterwards in lexical order.
var BuildGroupOrder = []string{"configure", "pre_build", "build", "post_build", "status"}

// InstallerCommands flattens an installer step set: a command string or a
// list of command strings.
func InstallerCommands(spec any) ([]string, error) {
	cmds, err := commandList(spec)
	if err != nil {
		return nil, fmt.Errorf("installer: %w", err)
	}
	return cmds, nil
}

// BuildCommands flattens a build step set: a command string, a list of
// command strings, or an object of named groups each holding a string or a
// list of strings.
func BuildCommands(spec any) ([]string, error) {
	groups, ok := spec.(map[string]any)
	if !ok {
		cmds, err := commandList(spec)
		if err != nil {
			return nil, fmt.Errorf("build_steps: %w", err)
		}
		return cmds, nil
	}

	var cmds []string
	for _, name := range groupOrder(groups) {
		group, err := commandList(groups[name])
		if err != nil {
			return nil, fmt.Errorf("build_steps.%s: %w", name, err)
		}
		cmds = append(cmds, group...)
	}
	return cmds, nil
}

func groupOrder(groups map[string]any) []string {
	order := make([]string, 0, len(groups))
	for _, name := range BuildGroupOrder {
		if _, ok := groups[name]; ok {
			order = append(order, name)
		}
	}

	var rest []string
	for name := range groups {
		if !slices.Contains(BuildGroupOrder, name) {
			rest = append(rest, name)
		}
	}
	slices.Sort(rest)
	return append(order, rest...)
}

func commandList(spec any) ([]string, error) {
	switch v := spec.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{v}, nil
	case []string:
		return v, nil
	case []any:
		cmds := make([]string, 0, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("item %d is %T, want a command string", i, item)
			}
			cmds = append(cmds, s)
		}
		return cmds, nil
	default:
		return nil, fmt.Errorf("unsupported step set of type %T", spec)
	}
}

package validator

import (
	"fmt"
	"strings"

	"github.com/aretw0/mbt/internal/dto"
)

// ValidateModel checks for broken links and unreachable states or transitions starting from the initial state.
// Guards are not evaluated: a state is reachable if some chain of transitions leads to it.
func ValidateModel(f *dto.ModelFile) error {
	var errors []string

	declared := make(map[string]bool, len(f.States))
	for _, s := range f.States {
		if declared[s.ID] {
			errors = append(errors, fmt.Sprintf("Duplicate state: '%s'", s.ID))
		}
		declared[s.ID] = true
	}

	start := f.InitialID()
	if start == "" {
		errors = append(errors, "No initial state")
	} else if !declared[start] {
		errors = append(errors, fmt.Sprintf("Missing initial state: '%s'", start))
	}

	outgoing := make(map[string][]string)
	names := make([]string, len(f.Transitions))
	for i, t := range f.Transitions {
		name := t.ID
		if name == "" {
			name = fmt.Sprintf("#%d (%s)", i, t.Label)
		}
		names[i] = name
		src, dst := t.SourceID(), t.TargetID()
		if !declared[src] {
			errors = append(errors, fmt.Sprintf("Missing source state '%s' in transition %s", src, name))
		}
		if !declared[dst] {
			errors = append(errors, fmt.Sprintf("Missing target state '%s' in transition %s", dst, name))
		}
		outgoing[src] = append(outgoing[src], dst)
	}

	if declared[start] {
		visited := map[string]bool{start: true}
		queue := []string{start}
		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]
			for _, next := range outgoing[current] {
				if !visited[next] {
					visited[next] = true
					queue = append(queue, next)
				}
			}
		}
		for _, s := range f.States {
			if !visited[s.ID] {
				errors = append(errors, fmt.Sprintf("Unreachable state: '%s'", s.ID))
			}
		}
		for i, t := range f.Transitions {
			if declared[t.SourceID()] && !visited[t.SourceID()] {
				errors = append(errors, fmt.Sprintf("Unreachable transition: %s", names[i]))
			}
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("found %d errors:\n- %s", len(errors), strings.Join(errors, "\n- "))
	}
	return nil
}

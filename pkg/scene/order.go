package scene

import (
	"strings"

	"github.com/matzehuels/bendchain/pkg/errors"
)

const (
	unvisited = iota
	visiting
	done
)

// Order returns every node ID such that each node comes after its
// predecessor. Unlinked nodes keep their insertion order. A cycle in the
// predecessor links yields an error with code CYCLE.
func (s *Scene) Order() ([]NodeID, error) {
	state := make(map[NodeID]int, len(s.nodes))
	order := make([]NodeID, 0, len(s.nodes))

	for _, start := range s.nodes {
		if state[start.ID] == done {
			continue
		}

		// Walk up towards the chain root, then emit on the way back down.
		var path []*Node
	walk:
		for n := start; ; {
			switch state[n.ID] {
			case done:
				break walk
			case visiting:
				return nil, errors.New(errors.ErrCodeCycle, "predecessor cycle: %s", cycleNames(n, path))
			}
			state[n.ID] = visiting
			path = append(path, n)

			pred, ok := s.Predecessor(n)
			if !ok {
				break
			}
			n = pred
		}

		for i := len(path) - 1; i >= 0; i-- {
			state[path[i].ID] = done
			order = append(order, path[i].ID)
		}
	}
	return order, nil
}

// cycleNames renders the part of path that loops back to n.
func cycleNames(n *Node, path []*Node) string {
	var names []string
	for i, p := range path {
		if p == n {
			for _, q := range path[i:] {
				names = append(names, q.Name)
			}
			break
		}
	}
	names = append(names, n.Name)
	return strings.Join(names, " -> ")
}

// gorder.go - Cache-locality group relabeling for openVCB

/*
 ▒█████   ██▓███   ▓█████  ███▄    █  ██▒   █▓  ▄████▄   ▄▄▄▄
▒██▒  ██▒▓██░  ██▒ ▓█   ▀  ██ ▀█   █ ▓██░   █▒ ▒██▀ ▀█  ▓█████▄
▒██░  ██▒▓██░ ██▓▒ ▒███   ▓██  ▀█ ██▒ ▓██  █▒░ ▒▓█    ▄ ▒██▒ ▄██▒
▒██   ██░▒██▄█▓▒ ▒ ▒▓█  ▄ ▓██▒  ▐▌██▒  ▒██ █░░ ▒▓▓▄ ▄██▒▒██░█▀
░ ████▓▒░▒██▒ ░  ░ ░▒████▒▒██░   ▓██░   ▒▀█░   ▒ ▓███▀ ░░▓█  ▀█▓
░ ▒░▒░▒░ ▒▓▒░ ░  ░ ░░ ▒░ ░░ ▒░   ▒ ▒    ░ ▐░   ░ ░▒ ▒  ░░▒▓███▀▒
  ░ ▒ ▒░ ░▒ ░       ░ ░  ░░ ░░   ░ ▒░   ░ ░░     ░  ▒   ▒░▒   ░
░ ░ ░ ▒  ░░           ░      ░   ░ ░      ░░   ░         ░    ░
    ░ ░               ░  ░         ░       ░   ░ ░       ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/openVCB
License: GPLv3 or later
*/

// Optional cache-friendly relabeling of group ids, requested through the
// useGorder flag of Preprocess. Groups that exchange events end up with
// nearby ids, which keeps the frontier buffers and the state arrays hot
// while a signal front travels through the circuit. A breadth-first
// traversal of the undirected group graph gives most of that benefit at a
// fraction of the cost of a full sliding-window ordering.
//
// The wires-before-components partition of the id space is preserved: ids
// are handed out from two cursors, one per partition, as the traversal
// discovers groups.

package main

// gorderPermutation returns perm with perm[old] = new. New ids respect the
// partition boundary at numWires.
func gorderPermutation(numGroups, numWires int32, edges []edge) []int32 {
	adj := make([][]int32, numGroups)
	for _, e := range edges {
		adj[e.from] = append(adj[e.from], e.to)
		adj[e.to] = append(adj[e.to], e.from)
	}

	perm := make([]int32, numGroups)
	for i := range perm {
		perm[i] = -1
	}
	nextWire := int32(0)
	nextComp := numWires
	assign := func(g int32) {
		if perm[g] >= 0 {
			return
		}
		if g < numWires {
			perm[g] = nextWire
			nextWire++
		} else {
			perm[g] = nextComp
			nextComp++
		}
	}

	seen := make([]bool, numGroups)
	queue := make([]int32, 0, 64)
	for s := int32(0); s < numGroups; s++ {
		if seen[s] {
			continue
		}
		seen[s] = true
		queue = append(queue[:0], s)
		for len(queue) > 0 {
			g := queue[0]
			queue = queue[1:]
			assign(g)
			for _, nb := range adj[g] {
				if !seen[nb] {
					seen[nb] = true
					queue = append(queue, nb)
				}
			}
		}
	}
	return perm
}

// applyPermutation rewrites the index image, the edge list and the per-group
// ink table in place under the given relabeling.
func applyPermutation(perm []int32, indexImage []int32, edges []edge, groupInk []Ink) {
	for i, g := range indexImage {
		if g >= 0 {
			indexImage[i] = perm[g]
		}
	}
	for i := range edges {
		edges[i].from = perm[edges[i].from]
		edges[i].to = perm[edges[i].to]
	}
	relabeled := make([]Ink, len(groupInk))
	for old, now := range perm {
		relabeled[now] = groupInk[old]
	}
	copy(groupInk, relabeled)
}

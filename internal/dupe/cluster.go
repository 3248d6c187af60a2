package dupe

import "sort"

// Cluster is a maximal set of records mutually reachable through pair edges.
// Confidence is the minimum confidence among the cluster's internal edges:
// a cluster is only as strong as its weakest link, which keeps title-only
// chains visibly distinguishable from tight id-linked groups.
type Cluster struct {
	Members    []string    `json:"members"`
	Pairs      []PairMatch `json:"pairs"`
	Confidence float64     `json:"confidence"`
}

// unionFind tracks connected components over record ids. All iteration
// happens over sorted inputs so the resulting partition never depends on map
// order.
type unionFind struct {
	parent map[string]string
}

func newUnionFind() *unionFind {
	return &unionFind{parent: make(map[string]string)}
}

func (u *unionFind) find(id string) string {
	root, ok := u.parent[id]
	if !ok {
		u.parent[id] = id
		return id
	}
	if root == id {
		return id
	}
	resolved := u.find(root)
	u.parent[id] = resolved
	return resolved
}

// union merges two components, keeping the lexicographically smaller root so
// component identity is deterministic.
func (u *unionFind) union(a, b string) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	if rb < ra {
		ra, rb = rb, ra
	}
	u.parent[rb] = ra
}

// buildClusters groups pair edges into disjoint clusters. Isolated records
// never enter the union-find structure and are absent from the result.
func buildClusters(pairs []PairMatch) []Cluster {
	edges := make([]PairMatch, len(pairs))
	copy(edges, pairs)
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].AID != edges[j].AID {
			return edges[i].AID < edges[j].AID
		}
		return edges[i].BID < edges[j].BID
	})

	uf := newUnionFind()
	for _, edge := range edges {
		uf.union(edge.AID, edge.BID)
	}

	memberRoots := make(map[string]string)
	roots := make([]string, 0)
	for _, edge := range edges {
		for _, id := range []string{edge.AID, edge.BID} {
			if _, seen := memberRoots[id]; seen {
				continue
			}
			root := uf.find(id)
			memberRoots[id] = root
			roots = append(roots, root)
		}
	}

	grouped := make(map[string]*Cluster)
	order := make([]string, 0)
	for _, root := range roots {
		if _, ok := grouped[root]; !ok {
			grouped[root] = &Cluster{}
			order = append(order, root)
		}
	}
	for _, edge := range edges {
		cluster := grouped[uf.find(edge.AID)]
		cluster.Pairs = append(cluster.Pairs, edge)
	}

	memberIDs := make([]string, 0, len(memberRoots))
	for id := range memberRoots {
		memberIDs = append(memberIDs, id)
	}
	sort.Strings(memberIDs)
	for _, id := range memberIDs {
		cluster := grouped[memberRoots[id]]
		cluster.Members = append(cluster.Members, id)
	}

	clusters := make([]Cluster, 0, len(order))
	for _, root := range order {
		cluster := grouped[root]
		cluster.Confidence = minEdgeConfidence(cluster.Pairs)
		sort.SliceStable(cluster.Pairs, func(i, j int) bool {
			if cluster.Pairs[i].Confidence != cluster.Pairs[j].Confidence {
				return cluster.Pairs[i].Confidence > cluster.Pairs[j].Confidence
			}
			if cluster.Pairs[i].AID != cluster.Pairs[j].AID {
				return cluster.Pairs[i].AID < cluster.Pairs[j].AID
			}
			return cluster.Pairs[i].BID < cluster.Pairs[j].BID
		})
		clusters = append(clusters, *cluster)
	}
	return clusters
}

func minEdgeConfidence(pairs []PairMatch) float64 {
	if len(pairs) == 0 {
		return 0
	}
	minConf := pairs[0].Confidence
	for _, pair := range pairs[1:] {
		if pair.Confidence < minConf {
			minConf = pair.Confidence
		}
	}
	return minConf
}

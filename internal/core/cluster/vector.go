package cluster

import (
	"context"
	"math"

	perr "nichelens/internal/platform/errors"
)

const kmeansMaxRounds = 25

// Vector clusters leads by cosine similarity over precomputed embeddings
// using K-means on unit-normalized vectors. Leads without a vector are not
// eligible; fetching embeddings is the caller's job
type Vector struct{}

// NewVector constructs the vector strategy
func NewVector() *Vector { return &Vector{} }

func (*Vector) Name() string { return StrategyVector }

// Cluster runs K-means over the embedded leads. K is auto-selected from the
// corpus size when unset. Centroid seeding is deterministic (farthest-point
// from the first lead) so identical input yields identical clusters
func (s *Vector) Cluster(_ context.Context, leads []Lead, p Params) (Outcome, error) {
	leads, p, early := prepare(s.Name(), leads, p)
	if early != nil {
		return *early, nil
	}

	embedded := make([]Lead, 0, len(leads))
	dim := 0
	for _, l := range leads {
		if len(l.Vector) == 0 {
			continue
		}
		if dim == 0 {
			dim = len(l.Vector)
		}
		if len(l.Vector) != dim {
			return Outcome{}, perr.InvalidArgf("embedding dimension mismatch: lead %s has %d, expected %d", l.ID, len(l.Vector), dim)
		}
		embedded = append(embedded, l)
	}
	if len(embedded) < 2 {
		return Outcome{Strategy: s.Name(), Insufficient: true}, nil
	}
	if err := validateK(p.K, len(embedded)); err != nil {
		return Outcome{}, err
	}

	vecs := make([][]float32, len(embedded))
	for i, l := range embedded {
		vecs[i] = unit(l.Vector)
	}

	k := p.K
	if k == 0 {
		k = autoVectorK(len(embedded))
	}

	assignments := kmeans(vecs, k)

	out := Outcome{Strategy: s.Name()}
	for c := 0; c < k; c++ {
		var members []Lead
		var memberVecs [][]float32
		for i, a := range assignments {
			if a == c {
				members = append(members, embedded[i])
				memberVecs = append(memberVecs, vecs[i])
			}
		}
		if len(members) == 0 {
			continue
		}
		sc := buildSubCluster("", members, meanCentroidSimilarity(memberVecs))
		out.SubClusters = append(out.SubClusters, sc)
		out.CoveredLeads += sc.MemberCount
	}
	sortClusters(out.SubClusters)
	return out, nil
}

// autoVectorK is the usual sqrt(n/2) heuristic clamped to a sane range
func autoVectorK(n int) int {
	k := int(math.Round(math.Sqrt(float64(n) / 2)))
	if k < minAutoK {
		k = minAutoK
	}
	if k > maxAutoK {
		k = maxAutoK
	}
	if k > n {
		k = n
	}
	return k
}

// kmeans assigns each vector to the nearest of k centroids by cosine
// similarity, re-estimating centroids until stable or the round cap
func kmeans(vecs [][]float32, k int) []int {
	centroids := seedCentroids(vecs, k)
	assignments := make([]int, len(vecs))
	for i := range assignments {
		assignments[i] = -1
	}

	for round := 0; round < kmeansMaxRounds; round++ {
		changed := false
		for i, v := range vecs {
			best, bestSim := 0, math.Inf(-1)
			for c, cent := range centroids {
				if sim := dot(v, cent); sim > bestSim {
					best, bestSim = c, sim
				}
			}
			if assignments[i] != best {
				assignments[i] = best
				changed = true
			}
		}
		if !changed {
			break
		}

		for c := range centroids {
			mean := make([]float32, len(vecs[0]))
			n := 0
			for i, a := range assignments {
				if a != c {
					continue
				}
				for d, x := range vecs[i] {
					mean[d] += x
				}
				n++
			}
			if n == 0 {
				continue // empty centroid keeps its previous position
			}
			for d := range mean {
				mean[d] /= float32(n)
			}
			centroids[c] = unit(mean)
		}
	}
	return assignments
}

// seedCentroids picks k starting points by greedy farthest-point traversal
// beginning at the first vector
func seedCentroids(vecs [][]float32, k int) [][]float32 {
	centroids := make([][]float32, 0, k)
	centroids = append(centroids, vecs[0])
	for len(centroids) < k {
		worstIdx, worstSim := 0, math.Inf(1)
		for i, v := range vecs {
			// similarity to the closest existing centroid
			closest := math.Inf(-1)
			for _, c := range centroids {
				if sim := dot(v, c); sim > closest {
					closest = sim
				}
			}
			if closest < worstSim {
				worstIdx, worstSim = i, closest
			}
		}
		centroids = append(centroids, vecs[worstIdx])
	}
	return centroids
}

func meanCentroidSimilarity(vecs [][]float32) float64 {
	if len(vecs) == 0 {
		return 0
	}
	mean := make([]float32, len(vecs[0]))
	for _, v := range vecs {
		for d, x := range v {
			mean[d] += x
		}
	}
	for d := range mean {
		mean[d] /= float32(len(vecs))
	}
	cent := unit(mean)

	var sum float64
	for _, v := range vecs {
		sum += dot(v, cent)
	}
	return sum / float64(len(vecs))
}

// unit returns v scaled to unit length; zero vectors pass through unchanged
func unit(v []float32) []float32 {
	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return v
	}
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

// dot of two unit vectors is their cosine similarity
func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

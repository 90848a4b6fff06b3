package risk

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"spendguard/internal/model"
)

// Node is one node of a decision tree. Leaves have Left == -1 and
// Right == -1. Every node keeps the class distribution of the training
// samples that reached it; the explanation engine walks these.
type Node struct {
	Distribution []float64
	Threshold    float64
	Feature      int
	Left         int
	Right        int
}

// Tree is a single CART tree stored as a flat node slice, root at 0.
type Tree struct {
	Nodes []Node
}

// Walk follows the decision path for x and returns the indices of the
// visited nodes, root first, leaf last.
func (t Tree) Walk(x []float64) []int {
	path := []int{0}
	idx := 0
	for {
		n := t.Nodes[idx]
		if n.Left < 0 {
			return path
		}
		if x[n.Feature] <= n.Threshold {
			idx = n.Left
		} else {
			idx = n.Right
		}
		path = append(path, idx)
	}
}

// Distribution returns the leaf class distribution for x.
func (t Tree) Distribution(x []float64) []float64 {
	path := t.Walk(x)
	return t.Nodes[path[len(path)-1]].Distribution
}

// Forest is a trained random forest over the fixed feature schema.
// It is read-only after training or loading.
type Forest struct {
	Trees        []Tree
	FeatureNames []string
	NumClasses   int
}

// TrainConfig controls forest training. The zero value is not usable;
// start from DefaultTrainConfig.
type TrainConfig struct {
	Trees          int
	MaxDepth       int
	MinSamplesLeaf int
	Seed           int64
}

// DefaultTrainConfig mirrors the defaults the model was originally
// tuned with. Seed 42 keeps runs byte-for-byte reproducible.
func DefaultTrainConfig() TrainConfig {
	return TrainConfig{
		Trees:          100,
		MaxDepth:       10,
		MinSamplesLeaf: 1,
		Seed:           42,
	}
}

// Train fits a random forest on the dataset. Each tree is grown on a
// bootstrap sample; splits minimize Gini impurity. Training is fully
// deterministic for a fixed config and dataset.
func Train(ds Dataset, cfg TrainConfig) (*Forest, error) {
	if len(ds.X) == 0 {
		return nil, fmt.Errorf("cannot train on an empty dataset")
	}
	if cfg.Trees <= 0 {
		return nil, fmt.Errorf("invalid tree count %d", cfg.Trees)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	forest := &Forest{
		Trees:        make([]Tree, 0, cfg.Trees),
		FeatureNames: append([]string(nil), FeatureNames...),
		NumClasses:   NumRiskClasses,
	}

	n := len(ds.X)
	for i := 0; i < cfg.Trees; i++ {
		sample := make([]int, n)
		for j := range sample {
			sample[j] = rng.Intn(n)
		}

		b := &treeBuilder{
			x:          ds.X,
			y:          ds.Y,
			numClasses: NumRiskClasses,
			maxDepth:   cfg.MaxDepth,
			minLeaf:    cfg.MinSamplesLeaf,
		}
		b.build(sample, 0)
		forest.Trees = append(forest.Trees, Tree{Nodes: b.nodes})
	}

	return forest, nil
}

// Probabilities returns the forest's averaged class distribution for a
// raw feature vector. The caller is responsible for validation.
func (f *Forest) Probabilities(x []float64) []float64 {
	probs := make([]float64, f.NumClasses)
	for _, t := range f.Trees {
		for c, p := range t.Distribution(x) {
			probs[c] += p
		}
	}
	for c := range probs {
		probs[c] /= float64(len(f.Trees))
	}
	return probs
}

// Predict classifies a single feature row, failing fast on malformed
// input. Ties resolve to the lowest (least severe) tier so repeated
// calls always agree.
func (f *Forest) Predict(feats Features) (model.RiskLevel, error) {
	if err := feats.Validate(); err != nil {
		return 0, err
	}
	probs := f.Probabilities(feats.Vector())
	best := 0
	for c := 1; c < len(probs); c++ {
		if probs[c] > probs[best] {
			best = c
		}
	}
	return model.RiskLevel(best), nil
}

// ScoreProfiles classifies every merchant in the slice, returning a new
// slice with the prediction columns attached. Feature columns are never
// mutated. The optional onRow callback fires after each merchant, for
// progress reporting.
func (f *Forest) ScoreProfiles(profiles []model.MerchantProfile, onRow func(model.MerchantProfile)) ([]model.MerchantProfile, error) {
	scored := make([]model.MerchantProfile, len(profiles))
	for i, p := range profiles {
		level, err := f.Predict(FromProfile(p))
		if err != nil {
			return nil, fmt.Errorf("scoring merchant %q: %w", p.MerchantName, err)
		}
		p.MLPrediction = level
		p.MLRiskLevel = level.String()
		p.Scored = true
		scored[i] = p
		if onRow != nil {
			onRow(p)
		}
	}
	return scored, nil
}

// treeBuilder grows one CART tree over a bootstrap sample.
type treeBuilder struct {
	x          [][]float64
	y          []int
	nodes      []Node
	numClasses int
	maxDepth   int
	minLeaf    int
}

func (b *treeBuilder) build(indices []int, depth int) int {
	id := len(b.nodes)
	b.nodes = append(b.nodes, Node{
		Distribution: b.distribution(indices),
		Left:         -1,
		Right:        -1,
	})

	if depth >= b.maxDepth || len(indices) < 2*b.minLeaf || isPure(b.nodes[id].Distribution) {
		return id
	}

	feat, thr, ok := b.bestSplit(indices)
	if !ok {
		return id
	}

	var left, right []int
	for _, i := range indices {
		if b.x[i][feat] <= thr {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) < b.minLeaf || len(right) < b.minLeaf {
		return id
	}

	l := b.build(left, depth+1)
	r := b.build(right, depth+1)
	b.nodes[id].Feature = feat
	b.nodes[id].Threshold = thr
	b.nodes[id].Left = l
	b.nodes[id].Right = r
	return id
}

// bestSplit scans every feature and candidate threshold, returning the
// split with the lowest weighted Gini impurity. Candidates are midpoints
// between consecutive distinct values, scanned in a fixed order so the
// result is deterministic.
func (b *treeBuilder) bestSplit(indices []int) (feature int, threshold float64, ok bool) {
	best := math.Inf(1)
	feature = -1

	nFeatures := len(b.x[indices[0]])
	total := float64(len(indices))

	for f := 0; f < nFeatures; f++ {
		order := append([]int(nil), indices...)
		sort.SliceStable(order, func(i, j int) bool {
			return b.x[order[i]][f] < b.x[order[j]][f]
		})

		leftCounts := make([]float64, b.numClasses)
		rightCounts := make([]float64, b.numClasses)
		for _, i := range order {
			rightCounts[b.y[i]]++
		}

		for k := 0; k < len(order)-1; k++ {
			leftCounts[b.y[order[k]]]++
			rightCounts[b.y[order[k]]]--

			// Cannot split between equal feature values.
			if b.x[order[k]][f] == b.x[order[k+1]][f] {
				continue
			}

			nl := float64(k + 1)
			nr := total - nl
			impurity := (nl*gini(leftCounts, nl) + nr*gini(rightCounts, nr)) / total
			if impurity < best-1e-12 {
				best = impurity
				feature = f
				threshold = (b.x[order[k]][f] + b.x[order[k+1]][f]) / 2
			}
		}
	}

	return feature, threshold, feature >= 0
}

func (b *treeBuilder) distribution(indices []int) []float64 {
	dist := make([]float64, b.numClasses)
	for _, i := range indices {
		dist[b.y[i]]++
	}
	n := float64(len(indices))
	for c := range dist {
		dist[c] /= n
	}
	return dist
}

func gini(counts []float64, n float64) float64 {
	g := 1.0
	for _, c := range counts {
		p := c / n
		g -= p * p
	}
	return g
}

func isPure(dist []float64) bool {
	for _, p := range dist {
		if p == 1 {
			return true
		}
	}
	return false
}

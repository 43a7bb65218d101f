// Package locator answers closest-point queries over a fixed point cloud
// using a KD-tree.
package locator

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

// cloudPoint is a point of the cloud tagged with its index in the
// original slice. The tree reorders its backing slice while building, so
// the index has to travel with the point.
type cloudPoint struct {
	r3.Vec
	idx int
}

// Compare implements the kdtree.Comparable interface
func (p cloudPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(cloudPoint)
	switch d {
	case 0:
		return p.X - q.X
	case 1:
		return p.Y - q.Y
	case 2:
		return p.Z - q.Z
	default:
		panic("illegal dimension")
	}
}

// Dims returns the number of dimensions for the KD-tree
func (p cloudPoint) Dims() int { return 3 }

// Distance returns the squared Euclidean distance between two points
func (p cloudPoint) Distance(c kdtree.Comparable) float64 {
	q := c.(cloudPoint)
	return r3.Norm2(r3.Sub(p.Vec, q.Vec))
}

type cloudPoints []cloudPoint

func (p cloudPoints) Index(i int) kdtree.Comparable         { return p[i] }
func (p cloudPoints) Len() int                              { return len(p) }
func (p cloudPoints) Slice(start, end int) kdtree.Interface { return p[start:end] }

// Pivot implements the kdtree.Interface method
func (p cloudPoints) Pivot(d kdtree.Dim) int {
	return kdtree.Partition(cloudPlane{cloudPoints: p, Dim: d}, kdtree.MedianOfMedians(cloudPlane{cloudPoints: p, Dim: d}))
}

// cloudPlane implements sort.Interface and kdtree.SortSlicer for cloudPoints
type cloudPlane struct {
	cloudPoints
	kdtree.Dim
}

func (p cloudPlane) Less(i, j int) bool {
	switch p.Dim {
	case 0:
		return p.cloudPoints[i].X < p.cloudPoints[j].X
	case 1:
		return p.cloudPoints[i].Y < p.cloudPoints[j].Y
	case 2:
		return p.cloudPoints[i].Z < p.cloudPoints[j].Z
	default:
		panic("illegal dimension")
	}
}

func (p cloudPlane) Slice(start, end int) kdtree.SortSlicer {
	return cloudPlane{cloudPoints: p.cloudPoints[start:end], Dim: p.Dim}
}

func (p cloudPlane) Swap(i, j int) {
	p.cloudPoints[i], p.cloudPoints[j] = p.cloudPoints[j], p.cloudPoints[i]
}

// Locator finds the closest cloud point to a query position.
type Locator struct {
	tree *kdtree.Tree
	size int
}

// New builds a locator over points. The input slice is not modified.
func New(points []r3.Vec) (*Locator, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("cannot build locator over an empty point cloud")
	}
	cloud := make(cloudPoints, len(points))
	for i, p := range points {
		cloud[i] = cloudPoint{Vec: p, idx: i}
	}
	// MedianOfMedians keeps the build deterministic.
	return &Locator{tree: kdtree.New(cloud, false), size: len(points)}, nil
}

// Len returns the number of points in the cloud.
func (l *Locator) Len() int {
	return l.size
}

// Closest returns the index of the cloud point nearest to q, the point
// itself, and its squared distance to q. When several cloud points are at
// exactly the same distance the one with the lowest index wins.
func (l *Locator) Closest(q r3.Vec) (int, r3.Vec, float64) {
	query := cloudPoint{Vec: q, idx: -1}
	_, best := l.tree.Nearest(query)

	// Collect every point tied with the best distance and keep the lowest
	// index. The radius is nudged up one ulp so that ties lying exactly on a
	// splitting plane are not pruned.
	keeper := kdtree.NewDistKeeper(math.Nextafter(best, math.Inf(1)))
	l.tree.NearestSet(keeper, query)

	found := cloudPoint{idx: -1}
	for _, item := range keeper.Heap {
		// Skip the sentinel value
		if item.Comparable == nil {
			continue
		}
		p := item.Comparable.(cloudPoint)
		if item.Dist != best {
			continue
		}
		if found.idx < 0 || p.idx < found.idx {
			found = p
		}
	}
	return found.idx, found.Vec, best
}

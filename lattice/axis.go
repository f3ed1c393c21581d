package lattice

// AxisLayers is the layer triple whose joint visitation triggers the
// singularity: root, heart, crown.
var AxisLayers = [3]int{AxisRoot, AxisHeart, AxisCrown}

// AxisTracker records which of the axis layers (1, 4, 7) have been visited
// since the last axis reset.
type AxisTracker struct {
	seen [3]bool
}

func axisIndex(layer int) (int, bool) {
	switch layer {
	case AxisRoot:
		return 0, true
	case AxisHeart:
		return 1, true
	case AxisCrown:
		return 2, true
	default:
		return 0, false
	}
}

// Mark records a visit to the given layer if it is an axis layer.
// Non-axis layers are ignored.
func (a *AxisTracker) Mark(layer int) {
	if i, ok := axisIndex(layer); ok {
		a.seen[i] = true
	}
}

// Ready reports whether all three axis layers have been visited.
func (a *AxisTracker) Ready() bool {
	return a.seen[0] && a.seen[1] && a.seen[2]
}

// Reset clears all axis flags.
func (a *AxisTracker) Reset() {
	a.seen = [3]bool{}
}

// Flags returns the activation flags keyed by axis layer, the shape the
// seed schema persists.
func (a *AxisTracker) Flags() map[int]bool {
	return map[int]bool{
		AxisRoot:  a.seen[0],
		AxisHeart: a.seen[1],
		AxisCrown: a.seen[2],
	}
}

// RestoreAxis builds a tracker from persisted flags. Non-axis keys are
// ignored; absent keys restore to false.
func RestoreAxis(flags map[int]bool) AxisTracker {
	var a AxisTracker
	for layer, set := range flags {
		if i, ok := axisIndex(layer); ok && set {
			a.seen[i] = true
		}
	}
	return a
}

package models

// AnchorCoordinate identifies the grid cell holding a product block's
// "Giá bán" label.
type AnchorCoordinate struct {
	// R is the row index (0-based).
	R int `json:"r"`
	// C is the column index (0-based).
	C int `json:"c"`
}

// AnchorCoordinateSet is the cached list of anchors in discovery order
// (row-major, then column-major).
type AnchorCoordinateSet []AnchorCoordinate

// Equal reports whether both sets hold the same coordinates in the same order.
// A nil set equals an empty one.
func (s AnchorCoordinateSet) Equal(other AnchorCoordinateSet) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy that does not share storage with s.
func (s AnchorCoordinateSet) Clone() AnchorCoordinateSet {
	if s == nil {
		return nil
	}
	out := make(AnchorCoordinateSet, len(s))
	copy(out, s)
	return out
}

package detector

// Fixture hands. Every fixture is a right hand held upright in front of the
// camera with the wrist at (0.5, 0.8); y grows downwards.

type fingerShape int

const (
	fingerExtended fingerShape = iota
	fingerCurled
	fingerHalfBent
)

type thumbShape int

const (
	thumbTucked thumbShape = iota
	thumbSplayed
	thumbUp
)

// finger layout: x of the knuckle row and y of the MCP joint.
var fingerBase = [4]struct {
	mcp  int
	x, y float64
}{
	{IndexMCP, 0.56, 0.65},
	{MiddleMCP, 0.50, 0.64},
	{RingMCP, 0.45, 0.65},
	{PinkyMCP, 0.40, 0.67},
}

func placeFinger(h *HandLandmarks, finger int, shape fingerShape) {
	b := fingerBase[finger]
	mcp, pip, dip, tip := b.mcp, b.mcp+1, b.mcp+2, b.mcp+3

	h.Points[mcp] = Point3D{X: b.x, Y: b.y}
	switch shape {
	case fingerExtended:
		h.Points[pip] = Point3D{X: b.x, Y: b.y - 0.13}
		h.Points[dip] = Point3D{X: b.x, Y: b.y - 0.21}
		h.Points[tip] = Point3D{X: b.x, Y: b.y - 0.29}
	case fingerCurled:
		h.Points[pip] = Point3D{X: b.x, Y: b.y - 0.07, Z: -0.04}
		h.Points[dip] = Point3D{X: b.x - 0.01, Y: b.y - 0.03, Z: -0.05}
		h.Points[tip] = Point3D{X: b.x - 0.01, Y: b.y + 0.01, Z: -0.03}
	case fingerHalfBent:
		// tip level with the PIP joint: neither extended nor curled
		h.Points[pip] = Point3D{X: b.x, Y: b.y - 0.10, Z: -0.02}
		h.Points[dip] = Point3D{X: b.x, Y: b.y - 0.13, Z: -0.04}
		h.Points[tip] = Point3D{X: b.x - 0.01, Y: b.y - 0.10, Z: -0.05}
	}
}

func placeThumb(h *HandLandmarks, shape thumbShape) {
	h.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.76}
	switch shape {
	case thumbTucked:
		h.Points[ThumbMCP] = Point3D{X: 0.57, Y: 0.71}
		h.Points[ThumbIP] = Point3D{X: 0.55, Y: 0.67, Z: -0.03}
		h.Points[ThumbTip] = Point3D{X: 0.52, Y: 0.66, Z: -0.04}
	case thumbSplayed:
		h.Points[ThumbMCP] = Point3D{X: 0.60, Y: 0.72}
		h.Points[ThumbIP] = Point3D{X: 0.65, Y: 0.66}
		h.Points[ThumbTip] = Point3D{X: 0.70, Y: 0.62}
	case thumbUp:
		h.Points[ThumbMCP] = Point3D{X: 0.58, Y: 0.68}
		h.Points[ThumbIP] = Point3D{X: 0.60, Y: 0.52}
		h.Points[ThumbTip] = Point3D{X: 0.61, Y: 0.40}
	}
}

func buildHand(thumb thumbShape, index, middle, ring, pinky fingerShape) HandLandmarks {
	h := HandLandmarks{Handedness: "Right", Score: 0.95}
	h.Points[Wrist] = Point3D{X: 0.5, Y: 0.8}
	placeThumb(&h, thumb)
	for i, shape := range [4]fingerShape{index, middle, ring, pinky} {
		placeFinger(&h, i, shape)
	}
	return h
}

// FistLandmarks returns a closed fist with the thumb folded over the fingers.
func FistLandmarks() HandLandmarks {
	return buildHand(thumbTucked, fingerCurled, fingerCurled, fingerCurled, fingerCurled)
}

// ThumbsUpLandmarks returns a thumbs up: thumb raised, fingers curled.
func ThumbsUpLandmarks() HandLandmarks {
	return buildHand(thumbUp, fingerCurled, fingerCurled, fingerCurled, fingerCurled)
}

// YayLandmarks returns a single raised index finger.
func YayLandmarks() HandLandmarks {
	return buildHand(thumbTucked, fingerExtended, fingerCurled, fingerCurled, fingerCurled)
}

// PeaceLandmarks returns index and middle raised in a V.
func PeaceLandmarks() HandLandmarks {
	return buildHand(thumbTucked, fingerExtended, fingerExtended, fingerCurled, fingerCurled)
}

// LoveLandmarks returns index, middle and ring raised.
func LoveLandmarks() HandLandmarks {
	return buildHand(thumbTucked, fingerExtended, fingerExtended, fingerExtended, fingerCurled)
}

// RockLandmarks returns the horns: index and pinky raised.
func RockLandmarks() HandLandmarks {
	return buildHand(thumbTucked, fingerExtended, fingerCurled, fingerCurled, fingerExtended)
}

// OpenPalmLandmarks returns an open palm, all fingers extended and the
// thumb splayed.
func OpenPalmLandmarks() HandLandmarks {
	return buildHand(thumbSplayed, fingerExtended, fingerExtended, fingerExtended, fingerExtended)
}

// HalfBentLandmarks returns a hand whose index finger is neither clearly
// extended nor clearly curled.
func HalfBentLandmarks() HandLandmarks {
	return buildHand(thumbTucked, fingerHalfBent, fingerCurled, fingerCurled, fingerCurled)
}

package detector

import (
	"encoding/json"
	"fmt"
)

// wireHand is the JSON shape shared by the MediaPipe helper and recorded
// sessions. Points is a slice so short or malformed input can be rejected.
type wireHand struct {
	Points     []Point3D `json:"points"`
	Handedness string    `json:"handedness"`
	Score      float64   `json:"score"`
}

func (w wireHand) toHandLandmarks() (HandLandmarks, error) {
	h, err := FromPoints(w.Points)
	if err != nil {
		return HandLandmarks{}, err
	}
	h.Handedness = w.Handedness
	h.Score = w.Score
	return *h, nil
}

// DecodeHands parses a {"hands":[...]} document, dropping hands that do not
// carry all 21 landmarks.
func DecodeHands(data []byte) ([]HandLandmarks, error) {
	var response struct {
		Hands []wireHand `json:"hands"`
	}
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	hands := make([]HandLandmarks, 0, len(response.Hands))
	for _, wh := range response.Hands {
		h, err := wh.toHandLandmarks()
		if err != nil {
			continue
		}
		hands = append(hands, h)
	}
	return hands, nil
}

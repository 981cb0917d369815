package models

// Character is the saved pose of a named character.
type Character struct {
	Name      string  `json:"name"`
	Timestamp int64   `json:"timestamp"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Z         float64 `json:"z"`
	Heading   float64 `json:"heading"`
	Pitch     float64 `json:"pitch"`
}

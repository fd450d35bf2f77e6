package utils

import (
	"strings"

	"github.com/google/uuid"
)

const ParkingIDPrefix = "park_"

// NewParkingID returns "park_" followed by eight random hex characters.
func NewParkingID() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return ParkingIDPrefix + hex[:8]
}

package main

import (
	"fmt"
	"io"

	"parcheggiml/models"
)

func availabilityMarker(p float64) string {
	switch {
	case p > 0.7:
		return "🟢"
	case p > 0.4:
		return "🟡"
	default:
		return "🔴"
	}
}

func printRanked(w io.Writer, parkings []models.ParkingResult) {
	for i, p := range parkings {
		fmt.Fprintf(w, "%d. %s %s\n   distance: %.2f km - availability: %.0f%%\n",
			i+1, availabilityMarker(p.AvailabilityProb), p.Address, p.Distance, p.AvailabilityProb*100)
	}
}

func printSummary(w io.Writer, parkings []models.ParkingResult) {
	for i, p := range parkings {
		fmt.Fprintf(w, "%d. %s %s\n", i+1, availabilityMarker(p.AvailabilityProb), p.Address)
	}
}

package booking

import "innkeeper/internal/models"

// Price computes the stay total: billable nights times the nightly
// rate, in cents. Pure; evaluated with the rate of the room actually
// assigned, at write time. Stored totals are never recomputed on read.
func Price(stay models.Stay, nightlyRate models.Cents) models.Cents {
	return models.Cents(stay.Nights()) * nightlyRate
}

package models

import "time"

type Feedback struct {
	ID            uint    `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	ParkingID     string  `json:"parking_id" gorm:"column:parking_id;type:varchar(255);index;not null"`
	Timestamp     string  `json:"timestamp" gorm:"column:timestamp;type:varchar(40);not null"`
	FreeSpots     int     `json:"free_spots" gorm:"column:free_spots"`
	ParkedSuccess bool    `json:"parked_success" gorm:"column:parked_success"`
	Weather       *string `json:"weather" gorm:"column:weather;type:varchar(100)"`
	EventContext  *string `json:"event_context" gorm:"column:event_context;type:varchar(255)"`
	PhotoURL      *string `json:"photo_url" gorm:"column:photo_url;type:varchar(512)"`
}

func (Feedback) TableName() string {
	return "feedbacks"
}

// HistoricalSample is one observed availability keyed by parking id and timestamp.
// A second write with the same key replaces the first.
type HistoricalSample struct {
	ParkingID    string  `json:"parking_id" gorm:"column:parking_id;primaryKey;type:varchar(255)"`
	Timestamp    string  `json:"timestamp" gorm:"column:timestamp;primaryKey;type:varchar(40)"`
	Availability float64 `json:"availability" gorm:"column:availability"`
}

func (HistoricalSample) TableName() string {
	return "historical_data"
}

// Time parses the stored timestamp.
func (h HistoricalSample) Time() (time.Time, error) {
	return time.Parse(TimestampLayout, h.Timestamp)
}

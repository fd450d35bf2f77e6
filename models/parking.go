package models

// Parking is a registered parking entry. A nil Covered, Paid or Capacity means unknown.
type Parking struct {
	ID          string  `json:"id" gorm:"column:id;primaryKey;type:varchar(32)"`
	Latitude    float64 `json:"latitude" gorm:"column:latitude;not null"`
	Longitude   float64 `json:"longitude" gorm:"column:longitude;not null"`
	Address     string  `json:"address" gorm:"column:address;type:varchar(255);not null"`
	Covered     *bool   `json:"covered" gorm:"column:covered"`
	Paid        *bool   `json:"paid" gorm:"column:paid"`
	Capacity    *int    `json:"capacity" gorm:"column:capacity"`
	PricingInfo *string `json:"pricing_info" gorm:"column:pricing_info;type:text"`
	LastUpdated string  `json:"last_updated" gorm:"column:last_updated;type:varchar(40)"`
}

func (Parking) TableName() string {
	return "parkings"
}

// IsCovered reports whether the entry is known to be covered.
func (p *Parking) IsCovered() bool {
	return p.Covered != nil && *p.Covered
}

// IsPaid reports whether the entry is known to be paid parking.
func (p *Parking) IsPaid() bool {
	return p.Paid != nil && *p.Paid
}

// MissingFields lists the optional attributes whose stored value is unknown.
func (p *Parking) MissingFields() []string {
	missing := []string{}
	if p.Covered == nil {
		missing = append(missing, "covered")
	}
	if p.Paid == nil {
		missing = append(missing, "paid")
	}
	if p.Capacity == nil {
		missing = append(missing, "capacity")
	}
	return missing
}

// Location is a resolved coordinate pair.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ParkingResult is one ranked entry returned to the caller. It is never persisted.
type ParkingResult struct {
	ID               string  `json:"id"`
	Address          string  `json:"address"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	Distance         float64 `json:"distance"`
	AvailabilityProb float64 `json:"availability_prob"`
	TargetTime       string  `json:"target_time,omitempty"`
	Covered          bool    `json:"covered"`
	Paid             bool    `json:"paid"`
	Capacity         *int    `json:"capacity"`
}

func (p *Parking) ToResult(distance, availability float64) ParkingResult {
	return ParkingResult{
		ID:               p.ID,
		Address:          p.Address,
		Latitude:         p.Latitude,
		Longitude:        p.Longitude,
		Distance:         distance,
		AvailabilityProb: availability,
		Covered:          p.IsCovered(),
		Paid:             p.IsPaid(),
		Capacity:         p.Capacity,
	}
}

// ParkingUpdate carries the attributes to overwrite; nil fields are left unchanged.
type ParkingUpdate struct {
	Covered     *bool
	Paid        *bool
	Capacity    *int
	PricingInfo *string
}

// Empty reports whether the update sets nothing.
func (u ParkingUpdate) Empty() bool {
	return u.Covered == nil && u.Paid == nil && u.Capacity == nil && u.PricingInfo == nil
}

// Apply copies the set fields onto p.
func (u ParkingUpdate) Apply(p *Parking) {
	if u.Covered != nil {
		p.Covered = u.Covered
	}
	if u.Paid != nil {
		p.Paid = u.Paid
	}
	if u.Capacity != nil {
		p.Capacity = u.Capacity
	}
	if u.PricingInfo != nil {
		p.PricingInfo = u.PricingInfo
	}
}

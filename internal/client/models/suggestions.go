package models

// Suggestions is a short-lived snapshot of distinct field values entered
// recently, used to autocomplete the order form.
type Suggestions struct {
	Recipients []string `json:"recipients"`
	Senders    []string `json:"senders"`
	BookedBy   []string `json:"booked_by"`
	Mobiles    []string `json:"mobiles"`
	Couriers   []string `json:"couriers"`
}

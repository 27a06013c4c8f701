package models

// Space is a bookable coworking space. The reservation service only reads
// spaces; their lifecycle is owned by the spaces service.
type Space struct {
	SpaceID      string  `json:"spaceId" dynamodbav:"spaceId"`
	Name         string  `json:"name" dynamodbav:"name"`
	Availability bool    `json:"availability" dynamodbav:"availability"`
	Hoster       string  `json:"hoster" dynamodbav:"hoster"`
	PricePerHour float64 `json:"pricePerHour" dynamodbav:"pricePerHour"`
	PricePerDay  float64 `json:"pricePerDay" dynamodbav:"pricePerDay"`
	Capacity     int     `json:"capacity" dynamodbav:"capacity"`
	WholeDay     bool    `json:"wholeDay" dynamodbav:"wholeDay"`
}

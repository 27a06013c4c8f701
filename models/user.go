package models

// User is read-only to the reservation service, used for existence checks
// and for enriching reservation listings.
type User struct {
	UserID string `json:"userId" dynamodbav:"userId"`
	Name   string `json:"name" dynamodbav:"name"`
	Email  string `json:"email" dynamodbav:"email"`
}

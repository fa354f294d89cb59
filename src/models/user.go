package models

import "hotelbooking/src/types"

// User mirrors the identity provider's account; ID is the provider's stable user id.
type User struct {
	ID    string `gorm:"primarykey" json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`

	types.Timestamps
}

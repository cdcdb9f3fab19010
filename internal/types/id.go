package types

import "github.com/google/uuid"

type ID string

// ShortIDLen is the length of the ID prefix shown in listings.
const ShortIDLen = 8

func NewID() ID {
	return ID(uuid.NewString())
}

func (id ID) Short() string {
	if len(id) > ShortIDLen {
		return string(id[:ShortIDLen])
	}
	return string(id)
}

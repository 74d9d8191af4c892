package cli

import (
	"errors"

	"github.com/dmitrijs2005/credkeeper/internal/common"
)

const msgInvalidCredentials = "Invalid username or password."

// userMessage maps a store error to what the user sees.
func userMessage(err error) string {
	switch {
	case errors.Is(err, common.ErrInvalidPassword):
		return "Password must not be empty."
	case errors.Is(err, common.ErrInvalidIdentifier):
		return "Username must not be empty."
	case errors.Is(err, common.ErrDuplicateIdentifier):
		return "Username is already registered."
	case errors.Is(err, common.ErrIdentifierNotFound):
		return "Username not found."
	case errors.Is(err, common.ErrConfiguration):
		return "Stored credential cannot be checked with the current settings."
	default:
		return "Internal error, see the log for details."
	}
}

package domain

import "errors"

// ValidatePinFormat checks the shape of a transaction PIN: exactly four
// digits. The PIN's correctness is verified only by the remote identity
// service; the client never stores or compares PIN values.
func ValidatePinFormat(pin string) error {
	if len(pin) != 4 {
		return errors.New("PIN must be 4 digits")
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return errors.New("PIN must be 4 digits")
		}
	}
	return nil
}

package domain

import "fmt"

// PinInfo describes the capabilities of one GPIO on a board.
type PinInfo struct {
	Number    int
	Input     bool
	Output    bool
	Flash     bool
	Strapping bool
}

func (p PinInfo) Name() string {
	return fmt.Sprintf("GPIO%d", p.Number)
}

const PIN_ID_SUFFIX = "_pin"

// PinID is the instance id of the pin owned by the controller id.
func PinID(parentID string) string {
	return parentID + PIN_ID_SUFFIX
}

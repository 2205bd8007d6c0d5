package ui

import (
	"rtconsole/model"
)

// Message type aliases - these are defined in the model package
type connectedMsg = model.ConnectedMsg
type serverEventMsg = model.ServerEventMsg
type transportClosedMsg = model.TransportClosedMsg
type flashTickMsg = model.FlashTickMsg

package testutil

import "rtconsole/model"

const OceanPaletteArgs = `{"theme":"ocean","colors":["#006994","#4A90E2","#87CEEB","#E0F6FF","#B8E6FF"]}`

// FunctionCall returns a function_call output item.
func FunctionCall(name, callID, args string) model.OutputItem {
	return model.OutputItem{
		Type:      model.ItemFunctionCall,
		Name:      name,
		CallID:    callID,
		Arguments: args,
		Status:    "completed",
	}
}

// ResponseDone wraps items in a response.done event.
func ResponseDone(items ...model.OutputItem) model.ServerEvent {
	return model.ServerEvent{
		Type:     model.EventResponseDone,
		Response: &model.Response{Status: "completed", Output: items},
	}
}

func SessionCreated() model.ServerEvent {
	return model.ServerEvent{Type: model.EventSessionCreated}
}

package model

import (
	"encoding/json"

	"rtconsole/catalog"
)

// FunctionCallOutput is a completed function call reported by the model.
// Arguments stays a JSON string; renderers decode it.
type FunctionCallOutput struct {
	Type      string `json:"type"`
	ID        string `json:"id,omitempty"`
	Status    string `json:"status,omitempty"`
	Name      string `json:"name"`
	CallID    string `json:"call_id"`
	Arguments string `json:"arguments"`
}

func outputFromItem(item OutputItem) FunctionCallOutput {
	return FunctionCallOutput{
		Type:      item.Type,
		ID:        item.ID,
		Status:    item.Status,
		Name:      item.Name,
		CallID:    item.CallID,
		Arguments: item.Arguments,
	}
}

// Function returns the catalog id for the output's name.
func (o FunctionCallOutput) Function() catalog.FunctionID {
	return catalog.Lookup(o.Name)
}

// RawJSON is the indented JSON of the whole output.
func (o FunctionCallOutput) RawJSON() string {
	data, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return ""
	}
	return string(data)
}

// upsertOutput replaces the entry with the same call_id in place, or
// prepends out when the call_id is new. The list stays newest-first and
// never holds two entries with one call_id.
func upsertOutput(list []FunctionCallOutput, out FunctionCallOutput) []FunctionCallOutput {
	for i := range list {
		if list[i].CallID == out.CallID {
			list[i] = out
			return list
		}
	}
	return append([]FunctionCallOutput{out}, list...)
}

package mapper

import (
	"encoding/json"
	"fmt"
)

// dfgDocument is the top-level JSON DFG document shape. JSON decoding
// is done with the standard library: no third-party JSON library
// appears anywhere in the example corpus (the corpus's only JSON use
// is transitive, inside akita/monitoring, never imported directly by
// teacher code), so encoding/json is the justified ambient choice
// here — see DESIGN.md.
type dfgDocument struct {
	Inputs          []string             `json:"inputs"`
	Output          outputSpec           `json:"output"`
	Nodes           []nodeSpec           `json:"nodes"`
	RuntimeMetadata *runtimeMetadataSpec `json:"runtime_metadata"`
}

// outputSpec accepts either a bare string naming the producer node id
// or an object of the form {"id": "<producer_node_id>"}.
type outputSpec struct {
	ID string

	set bool
}

func (o *outputSpec) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		o.ID = asString
		o.set = true
		return nil
	}

	var asObject struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &asObject); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	o.ID = asObject.ID
	o.set = true
	return nil
}

type nodeSpec struct {
	ID     string      `json:"id"`
	Op     string      `json:"op"`
	Inputs []inputSpec `json:"inputs"`
}

type inputSpec struct {
	Type  string `json:"type"`
	ID    *string `json:"id,omitempty"`
	Value *int    `json:"value,omitempty"`
}

type runtimeMetadataSpec struct {
	InputSizeInBytes int `json:"input_size_in_bytes"`
}

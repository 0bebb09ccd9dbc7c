package graph

import "encoding/json"

// ParseDocument decodes a snapshot document from JSON bytes and applies
// defaults (leaf kind, string params, out/in ports). Structural checks
// beyond JSON well-formedness live in internal/validation.
func ParseDocument(data []byte) (*Snapshot, error) {
	if len(data) == 0 {
		return nil, NewError(ErrCodeValidation, "empty snapshot document")
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, NewErrorf(ErrCodeValidation, "invalid snapshot document: %v", err).WithCause(err)
	}

	applyDefaults(&snap)
	return &snap, nil
}

// MarshalDocument encodes a snapshot back to its JSON document form.
func MarshalDocument(snap *Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, NewErrorf(ErrCodeValidation, "marshal snapshot: %v", err).WithCause(err)
	}
	return data, nil
}

func applyDefaults(snap *Snapshot) {
	for i := range snap.Connections {
		if snap.Connections[i].FromPort == "" {
			snap.Connections[i].FromPort = PortOut
		}
		if snap.Connections[i].ToPort == "" {
			snap.Connections[i].ToPort = PortIn
		}
	}
	defaultBlocks(snap.Blocks)
}

func defaultBlocks(blocks []Block) {
	for i := range blocks {
		for j := range blocks[i].Params {
			if blocks[i].Params[j].Type == "" {
				blocks[i].Params[j].Type = ParamString
			}
		}
		for z := range blocks[i].Zones {
			defaultBlocks(blocks[i].Zones[z].Blocks)
		}
	}
}

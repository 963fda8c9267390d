// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layout

import (
	"encoding/json"
)

type jsonUniforms struct {
	MinBindingSize uint64 `json:"minBindingSize"`
}

type jsonBinding struct {
	Index          uint32  `json:"index"`
	Name           string  `json:"name"`
	Type           string  `json:"type"`
	MinBindingSize *uint64 `json:"minBindingSize,omitempty"`
}

type jsonInfo struct {
	Uniforms *jsonUniforms `json:"uniforms"`
	Bindings []jsonBinding `json:"bindings"`
}

// MarshalJSON encodes the layout for consumers that do not use templates.
func (info *Info) MarshalJSON() ([]byte, error) {
	out := jsonInfo{Bindings: make([]jsonBinding, 0, len(info.Bindings))}
	if info.Uniforms != nil {
		out.Uniforms = &jsonUniforms{MinBindingSize: info.Uniforms.MinBindingSize}
	}
	for _, b := range info.Bindings {
		jb := jsonBinding{Index: b.Index, Name: b.Name}
		if bb, ok := b.Buffer(); ok {
			jb.Type = bb.Type.String()
			jb.MinBindingSize = bb.MinBindingSize
		}
		out.Bindings = append(out.Bindings, jb)
	}
	return json.Marshal(out)
}

// JSON returns the indented JSON encoding of the layout, newline-terminated.
func (info *Info) JSON() (string, error) {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data) + "\n", nil
}

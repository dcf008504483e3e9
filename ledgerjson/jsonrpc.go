// Copyright (c) 2014 The btcsuite developers
// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledgerjson

import (
	"encoding/json"
	"fmt"
)

// RPCVersion is the version string of a JSON-RPC message.
type RPCVersion string

const (
	// RpcVersion1 is JSON-RPC 1.0.
	RpcVersion1 RPCVersion = "1.0"

	// RpcVersion2 is JSON-RPC 2.0, which the ledger speaks.
	RpcVersion2 RPCVersion = "2.0"
)

// IsValid reports whether r is a supported version.
func (r RPCVersion) IsValid() bool {
	return r == RpcVersion1 || r == RpcVersion2
}

// String returns the version string.
func (r RPCVersion) String() string {
	return string(r)
}

// RPCErrorCode is the numeric code of an RPCError.
type RPCErrorCode int

// RPCError is the error member of a JSON-RPC response.
type RPCError struct {
	Code    RPCErrorCode `json:"code,omitempty"`
	Message string       `json:"message,omitempty"`
}

// Guarantee RPCError satisfies the builtin error interface.
var _, _ error = RPCError{}, (*RPCError)(nil)

// Error returns a string describing the RPC error.
func (e RPCError) Error() string {
	return fmt.Sprintf("%d: %s", e.Code, e.Message)
}

// NewRPCError returns an RPCError suitable for a JSON-RPC response.
func NewRPCError(code RPCErrorCode, message string) *RPCError {
	return &RPCError{
		Code:    code,
		Message: message,
	}
}

// IsValidIDType reports whether id is allowed as a JSON-RPC 2.0 id: a
// string, a number or null.
func IsValidIDType(id interface{}) bool {
	switch id.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64,
		string,
		nil:
		return true
	default:
		return false
	}
}

// Request is a JSON-RPC request.  Params are kept raw so the handler of a
// method decides how to decode them.
type Request struct {
	Jsonrpc RPCVersion        `json:"jsonrpc"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
	ID      interface{}       `json:"id"`
}

// NewRequest returns a request for method with each param marshalled to
// JSON.
func NewRequest(rpcVersion RPCVersion, id interface{}, method string,
	params []interface{}) (*Request, error) {

	if !rpcVersion.IsValid() {
		str := fmt.Sprintf("rpcversion '%s' is invalid", rpcVersion)
		return nil, makeError(ErrInvalidType, str)
	}
	if !IsValidIDType(id) {
		str := fmt.Sprintf("the id of type '%T' is invalid", id)
		return nil, makeError(ErrInvalidType, str)
	}

	rawParams := make([]json.RawMessage, 0, len(params))
	for _, param := range params {
		marshalledParam, err := json.Marshal(param)
		if err != nil {
			return nil, err
		}
		rawParams = append(rawParams, marshalledParam)
	}

	return &Request{
		Jsonrpc: rpcVersion,
		ID:      id,
		Method:  method,
		Params:  rawParams,
	}, nil
}

// UnmarshalParams decodes the params of the request into dst, one pointer
// per positional param.  Missing trailing params leave their destination
// untouched.
func (request *Request) UnmarshalParams(dst ...interface{}) error {
	if len(request.Params) > len(dst) {
		str := fmt.Sprintf("too many params for %s: %d > %d",
			request.Method, len(request.Params), len(dst))
		return makeError(ErrNumParams, str)
	}
	for i, raw := range request.Params {
		if err := json.Unmarshal(raw, dst[i]); err != nil {
			str := fmt.Sprintf("param %d of %s: %v", i,
				request.Method, err)
			return makeError(ErrInvalidType, str)
		}
	}
	return nil
}

// Response is a JSON-RPC response.
type Response struct {
	Jsonrpc RPCVersion      `json:"jsonrpc"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error"`
	ID      *interface{}    `json:"id"`
}

// NewResponse returns a response with an already marshalled result.
func NewResponse(rpcVersion RPCVersion, id interface{}, marshalledResult []byte,
	rpcErr *RPCError) (*Response, error) {

	if !rpcVersion.IsValid() {
		str := fmt.Sprintf("rpcversion '%s' is invalid", rpcVersion)
		return nil, makeError(ErrInvalidType, str)
	}
	if !IsValidIDType(id) {
		str := fmt.Sprintf("the id of type '%T' is invalid", id)
		return nil, makeError(ErrInvalidType, str)
	}

	pid := &id
	return &Response{
		Jsonrpc: rpcVersion,
		Result:  marshalledResult,
		Error:   rpcErr,
		ID:      pid,
	}, nil
}

// MarshalResponse marshals result and returns the encoded response.
func MarshalResponse(rpcVersion RPCVersion, id interface{}, result interface{},
	rpcErr *RPCError) ([]byte, error) {

	marshalledResult, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	response, err := NewResponse(rpcVersion, id, marshalledResult, rpcErr)
	if err != nil {
		return nil, err
	}
	return json.Marshal(response)
}

// Package api defines the GroupSwipe wire types and the Connect handler and
// client constructors for every service.
//
// Messages are plain Go structs encoded as JSON, so both sides must be built
// with the codec returned by Codec.
package api

import (
	"connectrpc.com/connect"
	"github.com/bytedance/sonic"
)

// codecName replaces Connect's default protojson codec.
const codecName = "json"

type jsonCodec struct{}

// Codec returns the JSON codec used by handlers and clients.
func Codec() connect.Codec {
	return jsonCodec{}
}

func (jsonCodec) Name() string { return codecName }

func (jsonCodec) Marshal(message any) ([]byte, error) {
	return sonic.Marshal(message)
}

func (jsonCodec) Unmarshal(data []byte, message any) error {
	if len(data) == 0 {
		return nil
	}
	return sonic.Unmarshal(data, message)
}

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(Codec())}, opts...)
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(Codec())}, opts...)
}

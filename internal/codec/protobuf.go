package codec

import (
	"fmt"
	"io"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/angeloszaimis/content-negotiation/internal/mediatype"
)

type protobufCodec struct {
	mo proto.MarshalOptions
	uo proto.UnmarshalOptions
}

// Protobuf renders and parses application/x-protobuf. Generic values travel
// as a google.protobuf.Value; proto messages are encoded as themselves.
func Protobuf() Renderer {
	return protobufCodec{
		mo: proto.MarshalOptions{Deterministic: true},
		uo: proto.UnmarshalOptions{},
	}
}

func (protobufCodec) MediaType() string { return "application/x-protobuf" }
func (protobufCodec) Format() string    { return "protobuf" }

func (p protobufCodec) Render(w io.Writer, v any, _ mediatype.MediaType) error {
	msg, ok := v.(proto.Message)
	if !ok {
		value, err := structpb.NewValue(v)
		if err != nil {
			return fmt.Errorf("protobuf: %w", err)
		}
		msg = value
	}

	b, err := p.mo.Marshal(msg)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

func (p protobufCodec) Parse(r io.Reader) (any, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var value structpb.Value
	if err := p.uo.Unmarshal(b, &value); err != nil {
		return nil, fmt.Errorf("protobuf: %w", err)
	}
	return value.AsInterface(), nil
}

package anchoring

import (
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"
)

// FileDescriptorSet returns a descriptor set mirroring the schema the
// anchoring service publishes, one file per schema module. The running
// service stays the source of truth for the wire format; this copy
// backs tests and the offline deployment path.
func FileDescriptorSet() *descriptorpb.FileDescriptorSet {
	helpers := &descriptorpb.FileDescriptorProto{
		Name:    proto.String("helpers.proto"),
		Package: proto.String("exonum.crypto"),
		Syntax:  proto.String("proto3"),
		MessageType: []*descriptorpb.DescriptorProto{
			{
				Name:  proto.String("Hash"),
				Field: []*descriptorpb.FieldDescriptorProto{bytesField("data", 1)},
			},
			{
				Name:  proto.String("PublicKey"),
				Field: []*descriptorpb.FieldDescriptorProto{bytesField("data", 1)},
			},
		},
	}

	btcTypes := &descriptorpb.FileDescriptorProto{
		Name:    proto.String("btc_types.proto"),
		Package: proto.String("exonum.btc_anchoring.btc"),
		Syntax:  proto.String("proto3"),
		MessageType: []*descriptorpb.DescriptorProto{
			{
				Name:  proto.String("PublicKey"),
				Field: []*descriptorpb.FieldDescriptorProto{bytesField("data", 1)},
			},
			{
				Name:  proto.String("Transaction"),
				Field: []*descriptorpb.FieldDescriptorProto{bytesField("data", 1)},
			},
		},
	}

	service := &descriptorpb.FileDescriptorProto{
		Name:       proto.String("service.proto"),
		Package:    proto.String("exonum.btc_anchoring"),
		Syntax:     proto.String("proto3"),
		Dependency: []string{"btc_types.proto", "helpers.proto"},
		MessageType: []*descriptorpb.DescriptorProto{
			{
				Name: proto.String("Config"),
				Field: []*descriptorpb.FieldDescriptorProto{
					scalarField("network", 1, descriptorpb.FieldDescriptorProto_TYPE_UINT32),
					scalarField("anchoring_interval", 2, descriptorpb.FieldDescriptorProto_TYPE_UINT64),
					scalarField("transaction_fee", 3, descriptorpb.FieldDescriptorProto_TYPE_UINT64),
					repeatedMessageField("anchoring_keys", 4, ".exonum.btc_anchoring.AnchoringKeys"),
				},
			},
			{
				Name: proto.String("AnchoringKeys"),
				Field: []*descriptorpb.FieldDescriptorProto{
					messageField("service_key", 1, ".exonum.crypto.PublicKey"),
					messageField("bitcoin_key", 2, ".exonum.btc_anchoring.btc.PublicKey"),
				},
			},
		},
	}

	return &descriptorpb.FileDescriptorSet{
		File: []*descriptorpb.FileDescriptorProto{helpers, btcTypes, service},
	}
}

// MarshaledFileDescriptorSet returns the serialized mirror, the form a
// schema loader serves.
func MarshaledFileDescriptorSet() ([]byte, error) {
	return proto.Marshal(FileDescriptorSet())
}

func scalarField(name string, number int32, typ descriptorpb.FieldDescriptorProto_Type) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:   proto.String(name),
		Number: proto.Int32(number),
		Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		Type:   typ.Enum(),
	}
}

func bytesField(name string, number int32) *descriptorpb.FieldDescriptorProto {
	return scalarField(name, number, descriptorpb.FieldDescriptorProto_TYPE_BYTES)
}

func messageField(name string, number int32, typeName string) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:     proto.String(name),
		Number:   proto.Int32(number),
		Label:    descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		Type:     descriptorpb.FieldDescriptorProto_TYPE_MESSAGE.Enum(),
		TypeName: proto.String(typeName),
	}
}

func repeatedMessageField(name string, number int32, typeName string) *descriptorpb.FieldDescriptorProto {
	f := messageField(name, number, typeName)
	f.Label = descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum()
	return f
}

package anchoring

import (
	"context"
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"

	"github.com/Bidon15/anchorkit/launcher"
	"github.com/Bidon15/anchorkit/schema"
)

// Schema modules and the messages the builder resolves from them.
const (
	moduleService  = "service"
	moduleBTCTypes = "btc_types"
	moduleHelpers  = "helpers"

	messageConfig        = "Config"
	messageAnchoringKeys = "AnchoringKeys"
	messagePublicKey     = "PublicKey"
)

// Config message field names.
const (
	fieldNetwork           protoreflect.Name = "network"
	fieldAnchoringInterval protoreflect.Name = "anchoring_interval"
	fieldTransactionFee    protoreflect.Name = "transaction_fee"
	fieldAnchoringKeys     protoreflect.Name = "anchoring_keys"
	fieldServiceKey        protoreflect.Name = "service_key"
	fieldBitcoinKey        protoreflect.Name = "bitcoin_key"
	fieldData              protoreflect.Name = "data"
)

// SpecLoader builds the serialized anchoring Config message for an
// instance. It implements launcher.SpecLoader; every failure it
// returns is a *launcher.SpecLoadError carrying the artifact name.
type SpecLoader struct {
	resolver *schema.Resolver
}

// NewSpecLoader returns a loader resolving schemas through the given
// resolver.
func NewSpecLoader(resolver *schema.Resolver) *SpecLoader {
	return &SpecLoader{resolver: resolver}
}

// Register installs an anchoring spec loader in the registry under
// ArtifactName.
func Register(reg *launcher.Registry, resolver *schema.Resolver) {
	reg.Register(ArtifactName, NewSpecLoader(resolver))
}

// LoadSpec implements launcher.SpecLoader.
func (l *SpecLoader) LoadSpec(ctx context.Context, inst launcher.Instance) ([]byte, error) {
	spec, err := l.buildSpec(ctx, inst)
	if err != nil {
		return nil, launcher.WrapSpecLoadError(inst.Artifact.Name, err)
	}
	return spec, nil
}

func (l *SpecLoader) buildSpec(ctx context.Context, inst launcher.Instance) ([]byte, error) {
	configDesc, err := l.resolver.Message(ctx, inst.Artifact, moduleService, messageConfig)
	if err != nil {
		return nil, err
	}
	entryDesc, err := l.resolver.Message(ctx, inst.Artifact, moduleService, messageAnchoringKeys)
	if err != nil {
		return nil, err
	}
	btcKeyDesc, err := l.resolver.Message(ctx, inst.Artifact, moduleBTCTypes, messagePublicKey)
	if err != nil {
		return nil, err
	}
	serviceKeyDesc, err := l.resolver.Message(ctx, inst.Artifact, moduleHelpers, messagePublicKey)
	if err != nil {
		return nil, err
	}

	cfg, err := DecodeConfig(inst.Config)
	if err != nil {
		return nil, err
	}
	magic, err := cfg.Network.Magic()
	if err != nil {
		return nil, err
	}

	msg := dynamicpb.NewMessage(configDesc)
	if err := setUint(msg, fieldNetwork, uint64(magic)); err != nil {
		return nil, err
	}
	if err := setUint(msg, fieldAnchoringInterval, cfg.AnchoringInterval); err != nil {
		return nil, err
	}
	if err := setUint(msg, fieldTransactionFee, cfg.TransactionFee); err != nil {
		return nil, err
	}

	keysField := configDesc.Fields().ByName(fieldAnchoringKeys)
	if keysField == nil {
		return nil, fmt.Errorf("message %s has no field %q", configDesc.FullName(), fieldAnchoringKeys)
	}
	keyList := msg.Mutable(keysField).List()
	for i, pair := range cfg.AnchoringKeys {
		entry, err := buildKeyEntry(entryDesc, serviceKeyDesc, btcKeyDesc, pair)
		if err != nil {
			return nil, fmt.Errorf("anchoring key %d: %w", i, err)
		}
		keyList.Append(protoreflect.ValueOfMessage(entry))
	}

	raw, err := proto.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize anchoring config: %w", err)
	}
	return raw, nil
}

// buildKeyEntry wraps one keypair into an AnchoringKeys message.
func buildKeyEntry(entryDesc, serviceKeyDesc, btcKeyDesc protoreflect.MessageDescriptor, pair Keypair) (*dynamicpb.Message, error) {
	serviceKey, err := DecodeServiceKey(pair.ServiceKey)
	if err != nil {
		return nil, err
	}
	bitcoinKey, err := DecodeBitcoinKey(pair.BitcoinKey)
	if err != nil {
		return nil, err
	}

	serviceMsg, err := publicKeyMessage(serviceKeyDesc, serviceKey)
	if err != nil {
		return nil, err
	}
	btcMsg, err := publicKeyMessage(btcKeyDesc, bitcoinKey)
	if err != nil {
		return nil, err
	}

	entry := dynamicpb.NewMessage(entryDesc)
	if err := setMessage(entry, fieldServiceKey, serviceMsg); err != nil {
		return nil, err
	}
	if err := setMessage(entry, fieldBitcoinKey, btcMsg); err != nil {
		return nil, err
	}
	return entry, nil
}

// publicKeyMessage wraps raw key bytes into a PublicKey{data} message.
func publicKeyMessage(desc protoreflect.MessageDescriptor, raw []byte) (*dynamicpb.Message, error) {
	msg := dynamicpb.NewMessage(desc)
	fd := desc.Fields().ByName(fieldData)
	if fd == nil {
		return nil, fmt.Errorf("message %s has no field %q", desc.FullName(), fieldData)
	}
	msg.Set(fd, protoreflect.ValueOfBytes(raw))
	return msg, nil
}

// setUint sets an unsigned scalar field, tolerating the uint32/uint64
// width difference between schema revisions.
func setUint(msg *dynamicpb.Message, name protoreflect.Name, value uint64) error {
	fd := msg.Descriptor().Fields().ByName(name)
	if fd == nil {
		return fmt.Errorf("message %s has no field %q", msg.Descriptor().FullName(), name)
	}
	switch fd.Kind() {
	case protoreflect.Uint32Kind, protoreflect.Fixed32Kind:
		msg.Set(fd, protoreflect.ValueOfUint32(uint32(value)))
	case protoreflect.Uint64Kind, protoreflect.Fixed64Kind:
		msg.Set(fd, protoreflect.ValueOfUint64(value))
	default:
		return fmt.Errorf("field %s.%s is not an unsigned scalar (kind %s)",
			msg.Descriptor().FullName(), name, fd.Kind())
	}
	return nil
}

func setMessage(msg *dynamicpb.Message, name protoreflect.Name, value *dynamicpb.Message) error {
	fd := msg.Descriptor().Fields().ByName(name)
	if fd == nil {
		return fmt.Errorf("message %s has no field %q", msg.Descriptor().FullName(), name)
	}
	msg.Set(fd, protoreflect.ValueOfMessage(value))
	return nil
}

package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Bidon15/anchorkit/launcher"
)

// instanceFile is the on-disk shape of a deployment file:
//
//	instances:
//	  anchoring:
//	    artifact:
//	      runtime: 0
//	      name: exonum-btc-anchoring
//	      version: 1.0.0
//	    config:
//	      network: testnet
//	      anchoring_interval: 1000
//	      transaction_fee: 100
//	      anchoring_keys: [...]
type instanceFile struct {
	Instances map[string]instanceEntry `yaml:"instances"`
}

type instanceEntry struct {
	Artifact artifactRef    `yaml:"artifact"`
	Config   map[string]any `yaml:"config"`
}

// artifactRef is a partial artifact: unset fields fall back to the
// tool configuration.
type artifactRef struct {
	Runtime *uint32 `yaml:"runtime"`
	Name    string  `yaml:"name"`
	Version string  `yaml:"version"`
}

func (r artifactRef) merge(defaults launcher.Artifact) launcher.Artifact {
	art := defaults
	if r.Runtime != nil {
		art.RuntimeID = *r.Runtime
	}
	if r.Name != "" {
		art.Name = r.Name
	}
	if r.Version != "" {
		art.Version = r.Version
	}
	return art
}

// loadInstance reads one instance from a deployment file. An empty
// name is allowed when the file defines exactly one instance.
func loadInstance(path, name string, defaults launcher.Artifact) (launcher.Instance, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return launcher.Instance{}, fmt.Errorf("failed to read instance file: %w", err)
	}

	var file instanceFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return launcher.Instance{}, fmt.Errorf("failed to parse instance file %s: %w", path, err)
	}
	if len(file.Instances) == 0 {
		return launcher.Instance{}, fmt.Errorf("no instances defined in %s", path)
	}

	if name == "" {
		if len(file.Instances) > 1 {
			return launcher.Instance{}, fmt.Errorf("%s defines %d instances, pick one with --instance", path, len(file.Instances))
		}
		for n := range file.Instances {
			name = n
		}
	}

	entry, ok := file.Instances[name]
	if !ok {
		return launcher.Instance{}, fmt.Errorf("instance %q not found in %s", name, path)
	}

	return launcher.Instance{
		Artifact: entry.Artifact.merge(defaults),
		Name:     name,
		Config:   entry.Config,
	}, nil
}

package freeze

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

const (
	CategoryEncoder = "encoder"
	CategoryDecoder = "decoder"
	CategoryLatent  = "latent"
	CategoryOther   = "other"
)

// Rule claims every layer whose name contains one of Match. A rule with an
// empty Match claims everything. Claimed layers are frozen when Frozen is set
// and, if Contains is non-empty, the name also contains one of Contains.
type Rule struct {
	Category string   `yaml:"category" json:"category"`
	Match    []string `yaml:"match,omitempty" json:"match,omitempty"`
	Contains []string `yaml:"contains,omitempty" json:"contains,omitempty"`
	Frozen   bool     `yaml:"frozen" json:"frozen"`
}

// Policy rules are tried in order and the first claim wins.
type Policy struct {
	Rules []Rule `yaml:"rules" json:"rules"`
}

// DefaultPolicy freezes the first encoder layer and the core decoder layers,
// leaving the latent space and everything else trainable.
func DefaultPolicy() Policy {
	return Policy{Rules: []Rule{
		{
			Category: CategoryEncoder,
			Match:    []string{"encoder"},
			Contains: []string{"bilstm_0", "rnn_0", "rnn_cell_0"},
			Frozen:   true,
		},
		{
			Category: CategoryDecoder,
			Match:    []string{"decoder"},
			Contains: []string{"core_decoder_0", "output_projection_0", "rnn_cell_0/level_0"},
			Frozen:   true,
		},
		{Category: CategoryLatent, Match: []string{"z_", "latent"}},
		{Category: CategoryOther},
	}}
}

func ParsePolicy(dat []byte) (Policy, error) {
	var p Policy
	if err := yaml.UnmarshalStrict(dat, &p); err != nil {
		return Policy{}, errors.Wrap(err, "parsing freeze policy")
	}
	for i, r := range p.Rules {
		if r.Category == "" {
			return Policy{}, errors.Errorf("freeze policy rule %v has no category", i)
		}
	}
	return p, nil
}

// LoadPolicy reads a YAML policy. An empty path gives DefaultPolicy.
func LoadPolicy(path string) (Policy, error) {
	if path == "" {
		return DefaultPolicy(), nil
	}
	dat, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, errors.Wrap(err, "reading freeze policy")
	}
	return ParsePolicy(dat)
}

func (p Policy) Marshal() ([]byte, error) {
	return yaml.Marshal(p)
}

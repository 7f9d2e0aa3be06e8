package freeze

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jsphweid/digiscore/util"
	"github.com/pkg/errors"
)

type Decision struct {
	Layer     string `json:"layer"`
	Category  string `json:"category"`
	Trainable bool   `json:"trainable"`
}

type Plan struct {
	Layers     []Decision     `json:"layers"`
	Total      int            `json:"total"`
	Frozen     int            `json:"frozen"`
	Trainable  int            `json:"trainable"`
	Categories map[string]int `json:"categories"`
}

func containsAny(name string, subs []string) bool {
	for _, s := range subs {
		if strings.Contains(name, s) {
			return true
		}
	}
	return false
}

func (r Rule) claims(layer string) bool {
	return len(r.Match) == 0 || containsAny(layer, r.Match)
}

func (r Rule) freezes(layer string) bool {
	return r.Frozen && (len(r.Contains) == 0 || containsAny(layer, r.Contains))
}

// Decide returns the category of layer and whether it stays trainable.
// Layers no rule claims are trainable "other".
func (p Policy) Decide(layer string) Decision {
	for _, r := range p.Rules {
		if r.claims(layer) {
			return Decision{Layer: layer, Category: r.Category, Trainable: !r.freezes(layer)}
		}
	}
	return Decision{Layer: layer, Category: CategoryOther, Trainable: true}
}

func Apply(p Policy, layers []string) Plan {
	plan := Plan{Categories: map[string]int{}}
	for _, layer := range layers {
		d := p.Decide(layer)
		plan.Layers = append(plan.Layers, d)
		plan.Categories[d.Category]++
		if d.Trainable {
			plan.Trainable++
		} else {
			plan.Frozen++
		}
	}
	plan.Total = len(plan.Layers)
	return plan
}

// FrozenLayers lists the frozen layer names in input order.
func (p Plan) FrozenLayers() []string {
	var res []string
	for _, d := range p.Layers {
		if !d.Trainable {
			res = append(res, d.Layer)
		}
	}
	return res
}

// Summary renders the counts as "total=8, frozen=3, trainable=5, decoder=2, ..."
// with categories in sorted order.
func (p Plan) Summary() string {
	parts := []string{
		fmt.Sprintf("total=%v", p.Total),
		fmt.Sprintf("frozen=%v", p.Frozen),
		fmt.Sprintf("trainable=%v", p.Trainable),
	}
	for _, c := range util.GetKeys(p.Categories) {
		parts = append(parts, fmt.Sprintf("%v=%v", c, p.Categories[c]))
	}
	return strings.Join(parts, ", ")
}

func (p Plan) JSON() ([]byte, error) {
	dat, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "encoding freeze plan")
	}
	return dat, nil
}

// ReadLayers reads one layer name per line. Blank lines and lines starting
// with # are skipped.
func ReadLayers(path string) ([]string, error) {
	dat, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading layer list")
	}
	var res []string
	for _, line := range strings.Split(string(dat), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		res = append(res, line)
	}
	return res, nil
}

// Package validation checks reservation and table payloads before they reach storage.
//
// Every check is a named Rule. Rules are composed into a Pipeline which runs them
// in order and stops at the first failure, returning it as a *domain.ValidationError.
package validation

import (
	"errors"

	"github.com/Domenick1991/periodic-tables/internal/domain"
)

// Payload is a decoded JSON object. Numbers are expected as json.Number so that
// 3, 3.5 and "3" can be told apart.
type Payload map[string]any

type Rule struct {
	Name  string
	Check func(Payload) error
}

type Pipeline []Rule

func (p Pipeline) Run(payload Payload) error {
	if payload == nil {
		payload = Payload{}
	}
	for _, rule := range p {
		err := rule.Check(payload)
		if err == nil {
			continue
		}
		var verr *domain.ValidationError
		if errors.As(err, &verr) && verr.Rule == "" {
			verr.Rule = rule.Name
		}
		return err
	}
	return nil
}

// Then returns a new pipeline with rules appended after p.
func (p Pipeline) Then(rules ...Rule) Pipeline {
	out := make(Pipeline, 0, len(p)+len(rules))
	out = append(out, p...)
	return append(out, rules...)
}

func (p Pipeline) Names() []string {
	names := make([]string, len(p))
	for i, r := range p {
		names[i] = r.Name
	}
	return names
}

package state

import (
	"fmt"
	"regexp"

	"github.com/hashicorp/go-multierror"
)

var namePattern, _ = regexp.Compile("^[0-9a-z._-]*$")

func NameValidator(s string) error {
	if !namePattern.MatchString(s) {
		return fmt.Errorf("%s is not a valid name, must match pattern %s", s, namePattern.String())
	}
	if len(s) > 100 {
		return fmt.Errorf("len(\"%s\") = %d > 100 is too long", s, len(s))
	}
	return nil
}

func NetworkValidator(net NetworkCfg) error {
	var result *multierror.Error
	if net.NumNodes <= 0 {
		result = multierror.Append(result, fmt.Errorf("nodes must be positive, got %d", net.NumNodes))
	}
	if net.Infinity <= 0 {
		result = multierror.Append(result, fmt.Errorf("infinity must be positive, got %d", net.Infinity))
	}
	return result.ErrorOrNil()
}

func LinkValidator(net NetworkCfg, l LinkCfg) error {
	if !net.Contains(l.A) || !net.Contains(l.B) {
		return fmt.Errorf("%w: link %s-%s is outside [0, %d)", ErrUnknownNode, l.A, l.B, net.NumNodes)
	}
	if l.A == l.B {
		return fmt.Errorf("%w: link %s-%s connects a node to itself", ErrInvalidDestination, l.A, l.B)
	}
	if l.Cost < 0 {
		return fmt.Errorf("%w: link %s-%s has negative cost %d", ErrInvalidCost, l.A, l.B, l.Cost)
	}
	return nil
}

// TopologyValidator reports every problem in cfg at once
func TopologyValidator(cfg *TopologyCfg) error {
	var result *multierror.Error
	if err := NameValidator(cfg.Name); err != nil {
		result = multierror.Append(result, err)
	}
	if err := NetworkValidator(cfg.NetworkCfg); err != nil {
		return multierror.Append(result, err)
	}
	seen := make(map[Pair[NodeId, NodeId]]struct{})
	for _, l := range cfg.Links {
		if err := LinkValidator(cfg.NetworkCfg, l); err != nil {
			result = multierror.Append(result, err)
			continue
		}
		if _, ok := seen[l.Endpoints()]; ok {
			result = multierror.Append(result, fmt.Errorf("duplicate link found: %s, %s", l.A, l.B))
		}
		seen[l.Endpoints()] = struct{}{}
	}
	for _, l := range cfg.Changes {
		if err := LinkValidator(cfg.NetworkCfg, l); err != nil {
			result = multierror.Append(result, fmt.Errorf("change: %w", err))
		}
	}
	return result.ErrorOrNil()
}

// VectorValidator checks that vec is a well formed cost vector for net
func VectorValidator(net NetworkCfg, vec CostVector) error {
	if len(vec) != net.NumNodes {
		return fmt.Errorf("%w: got %d, expected %d", ErrInvalidVectorLength, len(vec), net.NumNodes)
	}
	for d, c := range vec {
		if c < 0 {
			return fmt.Errorf("%w: cost to %d is %d", ErrInvalidCost, d, c)
		}
	}
	return nil
}

package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"
)

// Domain prefixes for content-addressed identity.
// The version suffix leaves room for an algorithm change.
const (
	DomainJustification = "proof/justification/v1"
	DomainRule          = "proof/rule/v1"
	DomainRuleSet       = "proof/ruleset/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data) as lowercase hex.
// The null separator keeps the domain/data boundary unambiguous.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// JustificationKey computes the structural identity of a justification:
// the rule name plus the premise quads taken as a set. Premise order and
// duplicate premises do not change the key; statuses never reach it.
func JustificationKey(rule string, premises []Quad) (string, error) {
	sorted := slices.Clone(premises)
	slices.SortFunc(sorted, func(a, b Quad) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		}
		return 0
	})
	sorted = slices.Compact(sorted)

	arr := make(Array, len(sorted))
	for i, q := range sorted {
		arr[i] = QuadValue(q)
	}

	canonical, err := MarshalCanonical(Object{
		"rule":     String(rule),
		"premises": arr,
	})
	if err != nil {
		return "", fmt.Errorf("JustificationKey: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainJustification, canonical), nil
}

// MustJustificationKey is like JustificationKey but panics on error.
// Every input JustificationKey builds is marshalable, so the panic is unreachable
// for well-formed callers.
func MustJustificationKey(rule string, premises []Quad) string {
	key, err := JustificationKey(rule, premises)
	if err != nil {
		panic(err)
	}
	return key
}

// RuleHash fingerprints a compiled rule so two rule sets can be compared.
func RuleHash(spec RuleSpec) (string, error) {
	patterns := func(ps []PatternSpec) Array {
		arr := make(Array, len(ps))
		for i, p := range ps {
			arr[i] = Array{String(p.Subject), String(p.Predicate), String(p.Object)}
		}
		return arr
	}
	canonical, err := MarshalCanonical(Object{
		"name":        String(spec.Name),
		"premises":    patterns(spec.Premises),
		"conclusions": patterns(spec.Conclusions),
	})
	if err != nil {
		return "", fmt.Errorf("RuleHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainRule, canonical), nil
}

// RuleSetHash fingerprints a rule set. It is independent of rule order, so
// the same rules loaded from differently arranged files hash the same.
func RuleSetHash(specs []RuleSpec) (string, error) {
	hashes := make([]string, len(specs))
	for i, spec := range specs {
		h, err := RuleHash(spec)
		if err != nil {
			return "", err
		}
		hashes[i] = h
	}
	slices.Sort(hashes)

	arr := make(Array, len(hashes))
	for i, h := range hashes {
		arr[i] = String(h)
	}
	canonical, err := MarshalCanonical(arr)
	if err != nil {
		return "", fmt.Errorf("RuleSetHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainRuleSet, canonical), nil
}

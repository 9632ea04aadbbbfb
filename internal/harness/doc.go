// Package harness runs explanation scenarios: small, self-contained worlds
// of quads and rules with the justifications expected for a list of
// targets.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: lassie_is_a_mammal
//	description: "What this scenario validates"
//	rules: ../rules/owl          # CUE rules directory, relative to the file
//	data: |
//	  <urn:Lassie> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <urn:Dog> .
//	  <urn:Dog> <http://www.w3.org/2000/01/rdf-schema#subClassOf> <urn:Mammal> .
//	policy:                      # optional, replaces the default policy
//	  shared_default_graph: true
//	  allow_axioms: true
//	inference: true              # optional, defaults to true
//	materialize: false           # run the rules to fixpoint before explaining
//	token: "test-request-1"      # optional fixed request token
//	explain:
//	  - target: "<urn:Lassie> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <urn:Mammal> ."
//	    expect:
//	      explicit: false
//	      count: 1
//	assertions:
//	  - type: justified_by
//	    target: "<urn:Lassie> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <urn:Mammal> ."
//	    rule: cax_sco
//	    premises:
//	      - "<urn:Lassie> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <urn:Dog> <http://www.ontotext.com/explicit>"
//	      - "<urn:Dog> <http://www.w3.org/2000/01/rdf-schema#subClassOf> <urn:Mammal> <http://www.ontotext.com/explicit>"
//
// # Assertion Types
//
//   - justified_by: the target has a justification with this rule and exactly these premises
//   - not_justified_by: no justification of the target uses this rule
//   - justification_count: the target has exactly N justifications
//   - empty: the target has no justifications
//   - explicit: the target was answered by the explicit fast path
//   - out_of_scope: exactly N rule groups were rejected as out of scope
//
// # Deterministic Testing
//
// Every scenario runs against a fresh in-memory store with deterministic
// request IDs (testutil.DeterministicIDs) and a fixed request token
// (testutil.FixedToken), so repeated runs produce byte-identical golden
// snapshots.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/lassie.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(context.Background(), scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, err := range result.Errors {
//	        log.Println(err)
//	    }
//	}
package harness

package ir

// Namespace is the namespace of the explanation vocabulary. Registering the
// predicates with a query layer is up to the caller.
const Namespace = "http://www.ontotext.com/proof/"

// Local names of the explanation vocabulary.
const (
	LocalExplain   = "explain"
	LocalRule      = "rule"
	LocalSubject   = "subject"
	LocalPredicate = "predicate"
	LocalObject    = "object"
	LocalContext   = "context"
)

// VocabularyIRI returns the full IRI of a vocabulary local name.
func VocabularyIRI(local string) string {
	return Namespace + local
}

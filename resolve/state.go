package resolve

// State identifies where a resolution currently is in the pipeline. States
// advance monotonically; Uncategorized is reachable from any of them.
type State int

const (
	StateStart State = iota
	StateIDMatch
	StateExactTextMatch
	StateSubstringMatch
	StateFuzzyMatch
	StateRetrieval
	StatePairSelection
	StateTypeSelection
	StateDone
	StateUncategorized
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateIDMatch:
		return "id_match"
	case StateExactTextMatch:
		return "exact_text_match"
	case StateSubstringMatch:
		return "substring_match"
	case StateFuzzyMatch:
		return "fuzzy_match"
	case StateRetrieval:
		return "retrieval"
	case StatePairSelection:
		return "pair_selection"
	case StateTypeSelection:
		return "type_selection"
	case StateDone:
		return "done"
	case StateUncategorized:
		return "uncategorized"
	default:
		return "unknown"
	}
}

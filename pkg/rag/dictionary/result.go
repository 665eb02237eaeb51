package dictionary

// Tier identifies which lookup source produced a definition.
type Tier string

const (
	TierSpecialized    Tier = "specialized"
	TierSearch         Tier = "search"
	TierModelKnowledge Tier = "model_knowledge"
	TierNone           Tier = "none"
)

// Result is the outcome of resolving one term. A TierNone result carries an
// empty definition and means every lookup source came up empty.
type Result struct {
	Term       string `json:"term"`
	Tier       Tier   `json:"tier"`
	Definition string `json:"definition"`
}

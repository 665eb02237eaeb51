package prompt

import "fmt"

// KnowledgePrompt asks the model to define a term from its own knowledge.
// Used as the last resolution tier when external sources come up empty.
func KnowledgePrompt(term string) string {
	return fmt.Sprintf(
		"You are a helpful legal assistant. Define the legal term %q in plain language "+
			"a non-lawyer can understand. Keep the answer clear and under 1500 characters.",
		term,
	)
}

// SimplifyPrompt asks the model to rewrite an overly long or technical
// definition in simpler words.
func SimplifyPrompt(term, definition string) string {
	return fmt.Sprintf(
		"The following definition of %q is too long and too professional for a layperson. "+
			"Rewrite it in your own simpler words, keeping it clear and under 1000 characters.\n\n%s",
		term, definition,
	)
}

package ai

import (
	"fmt"
	"strings"

	"github.com/example/kidspeak/internal/practice"
)

var conversationHints = []string{
	"make the response natural and conversational",
	"use different words than previous responses",
	"be creative with your follow-up question",
	"vary your praise words",
	"ask about different topics each time",
}

var roleplayHints = []string{
	"Ask about something you haven't asked before",
	"Use different question words",
	"Focus on a different aspect",
	"Be creative and engaging",
}

var usagePatterns = []string{
	"Use the word in a sentence about daily life",
	"Create a sentence showing what this word means",
	"Make a simple example using this word",
	"Show how children would use this word",
	"Give a clear example with this word",
}

// Roles are the supported roleplay partners
var Roles = map[string]string{
	"teacher": `You are a kind school teacher.
Help the student learn English.
Ask VARIED study-related questions about different subjects.
Be encouraging and patient.`,
	"friend": `You are a friendly classmate.
Talk casually and happily.
Ask about DIFFERENT daily activities, hobbies, interests.
Be cheerful and supportive.`,
	"interviewer": `You are a job interviewer.
Be polite and professional.
Ask DIFFERENT short interview questions each time.
Be encouraging but professional.`,
	"viva": `You are a viva examiner.
Ask DIFFERENT academic project questions.
Focus on understanding various aspects.
Be fair and encouraging.`,
}

const defaultRole = "You are a friendly English speaking partner."

func conversationPrompt(text, history, hint string) string {
	return fmt.Sprintf(`
You are an English speaking coach for children aged 6 to 15.

STRICT RULES:
- Always correct the child's sentence
- If only one word, make a full sentence
- Very simple English
- Encourage the child with VARIED praise words
- Ask ONE follow-up question about DIFFERENT topics each time
- No grammar explanation
- %s

Respond ONLY in this format:

CORRECT: <correct sentence>
PRAISE: <short encouragement - use different words>
QUESTION: <one simple question about a NEW topic>

Conversation so far:
%s

Child says:
"%s"
`, hint, history, text)
}

func roleplayPrompt(text, history, role, hint string) string {
	instruction, ok := Roles[strings.ToLower(role)]
	if !ok {
		instruction = defaultRole
	}
	return fmt.Sprintf(`
%s

You are doing roleplay with a student aged 6 to 15.

STRICT RULES:
- Always correct the student's sentence
- Very simple English
- Stay strictly in your role
- Encourage the student with VARIED praise
- Ask ONE role-based question
- No grammar explanation
- %s

Respond ONLY in this format:

CORRECT: <correct sentence>
PRAISE: <short encouragement - vary your words>
QUESTION: <one NEW question relevant to your role>

Conversation so far:
%s

Student says:
"%s"
`, instruction, hint, history, text)
}

func sentencePrompt(req practice.SentenceRequest, seed int) string {
	var examples strings.Builder
	for _, ex := range req.Examples {
		fmt.Fprintf(&examples, "- %s\n", ex)
	}
	return fmt.Sprintf(`You are an expert English teacher for children aged 6 to 15.

TASK: Create ONE UNIQUE, simple, natural sentence for speaking practice.

CATEGORY: %s
DIFFICULTY: %s
WORD COUNT: Must be %s
USER LEVEL: %d

CRITICAL RULES FOR VARIETY:
1. DO NOT repeat common phrases
2. Use DIFFERENT sentence structures
3. Vary subjects and verbs
4. Be creative and unexpected
5. Return ONLY the sentence - no quotes, punctuation, or extra text
6. Make it natural and interesting
7. Use present, past, or future tense (vary this!)
8. Be creative and original!

VARIETY SEED: %d

GOOD EXAMPLES for %s (%s):
%s
Now create ONE COMPLETELY NEW AND DIFFERENT sentence.`,
		req.Description, req.Difficulty, req.WordLimit, req.Level, seed,
		req.Category, req.Difficulty, examples.String())
}

func usagePrompt(word, pattern string) string {
	return fmt.Sprintf(`Create ONE simple example sentence using the word "%s".

%s

RULES:
1. Sentence must be simple for children aged 6-15
2. Clearly show the word's meaning
3. Use simple vocabulary
4. Make it relatable to children
5. Be creative and varied
6. Return ONLY the sentence - no quotes
7. Use different sentence structures
8. Vary tenses

Now create a NEW, DIFFERENT sentence using "%s".`, word, pattern, word)
}

func meaningPrompt(word string) string {
	return fmt.Sprintf(`You are an English teacher explaining word meanings to children aged 6 to 15.

Word: "%s"

FORMAT YOUR RESPONSE EXACTLY AS:
MEANING: <simple definition in 1-2 sentences>
EXAMPLE: <one simple example sentence using the word>
TYPE: <noun/verb/adjective/adverb/etc>
TIP: <one helpful tip about using this word>

RULES:
1. Use very simple language
2. Avoid complex terminology
3. Make examples relatable
4. Be encouraging
5. Focus on most common meaning
6. Keep explanations short`, word)
}

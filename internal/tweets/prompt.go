package tweets

import (
	"fmt"

	"github.com/autox-agent/internal/models"
)

const generationPrompt = `You are an Indian nationalist commentator.

Language: Hinglish.
Tone: Confident, factual, patriotic.
Audience: Indian users on X.
Rules:
- No abusive or hateful language
- No fake claims
- Max 240 characters per tweet
- 1 emoji max
- Encourage replies subtly

Create 3 DIFFERENT tweet versions on the SAME topic.

For EACH tweet provide clearly separated sections:
TWEET:
CONTEXT:
IMAGE_KEYWORD:
RETWEET_ACCOUNT:
HASHTAGS:

Topic: %s
Reference source: %s
`

const refinementPrompt = `Refine the following tweets:
- Make Hinglish crisp
- Remove aggressive or risky words
- Keep nationalist tone
- Improve clarity
- Do NOT add new facts

Text:
%s
`

// BuildPrompt returns the generation prompt for a topic.
func BuildPrompt(t *models.Topic) string {
	return fmt.Sprintf(generationPrompt, t.Title, t.SourceLink)
}

// BuildRefinementPrompt returns the rewrite prompt for generated text.
func BuildRefinementPrompt(text string) string {
	return fmt.Sprintf(refinementPrompt, text)
}

// MockOutput returns a fixed three-variant template for a topic, used when
// the generation service is unreachable. It matches the structure the live
// service is asked for, so it flows through refinement and parsing unchanged.
func MockOutput(t *models.Topic) string {
	return fmt.Sprintf(`TWEET:
%[1]s — ek important update. Aapka take kya hai?
CONTEXT:
Source: %[2]s
IMAGE_KEYWORD:
%[1]s India news photo
RETWEET_ACCOUNT:
ANI
HASHTAGS:
#India #News

TWEET:
Facts matter. %[1]s par clear discussion zaroori hai.
CONTEXT:
Source: %[2]s
IMAGE_KEYWORD:
%[1]s press conference
RETWEET_ACCOUNT:
PIB_India
HASHTAGS:
#India #Politics

TWEET:
%[1]s ka long-term impact dekhna hoga. Opinions?
CONTEXT:
Source: %[2]s
IMAGE_KEYWORD:
%[1]s India trending
RETWEET_ACCOUNT:
DDNews
HASHTAGS:
#India #Update`, t.Title, t.SourceLink)
}

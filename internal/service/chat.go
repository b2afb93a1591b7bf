package service

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"moviegram/internal/model"
)

const (
	chatActorCreditLimit = 15
	chatTrendingLimit    = 10
)

// actorPatterns pull a person's name out of questions like "what movies did
// Tom Hanks star in" or "films starring Cate Blanchett".
var actorPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:movies?|films?)\s+(?:with|starring|featuring|of)\s+([\p{L}][\p{L} .'-]+)`),
	regexp.MustCompile(`(?i)(?:did|does|has)\s+([\p{L}][\p{L} .'-]+?)\s+(?:play|star|act|appear)`),
	regexp.MustCompile(`(?i)(?:actor|actress)\s+([\p{L}][\p{L} .'-]+)`),
}

// ChatService answers movie questions with the AI model, grounding each
// prompt in live metadata: an actor's filmography when the question names
// one, today's trending list otherwise.
type ChatService struct {
	tmdb   *TMDBClient
	gemini *GeminiClient
}

func NewChatService(tmdb *TMDBClient, gemini *GeminiClient) *ChatService {
	return &ChatService{tmdb: tmdb, gemini: gemini}
}

// Chat builds a grounded prompt for the message and returns the model's
// reply. Metadata lookups degrade to an ungrounded prompt; only the AI call
// itself is fatal.
func (s *ChatService) Chat(ctx context.Context, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", model.ErrMessageRequired
	}

	prompt := s.buildPrompt(ctx, message)

	reply, err := s.gemini.GenerateContent(ctx, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(reply), nil
}

func (s *ChatService) buildPrompt(ctx context.Context, message string) string {
	if name := extractActorName(message); name != "" {
		canonical, credits, err := s.tmdb.FindActorMovies(ctx, name, chatActorCreditLimit)
		if err != nil {
			log.Printf("[ChatService] Actor lookup failed for %q: %v", name, err)
		} else if len(credits) > 0 {
			return buildActorPrompt(canonical, credits, message)
		}
	}

	trending, err := s.tmdb.TrendingTitles(ctx, chatTrendingLimit)
	if err != nil {
		log.Printf("[ChatService] Trending lookup failed: %v", err)
		trending = nil
	}
	return buildTrendingPrompt(trending, message)
}

// extractActorName returns the first person name found in the message, or ""
func extractActorName(message string) string {
	for _, pattern := range actorPatterns {
		if match := pattern.FindStringSubmatch(message); match != nil {
			name := strings.TrimSpace(match[1])
			name = strings.TrimRight(name, ".?!")
			if name != "" {
				return name
			}
		}
	}
	return ""
}

func buildActorPrompt(actor string, credits []MovieCredit, message string) string {
	var b strings.Builder
	b.WriteString("You are a movie assistant. Answer using only the filmography below.\n\n")
	fmt.Fprintf(&b, "Films of %s:\n", actor)
	for _, credit := range credits {
		fmt.Fprintf(&b, "- %s", credit.DisplayTitle())
		if credit.ReleaseDate != "" {
			fmt.Fprintf(&b, " (%s)", credit.ReleaseDate)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\nQuestion: %s", message)
	return b.String()
}

func buildTrendingPrompt(trending []MovieCredit, message string) string {
	var b strings.Builder
	b.WriteString("You are a movie assistant. Answer briefly and helpfully.\n")
	if len(trending) > 0 {
		b.WriteString("\nTrending today:\n")
		for _, entry := range trending {
			fmt.Fprintf(&b, "- %s\n", entry.DisplayTitle())
		}
	}
	fmt.Fprintf(&b, "\nQuestion: %s", message)
	return b.String()
}

package seed

import (
	"fmt"

	"patternchat/internal/model"
	"patternchat/internal/repository"
)

// Patterns returns the canned reply fixtures. Order matters: the resolver
// breaks ties by lowest id, and ids follow this insertion order.
func Patterns() []model.ReplyPattern {
	return []model.ReplyPattern{
		{Pattern: "hello", Response: "Hi there! I'm your chatbot assistant. How can I help you today?"},
		{Pattern: "hi", Response: "Hello! What can I do for you?"},
		{Pattern: "how are you", Response: "I'm doing great, thanks for asking! How about you?"},
		{Pattern: "what is your name", Response: "I'm PatternChat, your friendly assistant."},
		{Pattern: "who made you", Response: "I was built as a small pattern-matching chat service."},
		{Pattern: "weather", Response: "I can't check live weather yet, but here is what I know: {data}"},
		{Pattern: "define", Response: "I don't have a dictionary yet, but I looked for {query}."},
		{Pattern: "help", Response: "You can chat with me, or ask me to look things up. Try \"search for name\"."},
		{Pattern: "thank", Response: "You're welcome! Happy to help."},
		{Pattern: "bye", Response: "Goodbye! Have a great day!"},
	}
}

// Facts returns the key/value fixtures used by the keyword search.
func Facts() []model.Fact {
	return []model.Fact{
		{Category: "personal", Key: "name", Value: "John Doe"},
		{Category: "personal", Key: "email", Value: "john.doe@example.com"},
		{Category: "personal", Key: "location", Value: "Seattle, WA"},
		{Category: "work", Key: "company", Value: "Acme Corp"},
		{Category: "work", Key: "title", Value: "Software Engineer"},
		{Category: "hobby", Key: "sport", Value: "Tennis"},
		{Category: "hobby", Key: "music", Value: "Jazz piano"},
	}
}

// Run seeds the store: patterns are upserted every boot so response text can be
// refreshed in place, facts are inserted only when the table is empty.
func Run(patternRepo *repository.PatternRepository, factRepo *repository.FactRepository) error {
	if err := patternRepo.UpsertBatch(Patterns()); err != nil {
		return fmt.Errorf("seed patterns failed: %w", err)
	}

	total, err := factRepo.Count()
	if err != nil {
		return fmt.Errorf("seed facts failed: %w", err)
	}
	if total == 0 {
		if err := factRepo.CreateBatch(Facts()); err != nil {
			return fmt.Errorf("seed facts failed: %w", err)
		}
	}
	return nil
}

package service

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"
	"time"

	"discussx/internal/models"
)

type ChatCategory string

const (
	CategoryGreeting ChatCategory = "greeting"
	CategoryFeatures ChatCategory = "features"
	CategoryAccount  ChatCategory = "account"
	CategoryPost     ChatCategory = "post"
	CategoryUnknown  ChatCategory = "unknown"
)

var chatResponses = map[ChatCategory][]string{
	CategoryGreeting: {
		"Hello! How can I help you with DiscussX today?",
		"Hi there! I'm your DiscussX assistant. What do you need help with?",
		"Welcome to DiscussX! How can I assist you?",
	},
	CategoryFeatures: {
		"DiscussX offers thread discussions, post creation, comments, and a modern UI inspired by X (Twitter).",
		"You can create posts, reply to discussions, like content, and interact with other users on DiscussX.",
	},
	CategoryAccount: {
		"You can create an account by clicking on the Sign Up button. You'll need to provide an email, username, and password.",
		"To manage your account, go to your profile by clicking on your avatar in the top right corner.",
	},
	CategoryPost: {
		"To create a new post, click on the 'New Post' button on the home page and type your message.",
		"Posts can include text and will appear in the main timeline. Others can reply to your posts.",
	},
	CategoryUnknown: {
		"I'm not sure I understand. Could you rephrase your question?",
		"I don't have information about that yet. Can I help with something else related to DiscussX?",
		"That's beyond my knowledge currently. Can I assist with using DiscussX features instead?",
	},
}

// Checked in order; the first match wins.
var chatCategories = []struct {
	category ChatCategory
	pattern  *regexp.Regexp
}{
	{CategoryGreeting, regexp.MustCompile(`hello|hi|hey|greetings`)},
	{CategoryFeatures, regexp.MustCompile(`feature|do|can|function|work|use`)},
	{CategoryAccount, regexp.MustCompile(`account|profile|sign|login|register|password|email`)},
	{CategoryPost, regexp.MustCompile(`post|write|create|publish|message|content|thread`)},
}

type ChatbotService interface {
	Reply(message string) models.ChatMessage
}

type chatbotService struct {
	pick func(n int) int
	now  func() time.Time
}

func NewChatbotService() ChatbotService {
	return &chatbotService{pick: rand.IntN, now: time.Now}
}

// Categorize matches keywords anywhere in the lowercased message.
func Categorize(message string) ChatCategory {
	lowered := strings.ToLower(message)
	for _, candidate := range chatCategories {
		if candidate.pattern.MatchString(lowered) {
			return candidate.category
		}
	}
	return CategoryUnknown
}

func (s *chatbotService) Reply(message string) models.ChatMessage {
	responses := chatResponses[Categorize(message)]
	now := s.now()

	return models.ChatMessage{
		ID:        fmt.Sprintf("bot-%d", now.UnixMilli()),
		Text:      responses[s.pick(len(responses))],
		IsBot:     true,
		Timestamp: now,
	}
}

package application

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ugogo-app/ugogo-api/pkg/genai"
)

// AssistService wraps the text-generation collaborator for the three copy
// features: event descriptions, icebreakers and the support chatbot. Every
// method degrades to a deterministic canned string, so a dead collaborator
// never blocks the primary flow.
type AssistService struct {
	GenAI  *genai.Client
	Logger *logrus.Logger
}

func NewAssistService(client *genai.Client, logger *logrus.Logger) *AssistService {
	return &AssistService{GenAI: client, Logger: logger}
}

// Icebreaker drafts a short opener to send a fellow attendee.
func (s *AssistService) Icebreaker(ctx context.Context, targetName, eventTitle string) string {
	prompt := fmt.Sprintf(
		"Generate a fun, short (max 15 words) icebreaker message to send to %s on Snapchat about going to the event %q. It should be casual and friendly using Gen Z slang.",
		targetName, eventTitle,
	)
	text, err := s.GenAI.GenerateText(ctx, prompt)
	if err != nil {
		s.Logger.WithError(err).Warn("icebreaker generation failed")
		return fmt.Sprintf("Hey %s, are you going to %s?", targetName, eventTitle)
	}
	if text == "" {
		return fmt.Sprintf("Hey %s, see you at %s?", targetName, eventTitle)
	}
	return text
}

// EventDescription drafts event copy from title, location and vibe.
func (s *AssistService) EventDescription(ctx context.Context, title, location, vibe string) string {
	prompt := fmt.Sprintf(
		"Write a catchy, short (2 sentences max) event description for an event called %q at %q. The vibe is %q. Use emojis. If possible, mention a specific cool detail about the location based on real maps data.",
		title, location, vibe,
	)
	text, err := s.GenAI.GenerateText(ctx, prompt, genai.WithGoogleMaps())
	if err != nil {
		s.Logger.WithError(err).Warn("event description generation failed")
		return fmt.Sprintf("Come through to %s at %s! It's gonna be lit.", title, location)
	}
	if text == "" {
		return fmt.Sprintf("Join us for %s at %s! It's going to be a %s time.", title, location, vibe)
	}
	return text
}

// supportFallback is the canned reply used whenever the chat collaborator
// fails; it mirrors the client copy users already know.
const supportFallback = "I'm having trouble connecting. Please check your internet or try again later."

// NewSupportChat opens a support conversation with the UGOGO persona pinned
// as the system instruction for the whole session.
func (s *AssistService) NewSupportChat(userName string) *genai.Chat {
	if userName == "" {
		userName = "User"
	}
	system := fmt.Sprintf(
		"You are a helpful customer support agent for the app 'UGOGO'. The user's name is %s. UGOGO is a social event app where users find events, buy tickets, and use a radar to find attendees to 'Zap' (bond) with on Snapchat. Keep answers short, friendly, and helpful. If it's a technical bug, ask them to use the Report feature.",
		userName,
	)
	return s.GenAI.NewChat(system)
}

// SupportReply sends one chat turn and falls back to the canned reply on
// any failure.
func (s *AssistService) SupportReply(ctx context.Context, chat *genai.Chat, message string) string {
	reply, err := chat.Send(ctx, message)
	if err != nil {
		s.Logger.WithError(err).Warn("support chat turn failed")
		return supportFallback
	}
	if reply == "" {
		return supportFallback
	}
	return reply
}

// SupportGreeting is the scripted opening message for a new chat session.
func SupportGreeting(firstName string) string {
	if firstName == "" {
		firstName = "there"
	}
	return fmt.Sprintf("Hey %s! I'm the UGOGO support bot. How can I help you today? I can help with tickets, account issues, or just how to use the app!", firstName)
}

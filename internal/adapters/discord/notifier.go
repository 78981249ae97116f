package discord

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"
)

// DefaultAlertWindow evita spamear el canal si el trigger on-demand se llama en loop.
const DefaultAlertWindow = 5 * time.Minute

// webhookExecutor es el subset de *discordgo.Session que usamos.
type webhookExecutor interface {
	WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Notifier publica los sweeps fallidos en un webhook de Discord.
type Notifier struct {
	s       webhookExecutor
	id      string
	token   string
	source  string
	limiter *alertLimiter
}

// NewNotifier no abre gateway: los webhooks van por REST y no necesitan token de bot.
func NewNotifier(webhookID, token, source string) (*Notifier, error) {
	s, err := discordgo.New("")
	if err != nil {
		return nil, err
	}
	return newNotifier(s, webhookID, token, source), nil
}

func newNotifier(s webhookExecutor, webhookID, token, source string) *Notifier {
	return &Notifier{
		s:       s,
		id:      webhookID,
		token:   token,
		source:  source,
		limiter: newAlertLimiter(DefaultAlertWindow),
	}
}

func (n *Notifier) NotifyFailure(ctx context.Context, runID string, err error) error {
	if err == nil {
		return nil
	}
	if !n.limiter.Allow(n.source) {
		log.Printf("[discord] alert throttled run=%s", runID)
		return nil
	}

	msg := fmt.Sprintf("⚠️ **signals cleanup failed** (%s)\nrun: `%s`\nerror: `%s`", n.source, runID, err.Error())
	_, werr := n.s.WebhookExecute(n.id, n.token, false, &discordgo.WebhookParams{
		Content:         msg,
		AllowedMentions: &discordgo.MessageAllowedMentions{},
	}, discordgo.WithContext(ctx))
	if werr != nil {
		var restErr *discordgo.RESTError
		if errors.As(werr, &restErr) && restErr.Response != nil {
			return fmt.Errorf("discord webhook status %d: %w", restErr.Response.StatusCode, werr)
		}
		return fmt.Errorf("discord webhook: %w", werr)
	}
	return nil
}

package notify

import (
	"context"
	"sync"

	"helios_miniapp/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const (
	DefaultImageURL  = "https://i.imgur.com/w1oV4xH.jpeg"
	DefaultQueueSize = 64
)

const welcomeCaption = "🎉 *Welcome to Helios!* 🌍\n\n" +
	"🌟 *Your journey towards impactful climate action begins here.*\n\n" +
	"🌱 *Complete daily missions and earn rewards*\n" +
	"💫 *Track your environmental progress*\n" +
	"💎 *Participate in exciting airdrops and events*\n\n" +
	"Together, we can create a sustainable future. Let's get started! ⚡️"

type Config struct {
	Enabled   bool   `mapstructure:"enabled"`
	ImageURL  string `mapstructure:"imageUrl"`
	QueueSize int    `mapstructure:"queueSize"`
}

// Sender is the part of *tgbotapi.BotAPI the notifier needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type welcome struct {
	chatID    int64
	firstName string
}

// Notifier sends welcome photos from a single background worker. Registration only enqueues, so a slow or
// failing Bot API never delays the HTTP response.
type Notifier struct {
	sender   Sender
	imageURL string
	queue    chan welcome

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
	wg     sync.WaitGroup
}

func NewNotifier(sender Sender, cfg Config) *Notifier {
	imageURL := cfg.ImageURL
	if imageURL == "" {
		imageURL = DefaultImageURL
	}
	size := cfg.QueueSize
	if size <= 0 {
		size = DefaultQueueSize
	}

	return &Notifier{
		sender:   sender,
		imageURL: imageURL,
		queue:    make(chan welcome, size),
		done:     make(chan struct{}),
	}
}

// NewBotSender authorizes token against the Bot API.
func NewBotSender(token string) (*tgbotapi.BotAPI, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	logger.Logger().Info("Bot authorized", zap.String("username", bot.Self.UserName))
	return bot, nil
}

// WelcomeMessage builds the photo sent to a newly registered user.
func WelcomeMessage(chatID int64, imageURL string) tgbotapi.PhotoConfig {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(imageURL))
	photo.Caption = welcomeCaption
	photo.ParseMode = tgbotapi.ModeMarkdown
	return photo
}

// Start runs the delivery worker. Cancelling ctx stops intake like Close does; messages already queued are
// still delivered.
func (n *Notifier) Start(ctx context.Context) {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		for msg := range n.queue {
			n.send(msg)
		}
	}()

	go func() {
		select {
		case <-ctx.Done():
			n.stop()
		case <-n.done:
		}
	}()
}

// NotifyWelcome enqueues a welcome message. When the queue is full the message is dropped.
func (n *Notifier) NotifyWelcome(chatID int64, firstName string) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	log := logger.Logger()
	if n.closed {
		log.Warn("notifier closed, welcome message skipped", zap.Int64("chat_id", chatID))
		return
	}

	select {
	case n.queue <- welcome{chatID: chatID, firstName: firstName}:
	default:
		log.Warn("welcome queue full, message dropped", zap.Int64("chat_id", chatID))
	}
}

// Close stops accepting messages and waits for queued ones to be delivered.
func (n *Notifier) Close() {
	n.stop()
	n.wg.Wait()
}

func (n *Notifier) stop() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.closed {
		n.closed = true
		close(n.queue)
		close(n.done)
	}
}

func (n *Notifier) send(msg welcome) {
	log := logger.Logger()

	_, err := n.sender.Send(WelcomeMessage(msg.chatID, n.imageURL))
	if err != nil {
		log.Error("Error sending welcome message", zap.Error(err), zap.Int64("chat_id", msg.chatID))
		return
	}

	log.Info("Welcome message sent", zap.Int64("chat_id", msg.chatID), zap.String("first_name", msg.firstName))
}

// Nop discards every message. It is used when the bot is not configured.
type Nop struct{}

func (Nop) NotifyWelcome(int64, string) {}

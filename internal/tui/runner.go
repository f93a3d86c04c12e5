package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/xonecas/echochat/internal/chat"
	"github.com/xonecas/echochat/internal/config"
	"github.com/xonecas/echochat/internal/features"
	"github.com/xonecas/echochat/internal/theme"
)

// Runner manages the TUI application lifecycle. It owns the conversation
// history and the scripted services, and is the Controller the model drives.
type Runner struct {
	ctx     context.Context
	program *tea.Program
	themes  *theme.Store
	history *chat.History
	echo    *features.EchoService
	voice   *features.VoiceService

	unsubscribe func()
}

// NewRunner creates a new TUI runner.
func NewRunner(ctx context.Context, cfg *config.Config, themes *theme.Store) (*Runner, error) {
	if themes == nil {
		return nil, fmt.Errorf("theme store cannot be nil")
	}
	if cfg == nil {
		cfg = config.Default()
	}

	r := &Runner{
		ctx:     ctx,
		themes:  themes,
		history: chat.NewHistory(cfg.Chat.MaxMessages),
	}

	r.echo = features.NewEchoService(cfg.Chat.ReplyDelay, cfg.Chat.ReplyPrefix, features.EchoCallbacks{
		OnTyping: func() { r.send(BotTypingMsg{}) },
		OnReply: func(msg chat.Message) {
			r.history.Add(msg)
			r.send(MessageReceivedMsg{Message: msg})
		},
	})

	r.voice = features.NewVoiceService(features.VoiceOptions{
		ListenDuration: cfg.Voice.ListenDuration,
		ResponseDelay:  cfg.Voice.ResponseDelay,
		Transcripts:    cfg.Voice.Transcripts,
		Responses:      cfg.Voice.Responses,
	}, features.VoiceCallbacks{
		OnState: func(state features.VoiceState) {
			r.send(VoiceStateMsg{State: state})
		},
		OnTranscript: func(text string) {
			msg := chat.NewMessage(chat.SenderUser, text)
			r.history.Add(msg)
			r.send(MessageReceivedMsg{Message: msg})
			r.send(VoiceTextMsg{Text: "“" + text + "”"})
		},
		OnResponse: func(text string) {
			msg := chat.NewMessage(chat.SenderBot, text)
			r.history.Add(msg)
			r.send(MessageReceivedMsg{Message: msg})
			r.send(VoiceTextMsg{Text: text})
		},
	})

	model := NewModel(r, r.history.Messages())

	r.program = tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	return r, nil
}

// Run starts the TUI application and blocks until it exits.
func (r *Runner) Run() error {
	r.unsubscribe = r.themes.Subscribe(func(theme.State) {
		// Subscribers may be notified from inside a tea.Cmd or from the
		// platform watcher; Send blocks until the event loop takes it.
		r.send(ThemeChangedMsg{})
	})
	defer r.teardown()

	_, err := r.program.Run()
	if err != nil && r.ctx.Err() != nil {
		// Cancelled from outside (signal or sibling failure)
		return nil
	}
	return err
}

// Start creates a TUI runner and runs it.
// This is the main entry point for TUI mode.
func Start(ctx context.Context, cfg *config.Config, themes *theme.Store) error {
	runner, err := NewRunner(ctx, cfg, themes)
	if err != nil {
		return fmt.Errorf("failed to create runner: %w", err)
	}
	return runner.Run()
}

func (r *Runner) teardown() {
	if r.unsubscribe != nil {
		r.unsubscribe()
	}
	r.echo.Stop()
	r.voice.Stop()
	log.Debug().Msg("TUI runner stopped")
}

func (r *Runner) send(msg tea.Msg) {
	if r.program != nil {
		r.program.Send(msg)
	}
}

// Send submits a user message; the bot reply arrives later.
func (r *Runner) Send(text string) (chat.Message, error) {
	msg, err := r.echo.Submit(text)
	if err != nil {
		return chat.Message{}, err
	}
	r.history.Add(msg)
	return msg, nil
}

// SetTheme changes the theme preference.
func (r *Runner) SetTheme(p theme.Preference) error {
	return r.themes.SetTheme(p)
}

// ThemeState returns the store's current state.
func (r *Runner) ThemeState() theme.State {
	return r.themes.State()
}

// StartVoice starts a scripted voice sequence.
func (r *Runner) StartVoice() error {
	return r.voice.Start(r.ctx)
}

// CancelVoice cancels the active voice sequence.
func (r *Runner) CancelVoice() error {
	return r.voice.Cancel()
}

// ClearHistory drops the conversation.
func (r *Runner) ClearHistory() {
	r.history.Clear()
}

// Stop stops the TUI application.
func (r *Runner) Stop() {
	if r.program != nil {
		r.program.Quit()
	}
}

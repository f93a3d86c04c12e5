package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/xonecas/echochat/internal/chat"
	"github.com/xonecas/echochat/internal/features"
	"github.com/xonecas/echochat/internal/styles"
	"github.com/xonecas/echochat/internal/theme"
)

// session is the line-mode conversation state.
type session struct {
	app     *App
	history *chat.History
	echo    *features.EchoService
	voice   *features.VoiceService

	replies chan chat.Message
	done    chan struct{} // Closed when the session ends

	outMu sync.Mutex // Serializes writes from the watcher and timer goroutines
	out   io.Writer
}

// runPlain runs the line-mode loop until input ends, the user quits or ctx
// is canceled.
func runPlain(ctx context.Context, app *App, in io.Reader, out io.Writer) error {
	cfg := app.Config
	s := newSession(app, out)
	defer close(s.done)

	s.echo = features.NewEchoService(cfg.Chat.ReplyDelay, cfg.Chat.ReplyPrefix, features.EchoCallbacks{
		OnReply: s.deliver,
	})
	defer s.echo.Stop()

	s.voice = features.NewVoiceService(features.VoiceOptions{
		ListenDuration: cfg.Voice.ListenDuration,
		ResponseDelay:  cfg.Voice.ResponseDelay,
		Transcripts:    cfg.Voice.Transcripts,
		Responses:      cfg.Voice.Responses,
	}, features.VoiceCallbacks{
		OnState: func(state features.VoiceState) {
			if state == features.VoiceIdle {
				return
			}
			s.println(styles.Muted.Render("🎙 " + state.String() + "..."))
		},
		OnTranscript: func(text string) {
			s.history.Add(chat.NewMessage(chat.SenderUser, text))
			s.println(styles.Brand.Render("you: ") + text)
		},
		OnResponse: func(text string) {
			s.history.Add(chat.NewMessage(chat.SenderBot, text))
			s.println(styles.Bot.Render("bot: " + text))
		},
	})
	defer s.voice.Stop()

	unsubscribe := app.Themes.Subscribe(func(state theme.State) {
		s.println(styles.Muted.Render("theme: " + themeLabel(state)))
	})
	defer unsubscribe()

	printWelcome(out, app.Themes.State(), app.Persistent)

	return s.loop(ctx, in)
}

func newSession(app *App, out io.Writer) *session {
	return &session{
		app:     app,
		history: chat.NewHistory(app.Config.Chat.MaxMessages),
		replies: make(chan chat.Message, 8),
		done:    make(chan struct{}),
		out:     out,
	}
}

// deliver hands a bot reply to the waiting send. Replies that arrive
// after the session ended are kept in history only.
func (s *session) deliver(msg chat.Message) {
	s.history.Add(msg)
	select {
	case s.replies <- msg:
	case <-s.done:
	}
}

func (s *session) loop(ctx context.Context, in io.Reader) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
		close(lines)
	}()

	for {
		s.print(styles.Brand.Render("> "))

		var line string
		select {
		case <-ctx.Done():
			return nil
		case l, ok := <-lines:
			if !ok {
				return <-scanErr
			}
			line = l
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		if input == "exit" || input == "quit" || input == "/exit" || input == "/quit" {
			s.println(styles.Muted.Render("Goodbye!"))
			return nil
		}

		if strings.HasPrefix(input, "/") {
			if err := s.command(ctx, input); err != nil {
				s.println(styles.Error.Render("Error: " + err.Error()))
			}
			continue
		}

		if err := s.send(ctx, input); err != nil {
			s.println(styles.Error.Render("Error: " + err.Error()))
		}
	}
}

// send submits a message and waits for the bot reply.
func (s *session) send(ctx context.Context, text string) error {
	msg, err := s.echo.Submit(text)
	if err != nil {
		return err
	}
	s.history.Add(msg)

	select {
	case reply := <-s.replies:
		s.println(styles.Bot.Render("bot: " + reply.Text))
		return nil
	case <-ctx.Done():
		return nil
	}
}

// command handles slash commands.
func (s *session) command(ctx context.Context, input string) error {
	parts := strings.Fields(input)

	switch parts[0] {
	case "/theme":
		target := s.app.Themes.Preference().Next()
		if len(parts) > 1 {
			p, err := theme.ParsePreference(parts[1])
			if err != nil {
				return err
			}
			target = p
		}
		if err := s.app.Themes.SetTheme(target); err != nil {
			return err
		}
		log.Debug().Str("preference", target.String()).Msg("Theme preference set from line mode")
		return nil

	case "/settings":
		state := s.app.Themes.State()
		s.println(styles.BrandBold.Render(preferenceName(state.Preference)) +
			styles.Muted.Render(fmt.Sprintf(" (platform %s, effective %s)", state.Platform, state.Effective)))
		return nil

	case "/voice":
		if err := s.voice.Start(ctx); err != nil {
			return err
		}
		select {
		case <-s.voice.Done():
		case <-ctx.Done():
			_ = s.voice.Cancel()
		}
		return nil

	case "/clear":
		s.history.Clear()
		s.println(styles.Muted.Render("Conversation cleared"))
		return nil

	case "/help":
		printCommands(s.out)
		return nil

	default:
		return fmt.Errorf("unknown command %s (try /help)", parts[0])
	}
}

func (s *session) print(text string) {
	s.outMu.Lock()
	defer s.outMu.Unlock()
	fmt.Fprint(s.out, text)
}

func (s *session) println(text string) {
	s.outMu.Lock()
	defer s.outMu.Unlock()
	fmt.Fprintln(s.out, text)
}

func themeLabel(state theme.State) string {
	return fmt.Sprintf("%s (%s)", state.Preference, state.Effective)
}

func preferenceName(p theme.Preference) string {
	switch p {
	case theme.PreferenceLight:
		return "Light Mode"
	case theme.PreferenceDark:
		return "Dark Mode"
	default:
		return "System Theme"
	}
}

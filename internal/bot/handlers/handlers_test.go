package handlers

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/go-telegram/bot/models"

	"github.com/edgard/catchupbot/internal/config"
	"github.com/edgard/catchupbot/internal/database"
)

func TestCommandArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want []string
	}{
		{"/catchup", []string{}},
		{"/catchup 3", []string{"3"}},
		{"/catchup@summary_bot   12 ", []string{"12"}},
		{"/person John Sarah 2", []string{"John", "Sarah", "2"}},
		{"hello there", nil},
		{"", nil},
	}
	for _, tt := range tests {
		got := commandArgs(tt.text)
		if len(got) != len(tt.want) || (len(got) > 0 && !reflect.DeepEqual(got, tt.want)) {
			t.Errorf("commandArgs(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestSplitPersonArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		args      []string
		wantNames []string
		wantHours string
	}{
		{"no args", nil, nil, ""},
		{"single name", []string{"John"}, []string{"John"}, ""},
		{"names", []string{"John", "Sarah"}, []string{"John", "Sarah"}, ""},
		{"name and hours", []string{"John", "3"}, []string{"John"}, "3"},
		{"only hours", []string{"3"}, []string{}, "3"},
		{"negative hours", []string{"John", "-1"}, []string{"John"}, "-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			names, hours := splitPersonArgs(tt.args)
			if len(names) != len(tt.wantNames) || (len(names) > 0 && !reflect.DeepEqual(names, tt.wantNames)) {
				t.Errorf("names = %v, want %v", names, tt.wantNames)
			}
			if hours != tt.wantHours {
				t.Errorf("hours = %q, want %q", hours, tt.wantHours)
			}
		})
	}
}

func TestSplitMessage(t *testing.T) {
	t.Parallel()

	t.Run("short text is one chunk", func(t *testing.T) {
		t.Parallel()
		got := splitMessage("hello\nworld", 100)
		if len(got) != 1 || got[0] != "hello\nworld" {
			t.Errorf("splitMessage() = %q", got)
		}
	})

	t.Run("splits on line boundaries", func(t *testing.T) {
		t.Parallel()
		lines := make([]string, 50)
		for i := range lines {
			lines[i] = fmt.Sprintf("• line number %02d", i)
		}
		text := strings.Join(lines, "\n")

		chunks := splitMessage(text, 100)
		if len(chunks) < 2 {
			t.Fatalf("splitMessage() returned %d chunks, want several", len(chunks))
		}
		for _, c := range chunks {
			if n := utf8.RuneCountInString(c); n > 100 {
				t.Errorf("chunk has %d runes, exceeds limit", n)
			}
			if strings.HasPrefix(c, "\n") || strings.HasSuffix(c, "\n") {
				t.Errorf("chunk %q not cut at a line boundary", c)
			}
		}
		if joined := strings.Join(chunks, "\n"); joined != text {
			t.Errorf("chunks do not reassemble the original text")
		}
	})

	t.Run("hard splits overlong lines", func(t *testing.T) {
		t.Parallel()
		text := strings.Repeat("é", 250)
		chunks := splitMessage(text, 100)
		if len(chunks) != 3 {
			t.Fatalf("splitMessage() returned %d chunks, want 3", len(chunks))
		}
		for _, c := range chunks {
			if n := utf8.RuneCountInString(c); n > 100 || n == 0 {
				t.Errorf("chunk has %d runes", n)
			}
		}
	})
}

func TestErrorText(t *testing.T) {
	t.Parallel()

	msgs := config.DefaultMessages
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("wrap: %w", database.ErrStoreUnavailable), msgs.StoreError},
		{context.DeadlineExceeded, msgs.StoreError},
		{fmt.Errorf("wrap: %w", database.ErrInvalidQuery), msgs.InvalidWindow},
		{errors.New("boom"), msgs.GeneralError},
	}
	for _, tt := range tests {
		if got := errorText(msgs, tt.err); got != tt.want {
			t.Errorf("errorText(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestToStoredMessage(t *testing.T) {
	t.Parallel()

	group := models.Chat{ID: -100, Type: models.ChatTypeSupergroup}

	tests := []struct {
		name       string
		update     *models.Update
		wantNil    bool
		wantName   string
		wantHandle string
	}{
		{
			name:    "nil message",
			update:  &models.Update{},
			wantNil: true,
		},
		{
			name: "private chat",
			update: &models.Update{Message: &models.Message{
				Chat: models.Chat{ID: 5, Type: models.ChatTypePrivate},
				From: &models.User{ID: 5, FirstName: "John"},
				Text: "hi",
			}},
			wantNil: true,
		},
		{
			name: "command",
			update: &models.Update{Message: &models.Message{
				Chat: group, From: &models.User{ID: 1, FirstName: "John"}, Text: "/catchup 3",
			}},
			wantNil: true,
		},
		{
			name: "no text",
			update: &models.Update{Message: &models.Message{
				Chat: group, From: &models.User{ID: 1, FirstName: "John"},
			}},
			wantNil: true,
		},
		{
			name: "regular message",
			update: &models.Update{Message: &models.Message{
				Chat: group, From: &models.User{ID: 1, FirstName: "John", Username: "jdoe"}, Text: "hello",
			}},
			wantName:   "John",
			wantHandle: "jdoe",
		},
		{
			name: "sender without first name",
			update: &models.Update{Message: &models.Message{
				Chat: group, From: &models.User{ID: 2}, Text: "hello",
			}},
			wantName: database.UnknownDisplayName,
		},
		{
			name: "anonymous admin posting as the group",
			update: &models.Update{Message: &models.Message{
				Chat: group, SenderChat: &models.Chat{ID: -100, Title: "Team"}, Text: "notice",
			}},
			wantName: "Team",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := toStoredMessage(tt.update)
			if tt.wantNil {
				if got != nil {
					t.Fatalf("toStoredMessage() = %+v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatal("toStoredMessage() = nil")
			}
			if got.ChatID != group.ID {
				t.Errorf("ChatID = %d, want %d", got.ChatID, group.ID)
			}
			if got.DisplayName != tt.wantName {
				t.Errorf("DisplayName = %q, want %q", got.DisplayName, tt.wantName)
			}
			if got.Handle.String != tt.wantHandle {
				t.Errorf("Handle = %q, want %q", got.Handle.String, tt.wantHandle)
			}
		})
	}
}

func TestRegisterAllCommandsAndMenu(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Messages: config.DefaultMessages}
	registered := RegisterAllCommands(HandlerDeps{Config: cfg})

	for _, cmd := range []string{"/start", "/help", "/catchup", "/person", "/who"} {
		h, ok := registered[cmd]
		if !ok {
			t.Fatalf("command %s not registered", cmd)
		}
		if h.Handler == nil {
			t.Errorf("command %s has nil handler", cmd)
		}
	}
	for _, cmd := range []string{"/catchup", "/person", "/who"} {
		if len(registered[cmd].Middleware) != 1 {
			t.Errorf("command %s should be group-only", cmd)
		}
	}

	menu := BotCommands(registered)
	var names []string
	for _, c := range menu {
		names = append(names, c.Command)
	}
	if want := []string{"start", "catchup", "person", "who", "help"}; !reflect.DeepEqual(names, want) {
		t.Errorf("BotCommands() = %v, want %v", names, want)
	}
}

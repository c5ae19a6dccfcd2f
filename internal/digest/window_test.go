package digest

import (
	"errors"
	"testing"
	"time"

	"github.com/edgard/catchupbot/internal/database"
)

func TestParseWindow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		arg     string
		want    Window
		wantErr bool
	}{
		{name: "empty is today", arg: "", want: Today},
		{name: "today keyword", arg: "today", want: Today},
		{name: "today any case", arg: " Today ", want: Today},
		{name: "hours", arg: "3", want: LastHours(3)},
		{name: "one hour", arg: "1", want: LastHours(1)},
		{name: "zero", arg: "0", wantErr: true},
		{name: "negative", arg: "-2", wantErr: true},
		{name: "not a number", arg: "yesterday", wantErr: true},
		{name: "fraction", arg: "1.5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseWindow(tt.arg)
			if tt.wantErr {
				if !errors.Is(err, database.ErrInvalidQuery) {
					t.Fatalf("ParseWindow(%q) error = %v, want ErrInvalidQuery", tt.arg, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseWindow(%q) error = %v", tt.arg, err)
			}
			if got != tt.want {
				t.Errorf("ParseWindow(%q) = %+v, want %+v", tt.arg, got, tt.want)
			}
		})
	}
}

func TestWindowSince(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC-3", -3*60*60)
	now := time.Date(2025, 3, 6, 1, 30, 0, 0, time.UTC) // 22:30 on Mar 5 in loc

	if got, want := Today.Since(now, loc), time.Date(2025, 3, 5, 0, 0, 0, 0, loc); !got.Equal(want) {
		t.Errorf("Today.Since() = %v, want %v", got, want)
	}
	if got, want := LastHours(2).Since(now, loc), now.Add(-2*time.Hour); !got.Equal(want) {
		t.Errorf("LastHours(2).Since() = %v, want %v", got, want)
	}
}

func TestWindowLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		w     Window
		label string
		span  string
	}{
		{Today, "today", "today"},
		{LastHours(1), "in the last hour", "last hour"},
		{LastHours(6), "in the last 6 hours", "last 6 hours"},
		{LastHours(24), "in the last 24 hours", "last 24 hours"},
	}
	for _, tt := range tests {
		if got := tt.w.Label(); got != tt.label {
			t.Errorf("%+v.Label() = %q, want %q", tt.w, got, tt.label)
		}
		if got := tt.w.Span(); got != tt.span {
			t.Errorf("%+v.Span() = %q, want %q", tt.w, got, tt.span)
		}
	}
}

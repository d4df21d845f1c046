package errors

import (
	"fmt"
	"testing"
)

func TestExitError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ExitError
		want string
	}{
		{
			name: "with underlying error",
			err:  NewExitError(ErrNotFound, ExitUser),
			want: "skill not found",
		},
		{
			name: "with wrapped error",
			err:  NewExitError(fmt.Errorf("loading config: %w", ErrInvalidConfig), ExitUser),
			want: "loading config: invalid configuration",
		},
		{
			name: "nil underlying error",
			err:  NewExitError(nil, ExitUser),
			want: "exit code 1",
		},
		{
			name: "success code with error",
			err:  NewExitError(New("unexpected"), ExitSuccess),
			want: "unexpected",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("ExitError.Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExitError_Unwrap(t *testing.T) {
	tests := []struct {
		name       string
		err        *ExitError
		wantTarget error
		wantIs     bool
	}{
		{
			name:       "unwrap to sentinel error",
			err:        NewExitError(ErrNotFound, ExitUser),
			wantTarget: ErrNotFound,
			wantIs:     true,
		},
		{
			name:       "unwrap through wrapped error",
			err:        NewExitError(fmt.Errorf("skill loading: %w", ErrMissingName), ExitUser),
			wantTarget: ErrMissingName,
			wantIs:     true,
		},
		{
			name:       "no match for different sentinel",
			err:        NewExitError(ErrNotFound, ExitUser),
			wantTarget: ErrInvalidConfig,
			wantIs:     false,
		},
		{
			name:       "nil underlying error",
			err:        NewExitError(nil, ExitUser),
			wantTarget: ErrNotFound,
			wantIs:     false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.wantTarget); got != tt.wantIs {
				t.Errorf("Is() = %v, want %v", got, tt.wantIs)
			}
		})
	}
}

func TestExitError_As(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantAs   bool
	}{
		{
			name:     "direct ExitError",
			err:      NewExitError(ErrNotFound, ExitUser),
			wantCode: ExitUser,
			wantAs:   true,
		},
		{
			name:     "wrapped ExitError",
			err:      fmt.Errorf("command failed: %w", NewExitError(ErrInvalidConfig, ExitUser)),
			wantCode: ExitUser,
			wantAs:   true,
		},
		{
			name:     "ExitSystem code",
			err:      NewExitError(New("read failed"), ExitSystem),
			wantCode: ExitSystem,
			wantAs:   true,
		},
		{
			name:     "non-ExitError",
			err:      ErrNotFound,
			wantCode: 0,
			wantAs:   false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var exitErr *ExitError
			gotAs := As(tt.err, &exitErr)
			if gotAs != tt.wantAs {
				t.Errorf("As() = %v, want %v", gotAs, tt.wantAs)
			}
			if gotAs && exitErr.Code != tt.wantCode {
				t.Errorf("ExitError.Code = %d, want %d", exitErr.Code, tt.wantCode)
			}
		})
	}
}

func TestNewExitError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     int
		wantErr  error
		wantCode int
	}{
		{
			name:     "with sentinel error",
			err:      ErrNotFound,
			code:     ExitUser,
			wantErr:  ErrNotFound,
			wantCode: ExitUser,
		},
		{
			name:     "with nil error",
			err:      nil,
			code:     ExitSuccess,
			wantErr:  nil,
			wantCode: ExitSuccess,
		},
		{
			name:     "with custom error",
			err:      New("custom error"),
			code:     ExitSystem,
			wantErr:  New("custom error"),
			wantCode: ExitSystem,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewExitError(tt.err, tt.code)
			if got.Code != tt.wantCode {
				t.Errorf("NewExitError().Code = %d, want %d", got.Code, tt.wantCode)
			}
			if tt.wantErr == nil {
				if got.Err != nil {
					t.Errorf("NewExitError().Err = %v, want nil", got.Err)
				}
			} else {
				if got.Err == nil {
					t.Errorf("NewExitError().Err = nil, want %v", tt.wantErr)
				} else if got.Err.Error() != tt.wantErr.Error() {
					t.Errorf("NewExitError().Err = %q, want %q", got.Err.Error(), tt.wantErr.Error())
				}
			}
		})
	}
}

func TestWrap(t *testing.T) {
	t.Run("wrap adds context", func(t *testing.T) {
		err := Wrap(ErrNotFound, "loading skill")
		want := "loading skill: skill not found"
		if err.Error() != want {
			t.Errorf("Wrap() = %q, want %q", err.Error(), want)
		}
		if !Is(err, ErrNotFound) {
			t.Error("wrapped error should match sentinel via Is")
		}
	})

	t.Run("wrap nil returns nil", func(t *testing.T) {
		if err := Wrap(nil, "context"); err != nil {
			t.Errorf("Wrap(nil) = %v, want nil", err)
		}
	})

	t.Run("wrapf formats context", func(t *testing.T) {
		err := Wrapf(ErrMissingName, "skill %q", "my-skill")
		want := `skill "my-skill": name is required`
		if err.Error() != want {
			t.Errorf("Wrapf() = %q, want %q", err.Error(), want)
		}
	})
}

func TestSuggestionConstructors(t *testing.T) {
	tests := []struct {
		name           string
		err            *ExitError
		wantCode       int
		wantSuggestion bool
	}{
		{
			name:           "user error",
			err:            NewUserError(ErrInvalidConfig, "Check your config"),
			wantCode:       ExitUser,
			wantSuggestion: true,
		},
		{
			name:           "system error",
			err:            NewSystemError(New("disk full"), "Free up disk space"),
			wantCode:       ExitSystem,
			wantSuggestion: true,
		},
		{
			name:           "config error",
			err:            NewConfigError(ErrInvalidConfig),
			wantCode:       ExitUser,
			wantSuggestion: true,
		},
		{
			name:           "plain exit error",
			err:            NewExitError(ErrNotFound, ExitUser),
			wantCode:       ExitUser,
			wantSuggestion: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("Code = %d, want %d", tt.err.Code, tt.wantCode)
			}
			if (tt.err.Suggestion != "") != tt.wantSuggestion {
				t.Errorf("Suggestion = %q, wantSuggestion %v", tt.err.Suggestion, tt.wantSuggestion)
			}
		})
	}
}

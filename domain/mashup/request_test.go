package mashup

import (
	"testing"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    *Request
		wantMsg string
	}{
		{
			name: "valid arguments",
			args: []string{"TestArtist", "11", "21", "out.mp3"},
			want: &Request{Performer: "TestArtist", ItemCount: 11, ClipSeconds: 21, OutputFile: "out.mp3"},
		},
		{
			name: "performer with spaces",
			args: []string{"Sharry Mann", "20", "30", "mashup.mp3"},
			want: &Request{Performer: "Sharry Mann", ItemCount: 20, ClipSeconds: 30, OutputFile: "mashup.mp3"},
		},
		{
			name:    "too few arguments",
			args:    []string{"TestArtist", "11", "21"},
			wantMsg: MsgUsage,
		},
		{
			name:    "too many arguments",
			args:    []string{"TestArtist", "11", "21", "out.mp3", "extra"},
			wantMsg: MsgUsage,
		},
		{
			name:    "non-numeric count",
			args:    []string{"TestArtist", "eleven", "21", "out.mp3"},
			wantMsg: MsgNotIntegers,
		},
		{
			name:    "non-numeric duration",
			args:    []string{"TestArtist", "11", "21.5", "out.mp3"},
			wantMsg: MsgNotIntegers,
		},
		{
			name:    "count at boundary",
			args:    []string{"TestArtist", "10", "21", "out.mp3"},
			wantMsg: MsgCountTooLow,
		},
		{
			name:    "negative count",
			args:    []string{"TestArtist", "-5", "21", "out.mp3"},
			wantMsg: MsgCountTooLow,
		},
		{
			name:    "duration at boundary",
			args:    []string{"TestArtist", "11", "20", "out.mp3"},
			wantMsg: MsgDurationTooLow,
		},
		{
			name:    "count checked before duration",
			args:    []string{"TestArtist", "3", "3", "out.mp3"},
			wantMsg: MsgCountTooLow,
		},
		{
			name:    "wrong output extension",
			args:    []string{"TestArtist", "11", "21", "out.wav"},
			wantMsg: MsgBadOutputFile,
		},
		{
			name:    "output without extension",
			args:    []string{"TestArtist", "11", "21", "out"},
			wantMsg: MsgBadOutputFile,
		},
		{
			name:    "blank performer",
			args:    []string{"   ", "11", "21", "out.mp3"},
			wantMsg: MsgMissingSinger,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseArgs(tt.args)

			if tt.wantMsg != "" {
				if err == nil {
					t.Fatalf("ParseArgs() expected error %q, got nil", tt.wantMsg)
				}
				if !IsValidationError(err) {
					t.Errorf("ParseArgs() error type = %T, want *ValidationError", err)
				}
				if err.Error() != tt.wantMsg {
					t.Errorf("ParseArgs() error = %q, want %q", err.Error(), tt.wantMsg)
				}
				return
			}

			if err != nil {
				t.Fatalf("ParseArgs() unexpected error: %v", err)
			}
			if *got != *tt.want {
				t.Errorf("ParseArgs() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{"user.name@example.co", true},
		{"x@y.com", true},
		{"first-last@sub.domain.org", true},
		{"under_score@host.io", true},
		{"a@b", false},
		{"no-at-sign.com", false},
		{"", false},
		{"two@@example.com", false},
		{"space in@example.com", false},
		{"user@example.", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.valid && err != nil {
				t.Errorf("ValidateEmail(%q) unexpected error: %v", tt.email, err)
			}
			if !tt.valid {
				if err == nil {
					t.Errorf("ValidateEmail(%q) expected error, got nil", tt.email)
				} else if err.Error() != MsgInvalidEmail {
					t.Errorf("ValidateEmail(%q) error = %q, want %q", tt.email, err.Error(), MsgInvalidEmail)
				}
			}
		})
	}
}

func TestNewRequest_WithEmail(t *testing.T) {
	if _, err := NewRequest("Artist", 11, 21, "mashup.mp3", "bad-address"); err == nil || err.Error() != MsgInvalidEmail {
		t.Errorf("NewRequest() error = %v, want %q", err, MsgInvalidEmail)
	}

	req, err := NewRequest("Artist", 11, 21, "mashup.mp3", " x@y.com ")
	if err != nil {
		t.Fatalf("NewRequest() unexpected error: %v", err)
	}
	if req.Email != "x@y.com" {
		t.Errorf("NewRequest() Email = %q, want %q", req.Email, "x@y.com")
	}
}

func TestValidateFormCounts(t *testing.T) {
	tests := []struct {
		name         string
		number       string
		duration     string
		wantNumber   int
		wantDuration int
		wantMsg      string
	}{
		{name: "valid", number: "11", duration: "21", wantNumber: 11, wantDuration: 21},
		{name: "count too low", number: "5", duration: "30", wantMsg: MsgFormOutOfRange},
		{name: "duration too low", number: "15", duration: "20", wantMsg: MsgFormOutOfRange},
		{name: "both too low", number: "1", duration: "1", wantMsg: MsgFormOutOfRange},
		{name: "not a number", number: "many", duration: "30", wantMsg: MsgFormNotIntegers},
		{name: "empty duration", number: "12", duration: "", wantMsg: MsgFormNotIntegers},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, d, err := ValidateFormCounts(tt.number, tt.duration)
			if tt.wantMsg != "" {
				if err == nil || err.Error() != tt.wantMsg {
					t.Errorf("ValidateFormCounts() error = %v, want %q", err, tt.wantMsg)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateFormCounts() unexpected error: %v", err)
			}
			if n != tt.wantNumber || d != tt.wantDuration {
				t.Errorf("ValidateFormCounts() = (%d, %d), want (%d, %d)", n, d, tt.wantNumber, tt.wantDuration)
			}
		})
	}
}

func TestSearchQuery(t *testing.T) {
	req := &Request{Performer: "TestArtist"}
	if got := req.SearchQuery(); got != "TestArtist official song" {
		t.Errorf("SearchQuery() = %q, want %q", got, "TestArtist official song")
	}
}

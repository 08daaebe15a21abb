package notification

import (
	"testing"
)

func TestEmailRequest_Validate(t *testing.T) {
	validRequest := EmailRequest{
		To:             Recipient{Address: "x@y.com"},
		Performer:      "TestArtist",
		ClipCount:      11,
		ClipSeconds:    21,
		AttachmentPath: "mashup.zip",
	}

	tests := []struct {
		name    string
		modify  func(*EmailRequest)
		wantErr error
	}{
		{
			name:    "valid request",
			modify:  func(r *EmailRequest) {},
			wantErr: nil,
		},
		{
			name:    "no recipient",
			modify:  func(r *EmailRequest) { r.To = Recipient{} },
			wantErr: ErrNoRecipient,
		},
		{
			name:    "recipient with name only",
			modify:  func(r *EmailRequest) { r.To = Recipient{Name: "Jane"} },
			wantErr: ErrNoRecipient,
		},
		{
			name:    "no attachment",
			modify:  func(r *EmailRequest) { r.AttachmentPath = "" },
			wantErr: ErrNoAttachment,
		},
		{
			name:    "summary fields are optional",
			modify:  func(r *EmailRequest) { r.Performer = ""; r.ClipCount = 0 },
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest // Copy
			tt.modify(&req)

			err := req.Validate()
			if err != tt.wantErr {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRecipient_String(t *testing.T) {
	tests := []struct {
		r    Recipient
		want string
	}{
		{Recipient{Address: "x@y.com"}, "x@y.com"},
		{Recipient{Name: "Jane Doe", Address: "jane@example.com"}, "Jane Doe <jane@example.com>"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.r.String(); got != tt.want {
				t.Errorf("Recipient.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

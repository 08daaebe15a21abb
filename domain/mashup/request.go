package mashup

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// AudioExtension is the extension of every audio artifact the pipeline writes
const AudioExtension = ".mp3"

const (
	// MinItemCount is the exclusive lower bound on the number of videos
	MinItemCount = 10
	// MinClipSeconds is the exclusive lower bound on the clip duration
	MinClipSeconds = 20
)

// Validation messages shown to users verbatim
const (
	MsgUsage           = "Usage: mashup <SingerName> <NumberOfVideos> <AudioDuration> <OutputFileName>"
	MsgNotIntegers     = "NumberOfVideos and AudioDuration must be integers."
	MsgCountTooLow     = "NumberOfVideos must be greater than 10."
	MsgDurationTooLow  = "AudioDuration must be greater than 20 seconds."
	MsgBadOutputFile   = "Output file must end with .mp3"
	MsgInvalidEmail    = "Invalid email address"
	MsgMissingSinger   = "SingerName is required."
	MsgFormOutOfRange  = "Number must be >10 and duration >20"
	MsgFormNotIntegers = "Number and duration must be integers"
)

// emailRegex is a syntactic check only
var emailRegex = regexp.MustCompile(`^[\w.-]+@[\w.-]+\.\w+$`)

// Request is a validated mashup request
type Request struct {
	Performer   string
	ItemCount   int
	ClipSeconds int
	OutputFile  string
	Email       string // Optional recipient for delivery
}

// NewRequest creates a Request and validates it
func NewRequest(performer string, itemCount, clipSeconds int, outputFile, email string) (*Request, error) {
	req := &Request{
		Performer:   strings.TrimSpace(performer),
		ItemCount:   itemCount,
		ClipSeconds: clipSeconds,
		OutputFile:  outputFile,
		Email:       strings.TrimSpace(email),
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	return req, nil
}

// ParseArgs validates the positional command-line arguments
// <performer> <count> <duration> <output>
func ParseArgs(args []string) (*Request, error) {
	if len(args) != 4 {
		return nil, &ValidationError{Message: MsgUsage}
	}

	count, err := strconv.Atoi(strings.TrimSpace(args[1]))
	if err != nil {
		return nil, &ValidationError{Message: MsgNotIntegers}
	}
	duration, err := strconv.Atoi(strings.TrimSpace(args[2]))
	if err != nil {
		return nil, &ValidationError{Message: MsgNotIntegers}
	}

	return NewRequest(args[0], count, duration, args[3], "")
}

// Validate checks every rule, stopping at the first failure
func (r *Request) Validate() error {
	if r.Performer == "" {
		return &ValidationError{Message: MsgMissingSinger}
	}
	if r.ItemCount <= MinItemCount {
		return &ValidationError{Message: MsgCountTooLow}
	}
	if r.ClipSeconds <= MinClipSeconds {
		return &ValidationError{Message: MsgDurationTooLow}
	}
	if !strings.HasSuffix(r.OutputFile, AudioExtension) {
		return &ValidationError{Message: MsgBadOutputFile}
	}
	if r.Email != "" {
		if err := ValidateEmail(r.Email); err != nil {
			return err
		}
	}
	return nil
}

// ValidateEmail returns a ValidationError unless email looks like name@host.tld
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return &ValidationError{Message: MsgInvalidEmail}
	}
	return nil
}

// ValidateFormCounts checks the web form's number and duration fields.
// Both bounds are reported with one message, before any email check.
func ValidateFormCounts(number, duration string) (int, int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(number))
	if err != nil {
		return 0, 0, &ValidationError{Message: MsgFormNotIntegers}
	}
	d, err := strconv.Atoi(strings.TrimSpace(duration))
	if err != nil {
		return 0, 0, &ValidationError{Message: MsgFormNotIntegers}
	}
	if n <= MinItemCount || d <= MinClipSeconds {
		return 0, 0, &ValidationError{Message: MsgFormOutOfRange}
	}
	return n, d, nil
}

// ClipDuration is ClipSeconds as a time.Duration
func (r *Request) ClipDuration() time.Duration {
	return time.Duration(r.ClipSeconds) * time.Second
}

// SearchQuery returns the free-text query used to find the performer's songs
func (r *Request) SearchQuery() string {
	return SearchQuery(r.Performer)
}

// SearchQuery builds "<performer> official song"
func SearchQuery(performer string) string {
	return strings.TrimSpace(performer) + " official song"
}

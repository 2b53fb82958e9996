package content

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ContentType enumerates the kinds of content the matcher evaluates.
type ContentType string

const (
	TypePost  ContentType = "post"
	TypeVideo ContentType = "video"
	TypeClip  ContentType = "clip"
)

// ParseContentType converts user input into a ContentType.
func ParseContentType(value string) (ContentType, error) {
	switch ContentType(strings.ToLower(strings.TrimSpace(value))) {
	case TypePost:
		return TypePost, nil
	case TypeVideo:
		return TypeVideo, nil
	case TypeClip, "moment":
		return TypeClip, nil
	default:
		return "", fmt.Errorf("unknown content type %q", value)
	}
}

// Status is the lifecycle state of a stored item. Only published items are
// eligible candidates.
type Status string

const (
	StatusPublished Status = "published"
	StatusRemoved   Status = "removed"
)

// Hash is a 64-bit perceptual fingerprint. It marshals as 16 hex digits so
// JSON and TOML consumers never lose precision.
type Hash uint64

// ParseHash parses a hex encoded hash with an optional 0x prefix.
func ParseHash(value string) (Hash, error) {
	trimmed := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(value)), "0x")
	if trimmed == "" {
		return 0, fmt.Errorf("parse hash: empty value")
	}
	v, err := strconv.ParseUint(trimmed, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("parse hash %q: %w", value, err)
	}
	return Hash(v), nil
}

func (h Hash) String() string {
	return fmt.Sprintf("%016x", uint64(h))
}

// MarshalText implements encoding.TextMarshaler.
func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *Hash) UnmarshalText(text []byte) error {
	parsed, err := ParseHash(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// SampleKind distinguishes the two fingerprint tables.
type SampleKind string

const (
	SampleFrame SampleKind = "frame"
	SampleAudio SampleKind = "audio"
)

// Sample is one fingerprint taken at a position on the media timeline.
type Sample struct {
	Index int  `json:"index"`
	Hash  Hash `json:"hash"`
}

// ValidateSamples reports a HashComputationError when indices are not
// strictly increasing.
func ValidateSamples(kind SampleKind, samples []Sample) error {
	for i := 1; i < len(samples); i++ {
		if samples[i].Index <= samples[i-1].Index {
			return HashComputation(string(kind)+" samples",
				fmt.Errorf("index %d at position %d does not follow %d", samples[i].Index, i, samples[i-1].Index))
		}
	}
	return nil
}

// Item is one published (or candidate) unit of content.
type Item struct {
	ID            string      `json:"id"`
	AuthorID      string      `json:"author_id"`
	Type          ContentType `json:"content_type"`
	Body          string      `json:"body"`
	WordCount     int         `json:"word_count"`
	Protected     bool        `json:"is_protected"`
	Status        Status      `json:"status"`
	PublishedAt   time.Time   `json:"published_at"`
	ContentHash   string      `json:"content_hash,omitempty"`
	ImageHash     *Hash       `json:"image_hash,omitempty"`
	VideoURL      string      `json:"video_url,omitempty"`
	VideoDuration float64     `json:"video_duration,omitempty"`
	FrameHashes   []Sample    `json:"frame_hashes,omitempty"`
	AudioHashes   []Sample    `json:"audio_hashes,omitempty"`
}

// Samples returns the sequence stored for kind.
func (i *Item) Samples(kind SampleKind) []Sample {
	if i == nil {
		return nil
	}
	if kind == SampleAudio {
		return i.AudioHashes
	}
	return i.FrameHashes
}

// Hashes groups the fingerprints attached to an accepted item.
type Hashes struct {
	ContentHash string
	WordCount   int
	ImageHash   *Hash
	Frames      []Sample
	Audio       []Sample
}

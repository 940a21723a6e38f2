// Package speech reads recipe instructions aloud. The Narrator synthesizes
// text with Azure neural TTS and plays it through the system audio device;
// the Silent speaker stands in when audio is disabled.
package speech

// Default voice for TTS. Change this constant to switch voices.
// Full list: https://learn.microsoft.com/en-us/azure/ai-services/speech-service/language-support
const DefaultVoice = "en-US-AvaNeural"

// Audio format returned by Azure and expected by the player.
const DefaultAudioFormat = "riff-24khz-16bit-mono-pcm"

// Audio parameters matching the default format.
const (
	SampleRate   = 24000
	ChannelCount = 1
	BitDepth     = 16
)

// DefaultChunkSize is the approximate character count per TTS request,
// roughly two sentences.
const DefaultChunkSize = 200

// Prosody is how an utterance should sound.
type Prosody struct {
	Locale string  // e.g. "en-US"
	Rate   float64 // 1 = normal speed
	Volume float64 // 0..1
}

func (p Prosody) withDefaults() Prosody {
	if p.Locale == "" {
		p.Locale = "en-US"
	}
	if p.Rate <= 0 {
		p.Rate = 1
	}
	if p.Volume <= 0 || p.Volume > 1 {
		p.Volume = 1
	}
	return p
}

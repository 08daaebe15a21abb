package mashup

import (
	"path/filepath"
	"strings"
)

// VideoExtensions are the container formats the extraction stage accepts
var VideoExtensions = []string{".mp4", ".mkv", ".webm"}

// IsVideoFile returns true if name has a known container extension
func IsVideoFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, v := range VideoExtensions {
		if ext == v {
			return true
		}
	}
	return false
}

// IsAudioFile returns true if name has the pipeline's audio extension
func IsAudioFile(name string) bool {
	return strings.EqualFold(filepath.Ext(name), AudioExtension)
}

// AudioFileName maps a media filename to its audio filename by replacing
// only the final extension, so "Song ft. X.mp4" becomes "Song ft. X.mp3".
func AudioFileName(mediaName string) string {
	base := filepath.Base(mediaName)
	return strings.TrimSuffix(base, filepath.Ext(base)) + AudioExtension
}

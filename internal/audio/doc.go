// Package audio plays a sound when a notification is shown.
// It uses the beep library to decode WAV, OGG and MP3 files.
package audio

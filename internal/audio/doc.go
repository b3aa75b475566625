// Package audio implements the sound-playback collaborator: WAV files
// resolved by sound id from a configured directory, played through the
// system audio device via oto.
package audio

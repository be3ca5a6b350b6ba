package library

import (
	"fmt"

	"swfplay/internal/audio"
	"swfplay/internal/debug"
	"swfplay/internal/display"
	"swfplay/internal/swf"
)

// Library is the movie-wide character registry. It is written sequentially
// during preload, before any playback, and read-only afterwards.
type Library struct {
	characters map[swf.CharacterID]display.Character
	exports    map[string]swf.CharacterID
	jpegTables []byte

	Logger *debug.Logger
}

// NewLibrary creates an empty character library
func NewLibrary(logger *debug.Logger) *Library {
	return &Library{
		characters: make(map[swf.CharacterID]display.Character),
		exports:    make(map[string]swf.CharacterID),
		Logger:     logger,
	}
}

// RegisterCharacter registers a character under its id. A duplicate id is
// logged and the first registration kept.
func (l *Library) RegisterCharacter(id swf.CharacterID, character display.Character) {
	if _, exists := l.characters[id]; exists {
		if l.Logger != nil {
			l.Logger.LogLibraryf(debug.LogLevelWarning, "Character id %d registered twice; keeping first", id)
		}
		return
	}
	l.characters[id] = character
}

// CharacterByID looks up a character
func (l *Library) CharacterByID(id swf.CharacterID) (display.Character, bool) {
	c, ok := l.characters[id]
	return c, ok
}

// InstantiateByID creates a fresh display object for the character
func (l *Library) InstantiateByID(id swf.CharacterID, ctx *display.UpdateContext) (display.DisplayObject, error) {
	character, ok := l.characters[id]
	if !ok {
		return nil, fmt.Errorf("unknown character id %d", id)
	}
	return character.Instantiate(ctx)
}

// RegisterExport binds an export name to a character id
func (l *Library) RegisterExport(id swf.CharacterID, name string) {
	l.exports[name] = id
}

// ExportByName resolves an export name to its character id
func (l *Library) ExportByName(name string) (swf.CharacterID, bool) {
	id, ok := l.exports[name]
	return id, ok
}

// SetJpegTables stores the movie-wide JPEG decoder tables
func (l *Library) SetJpegTables(data []byte) {
	l.jpegTables = data
}

// JpegTables returns the movie-wide JPEG decoder tables, or nil
func (l *Library) JpegTables() []byte {
	return l.jpegTables
}

// Sound returns the backend handle of a registered sound character
func (l *Library) Sound(id swf.CharacterID) (audio.SoundHandle, bool) {
	if c, ok := l.characters[id]; ok {
		if sound, ok := c.(*display.SoundDef); ok {
			return sound.Handle, true
		}
	}
	return 0, false
}

var _ display.Library = (*Library)(nil)

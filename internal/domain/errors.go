package domain

import "errors"

var (
	// ErrUnknownGame is returned when a session is requested for a kind with no registered generator.
	ErrUnknownGame = errors.New("unknown game kind")
	// ErrSessionNotFound is returned when a game session has not been started or was already ended.
	ErrSessionNotFound = errors.New("game session not found")
	// ErrSessionClosed is returned for input that arrives after teardown.
	ErrSessionClosed = errors.New("game session closed")
	// ErrGameOver is returned for input after the session reached its terminal state.
	ErrGameOver = errors.New("game over")
	// ErrNotAccepting is returned while a round transition or a reveal stage is running.
	ErrNotAccepting = errors.New("session is not accepting answers")
	// ErrVoiceUnsupported signals that no speech recognition path is available.
	ErrVoiceUnsupported = errors.New("speech recognition not supported")
	// ErrGenerationFailed wraps an image generation call that returned an error or no data.
	ErrGenerationFailed = errors.New("image generation failed")
	// ErrNoImage indicates the image model answered without inline image data.
	ErrNoImage = errors.New("no image in response")
	// ErrWorkshopBusy is returned for input while a generation call is pending.
	ErrWorkshopBusy = errors.New("workshop is generating")
	// ErrWorkshopNotFound indicates an unknown workshop id.
	ErrWorkshopNotFound = errors.New("workshop not found")
	// ErrUnknownWorkshop is returned when a workshop of an unknown kind is requested.
	ErrUnknownWorkshop = errors.New("unknown workshop kind")
	// ErrWrongStage indicates an action that the workshop's current stage does not allow.
	ErrWrongStage = errors.New("action not allowed in current stage")
	// ErrCharacterNotFound indicates an unknown gallery character id.
	ErrCharacterNotFound = errors.New("character not found")
	// ErrInvalidCharacter is returned when a character is appended without an image.
	ErrInvalidCharacter = errors.New("invalid character")
)

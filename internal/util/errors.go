package util

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrCourseNotFound     = errors.New("course not found")
	ErrUnitNotFound       = errors.New("unit not found")
	ErrLessonNotFound     = errors.New("lesson not found")
	ErrChallengeNotFound  = errors.New("challenge not found")
	ErrProgressNotFound   = errors.New("user progress not found")
	ErrHeartsAlreadyFull  = errors.New("hearts are already full")
	ErrNotEnoughPoints    = errors.New("not enough points")
	ErrNoFreezesAvailable = errors.New("no streak freezes available")
	ErrGenerationFailed   = errors.New("failed to generate content")
	ErrMissingProviderIDs = errors.New("subscription event missing provider ids")
	ErrInvalidMediaType   = errors.New("invalid media type")
)

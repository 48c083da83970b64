package entity

import "errors"

var (
	// ErrNoSlides is returned when slide extraction was requested and the
	// video yielded zero accepted slides. Transcript-only runs do not hit
	// this: zero slides is a normal outcome there.
	ErrNoSlides = errors.New("no slides extracted from video")

	// ErrVideoOpen signals that the video source could not be opened at all.
	ErrVideoOpen = errors.New("cannot open video")

	// ErrNoFrames signals a video that opened but produced zero decodable
	// frames.
	ErrNoFrames = errors.New("no decodable frames in video")
)

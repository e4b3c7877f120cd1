// Package tui is the terminal playback controller.
package tui

type state int

const (
	playState state = iota
	tracksState
	infoState
	errorState
)

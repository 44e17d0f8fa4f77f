package game

// Stage is the round lifecycle: Lobby -> Running -> Ended -> Lobby ...
type Stage uint8

const (
	StageLobby Stage = iota
	StageRunning
	StageEnded
)

func (s Stage) String() string {
	switch s {
	case StageLobby:
		return "lobby"
	case StageRunning:
		return "running"
	case StageEnded:
		return "ended"
	}
	return "unknown"
}

// SoundEffect is a semantic event the host forwards to its audio layer
type SoundEffect uint8

const (
	SoundStart SoundEffect = iota
	SoundEnd
	SoundEat
	SoundCut
)

func (e SoundEffect) String() string {
	switch e {
	case SoundStart:
		return "start"
	case SoundEnd:
		return "end"
	case SoundEat:
		return "eat"
	case SoundCut:
		return "cut"
	}
	return "unknown"
}

package rounds

import (
	"time"

	"space-adventure-service/internal/domain"
)

// Robot directions.
const (
	Right = "right"
	Left  = "left"
	Down  = "down"
	Up    = "up"
)

const robotGrid = 3

var cues = map[string]string{
	Right: "Robotu SAĞA götür.",
	Left:  "Robotu SOLA götür.",
	Down:  "Robotu AŞAĞI götür.",
	Up:    "Robotu YUKARI götür.",
}

// RobotCommand narrates one direction at a time; the child moves the robot until it reaches the target.
type RobotCommand struct{}

func (RobotCommand) Kind() domain.GameKind { return domain.KindRobotCommand }

func (RobotCommand) Rules() Rules {
	return Rules{
		OnWrong:      Retry,
		Penalize:     true,
		AdvanceDelay: 2 * time.Second,
		ExitDelay:    3 * time.Second,
		Messages: Messages{
			Success:  "Aferin! Ulaştın.",
			Failure:  "Yanlış yön! Tekrar dinle.",
			GameOver: "Oyun bitti.",
			Score:    "Toplam %d hedefe ulaştın.",
		},
	}
}

func (RobotCommand) Generate(req Request) domain.Round {
	rnd := rng(req)
	start := domain.Point{}
	cell := 1 + rnd.Intn(robotGrid*robotGrid-1)
	target := domain.Point{X: cell % robotGrid, Y: cell / robotGrid}
	first := NextCommand(start, target)
	return domain.Round{
		Kind:   domain.KindRobotCommand,
		Level:  level(req),
		Prompt: cues[first],
		Answer: first,
		Entry:  domain.EntryDirection,
		Aux:    domain.Aux{Grid: &domain.Grid{Size: robotGrid, Start: start, Target: target}},
	}
}

// NextCommand moves horizontally first, then vertically. Empty when pos is the target.
func NextCommand(pos, target domain.Point) string {
	switch {
	case pos.X < target.X:
		return Right
	case pos.X > target.X:
		return Left
	case pos.Y < target.Y:
		return Down
	case pos.Y > target.Y:
		return Up
	}
	return ""
}

func move(p domain.Point, dir string) domain.Point {
	switch dir {
	case Right:
		p.X++
	case Left:
		p.X--
	case Down:
		p.Y++
	case Up:
		p.Y--
	}
	return p
}

func (RobotCommand) Begin(r domain.Round) domain.Progress {
	return domain.Progress{Stage: domain.StageAnswer, Robot: r.Aux.Grid.Start, Command: r.Answer}
}

func (RobotCommand) Step(r domain.Round, p domain.Progress, answer string) StepResult {
	if _, ok := cues[answer]; !ok {
		return StepResult{Progress: p, Outcome: Ignored}
	}
	if answer != p.Command {
		return StepResult{Progress: p, Outcome: Wrong}
	}
	next := p
	next.Robot = move(p.Robot, answer)
	next.Command = NextCommand(next.Robot, r.Aux.Grid.Target)
	if next.Command == "" {
		return StepResult{Progress: next, Outcome: Solved}
	}
	return StepResult{Progress: next, Outcome: Partial, Say: cues[next.Command]}
}

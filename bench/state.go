package bench

import "fmt"

type State int

const (
	Idle State = iota
	SweepSphereCount
	SweepIterationDepth
	SweepDistance
	SweepStandardSuite
	Done
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case SweepSphereCount:
		return "SweepSphereCount"
	case SweepIterationDepth:
		return "SweepIterationDepth"
	case SweepDistance:
		return "SweepDistance"
	case SweepStandardSuite:
		return "SweepStandardSuite"
	case Done:
		return "Done"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

type Event int

const (
	StartSpheres Event = iota
	StartIterations
	StartDistance
	StartStandard
	WindowElapsed
	Exhausted
)

type transition struct {
	from State
	on   Event
}

var transitions = map[transition]State{
	{Idle, StartSpheres}:    SweepSphereCount,
	{Idle, StartIterations}: SweepIterationDepth,
	{Idle, StartDistance}:   SweepDistance,
	{Idle, StartStandard}:   SweepStandardSuite,

	{SweepSphereCount, WindowElapsed}:    SweepSphereCount,
	{SweepIterationDepth, WindowElapsed}: SweepIterationDepth,
	{SweepDistance, WindowElapsed}:       SweepDistance,
	{SweepStandardSuite, WindowElapsed}:  SweepStandardSuite,

	{SweepSphereCount, Exhausted}:    Done,
	{SweepIterationDepth, Exhausted}: Done,
	{SweepDistance, Exhausted}:       Done,
	{SweepStandardSuite, Exhausted}:  Done,
}

// Next returns the state reached from s on e.
func Next(s State, e Event) (State, error) {
	to, ok := transitions[transition{s, e}]
	if !ok {
		return s, fmt.Errorf("no transition from %v on event %d", s, e)
	}
	return to, nil
}

func startEvent(a Axis) (Event, bool) {
	switch a {
	case AxisSpheres:
		return StartSpheres, true
	case AxisIterations:
		return StartIterations, true
	case AxisDistance:
		return StartDistance, true
	case AxisStandard:
		return StartStandard, true
	}
	return 0, false
}

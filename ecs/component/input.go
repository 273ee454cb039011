package component

import "github.com/milk9111/locomotion/input"

// Input is an action map and whatever fills it: a device poller or a script.
type Input struct {
	Actions *input.ActionMap
	Poller  input.Poller
}

var InputComponent = NewComponent[Input]()

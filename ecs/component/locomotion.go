package component

import "github.com/milk9111/locomotion/locomotion"

// Locomotion holds an enabled controller and what the systems last saw of it.
type Locomotion struct {
	Controller *locomotion.Controller
	Phase      locomotion.VerticalPhase
	Grounded   bool
	// Airborne is the time since the ground probe last hit, in seconds.
	Airborne float64
	// Apex is the highest point of the current or last jump.
	Apex float64
	// Ticks counts observed controller ticks. Transition events start
	// after the first one.
	Ticks uint64
}

var LocomotionComponent = NewComponent[Locomotion]()

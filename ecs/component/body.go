package component

import (
	"github.com/milk9111/locomotion/physics/kinematic"
	"github.com/milk9111/locomotion/physics/rigid"
)

type KinematicBody struct {
	Body *kinematic.Body
}

var KinematicBodyComponent = NewComponent[KinematicBody]()

type RigidBody struct {
	Body *rigid.Body
}

var RigidBodyComponent = NewComponent[RigidBody]()

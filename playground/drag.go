package playground

import (
	"math"

	"github.com/jakecoffman/cp"
)

const (
	// dragMaxForce caps the pull so a held toy can still be blocked by
	// other bodies instead of tunneling through them.
	dragMaxForce = 50000.0
	// dragSmoothing is the per-step lerp factor chasing the target.
	dragSmoothing = 0.25
)

// DragJoint pulls a body toward a pointer target through a pivot joint.
// The pointer side is a rogue kinematic body that is never added to the
// space; the joint is inserted on Start and removed on Stop. Both are
// idempotent, and UpdateTarget has no effect while the joint is inactive.
type DragJoint struct {
	space   *cp.Space
	body    *cp.Body
	pointer *cp.Body
	joint   *cp.Constraint
	target  cp.Vector
}

func newDragJoint(space *cp.Space, body *cp.Body) *DragJoint {
	return &DragJoint{
		space:   space,
		body:    body,
		pointer: cp.NewKinematicBody(),
	}
}

// Start inserts the constraint, gripping the body at the world point at.
// Calling it while already active does nothing.
func (d *DragJoint) Start(at cp.Vector) {
	if d == nil || d.joint != nil || d.space == nil || d.body == nil {
		return
	}
	d.target = at
	d.pointer.SetPosition(at)
	d.pointer.SetVelocityVector(cp.Vector{})

	joint := cp.NewPivotJoint2(d.pointer, d.body, cp.Vector{}, d.body.WorldToLocal(at))
	joint.SetMaxForce(dragMaxForce)
	// soften the error correction so overlaps resolve over several steps
	joint.SetErrorBias(math.Pow(1.0-0.15, 60.0))
	d.space.AddConstraint(joint)
	d.joint = joint
}

// Stop removes the constraint. Calling it while inactive does nothing.
func (d *DragJoint) Stop() {
	if d == nil || d.joint == nil {
		return
	}
	d.space.RemoveConstraint(d.joint)
	d.joint = nil
}

// UpdateTarget retargets an active drag to the world point p.
func (d *DragJoint) UpdateTarget(p cp.Vector) {
	if d == nil || d.joint == nil {
		return
	}
	d.target = p
}

// advance moves the pointer body one step toward the target. The velocity
// is set alongside the position so the solver sees the pointer's motion.
func (d *DragJoint) advance() {
	if d == nil || d.joint == nil {
		return
	}
	pos := d.pointer.Position()
	next := pos.Lerp(d.target, dragSmoothing)
	d.pointer.SetVelocityVector(next.Sub(pos).Mult(60.0))
	d.pointer.SetPosition(next)
}

// Active reports whether the constraint is currently inserted in the space.
func (d *DragJoint) Active() bool {
	return d != nil && d.joint != nil
}

// Target returns the world point the drag is currently pulling toward.
func (d *DragJoint) Target() cp.Vector {
	if d == nil {
		return cp.Vector{}
	}
	return d.target
}

// Package biomech computes sprint-form metrics from pose frames.
//
// Responsibilities: knee angle, hip velocity between consecutive frames,
// arm symmetry, and the weighted overall score.
// Key types: Engine.
//
// The engine is stateless. Partial keypoint data is the normal case, so every
// computation has a defined fallback (0 angle, 0 velocity, the
// sprint.SymmetryUnmeasurable sentinel) and no operation returns an error.
// Callers own frame ordering and keep the previous frame between calls.
package biomech

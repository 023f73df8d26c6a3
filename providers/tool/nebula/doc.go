// Package nebula holds the two demo tools of the nebula navigation scenario:
// a sector hazard scanner over a fixed 3x3 grid and an escape velocity
// calculator. They are deterministic so scripted episodes replay exactly.
package nebula

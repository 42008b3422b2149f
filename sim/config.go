package sim

// RunConfig groups the parameters that govern one simulation run's
// termination and reproducibility, independent of which dynamics class or
// scheduler implementation is in use.
type RunConfig struct {
	Seed      int64   // master seed; see PartitionedRNG
	MaxEvents int64   // 0 = unbounded
	MaxTime   float64 // 0 = unbounded
}

// BoundaryConfig groups the simulation cell's geometry and boundary
// condition selection.
type BoundaryConfig struct {
	Kind       string // "none", "periodic", "shearing"
	Lx, Ly, Lz float64
	ShearRate  float64
}

// Build constructs the BoundaryCondition this config describes.
func (bc BoundaryConfig) Build(time float64) BoundaryCondition {
	switch bc.Kind {
	case "periodic":
		return PeriodicBC{HalfLx: bc.Lx / 2, HalfLy: bc.Ly / 2, HalfLz: bc.Lz / 2}
	case "shearing":
		return ShearingBC{HalfLx: bc.Lx / 2, HalfLy: bc.Ly / 2, HalfLz: bc.Lz / 2, ShearRate: bc.ShearRate, Time: time}
	default:
		return NoBC{}
	}
}

// DynamicsConfig selects and parameterizes the active Liouvillean.
type DynamicsConfig struct {
	Kind string // "newtonian" (default), "shearing"
}

// SchedulerConfig selects and parameterizes the active Scheduler.
type SchedulerConfig struct {
	Kind string // "bounded-pel" (default), "calendar-queue"
}

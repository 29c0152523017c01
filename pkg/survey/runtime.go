package survey

// Runtime bundles the per-client machine with the driver of the challenge
// currently in flight. Driver is nil outside the challenge step.
type Runtime struct {
	Machine *Machine
	Driver  *Driver
}

package realtime

// processTick processes one complete tick and publishes its outcome.
func (rt *Runtime) processTick() error {
	step, err := rt.machine.Tick()
	if err != nil {
		return err
	}

	rt.mu.Lock()
	rt.tickNum++
	rt.current = step.To
	rt.mu.Unlock()
	return nil
}

// fail records the error that stops the loop.
func (rt *Runtime) fail(err error) {
	rt.mu.Lock()
	rt.err = err
	tick := rt.tickNum
	rt.mu.Unlock()

	rt.logger.Error().Err(err).Uint64("tick", tick).Msg("tick failed, stopping runtime")
	if rt.onError != nil {
		rt.onError(err)
	}
}

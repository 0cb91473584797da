package delegation

type counters struct {
	handlersRegistered int
	registrations      uint64
	eventsProcessed    uint64
	errorsEncountered  uint64
}

// Stats is a snapshot of registry telemetry.
type Stats struct {
	// HandlersRegistered is the net registration count; it always equals the
	// number of live handlers.
	HandlersRegistered int `json:"handlersRegistered"`
	// Registrations counts successful Register calls, overwrites included.
	Registrations     uint64 `json:"registrations"`
	EventsProcessed   uint64 `json:"eventsProcessed"`
	ErrorsEncountered uint64 `json:"errorsEncountered"`
	// RegisteredActions is the live size of the handler map.
	RegisteredActions int `json:"registeredActions"`
}

// Stats returns the current counters merged with the live registry size.
func (r *Registry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Stats{
		HandlersRegistered: r.stats.handlersRegistered,
		Registrations:      r.stats.registrations,
		EventsProcessed:    r.stats.eventsProcessed,
		ErrorsEncountered:  r.stats.errorsEncountered,
		RegisteredActions:  len(r.handlers),
	}
}

// ResetStats zeroes the dispatch counters. Registration counts and the
// handler map are left alone.
func (r *Registry) ResetStats() {
	r.mu.Lock()
	r.stats.eventsProcessed = 0
	r.stats.errorsEncountered = 0
	debug := r.debug
	logger := r.logger
	r.mu.Unlock()
	if debug {
		logger.Debug(logCategoryLifecycle, "dispatch stats reset", nil)
	}
}

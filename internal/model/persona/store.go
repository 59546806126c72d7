package persona

// Store exposes persona and target-profile retrieval for the orchestrator
// and HTTP handlers. Implementations are read-only after construction.
type Store interface {
	ListPersonas() []Persona
	FindPersona(id string) (Persona, bool)
	ListTargetProfiles() []TargetProfile
	FindTargetProfile(id string) (TargetProfile, bool)
}

// MemoryStore implements Store with in-memory slices loaded once at startup.
// Listing order is the seed order and stays stable for the process lifetime.
type MemoryStore struct {
	personas []Persona
	profiles []TargetProfile
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied records.
func NewMemoryStore(personas []Persona, profiles []TargetProfile) *MemoryStore {
	return &MemoryStore{
		personas: append([]Persona(nil), personas...),
		profiles: append([]TargetProfile(nil), profiles...),
	}
}

// ListPersonas returns the full persona set in seed order.
func (s *MemoryStore) ListPersonas() []Persona {
	return append([]Persona(nil), s.personas...)
}

// FindPersona looks up a persona by identifier.
func (s *MemoryStore) FindPersona(id string) (Persona, bool) {
	for _, item := range s.personas {
		if item.ID == id {
			return item, true
		}
	}
	return Persona{}, false
}

// ListTargetProfiles returns the full profile set in seed order.
func (s *MemoryStore) ListTargetProfiles() []TargetProfile {
	return append([]TargetProfile(nil), s.profiles...)
}

// FindTargetProfile looks up a target profile by identifier.
func (s *MemoryStore) FindTargetProfile(id string) (TargetProfile, bool) {
	for _, item := range s.profiles {
		if item.ID == id {
			return item, true
		}
	}
	return TargetProfile{}, false
}

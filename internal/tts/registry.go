package tts

// Registry routes dialogue languages to synthesis providers. Lines in
// a language without an explicit provider go to the fallback.
type Registry struct {
	byLanguage map[string]Provider
	fallback   Provider
}

// NewRegistry creates a registry with the given fallback provider
func NewRegistry(fallback Provider) *Registry {
	return &Registry{
		byLanguage: make(map[string]Provider),
		fallback:   fallback,
	}
}

// Register binds a language tag to a provider
func (r *Registry) Register(language string, p Provider) {
	r.byLanguage[language] = p
}

// ForLanguage returns the provider registered for a language tag,
// falling back when none is bound
func (r *Registry) ForLanguage(language string) Provider {
	if p, ok := r.byLanguage[language]; ok {
		return p
	}
	return r.fallback
}

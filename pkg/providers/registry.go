package providers

// MustRegister registers a provider with the default registry and panics on failure.
// Meant for init functions, where a duplicate name is a programming error.
func MustRegister(name string, info *ProviderInfo) {
	if err := DefaultRegistry.Register(name, info); err != nil {
		panic(err)
	}
}

// ListProviders is a convenience function to list all providers in the default registry.
func ListProviders() []string {
	return DefaultRegistry.List()
}

// CreateProvider is a convenience function to create a provider from the default registry.
func CreateProvider(name string, config any) (FeedProvider, error) {
	return DefaultRegistry.CreateProvider(name, config)
}

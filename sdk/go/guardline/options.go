package guardline

// Option configures a Client at creation time.
type Option func(*clientConfig)

type clientConfig struct {
	configPath string
	scopeMap   string
	defaults   map[string]string
	actor      string
}

// WithConfig sets the path to a guardline config YAML file.
func WithConfig(path string) Option {
	return func(c *clientConfig) { c.configPath = path }
}

// WithScopeMap sets the path to a scope mapping YAML file.
func WithScopeMap(path string) Option {
	return func(c *clientConfig) { c.scopeMap = path }
}

// WithDefault sets the default access for an actor on untagged lines.
// Overrides the config file.
func WithDefault(actor, access string) Option {
	return func(c *clientConfig) {
		if c.defaults == nil {
			c.defaults = make(map[string]string)
		}
		c.defaults[actor] = access
	}
}

// WithActor sets the actor checked when an Edit names none.
func WithActor(actor string) Option {
	return func(c *clientConfig) { c.actor = actor }
}

// WrapOption configures a single Wrap call.
type WrapOption func(*wrapConfig)

type wrapConfig struct {
	actor string
}

// WrapWithActor overrides the client-level actor for this wrap.
func WrapWithActor(actor string) WrapOption {
	return func(w *wrapConfig) { w.actor = actor }
}
